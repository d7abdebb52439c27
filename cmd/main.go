package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "myhouse/docs"
	"myhouse/internal/clock"
	"myhouse/internal/config"
	"myhouse/internal/connection"
	"myhouse/internal/control"
	"myhouse/internal/handlers"
	"myhouse/internal/inventory"
	"myhouse/internal/logger"
	"myhouse/internal/notify"
	"myhouse/internal/presence"
	"myhouse/internal/publisher"
	"myhouse/internal/repository"
	dbconn "myhouse/internal/repository/db"
	"myhouse/internal/server"
	"myhouse/internal/service"
	"myhouse/internal/state"

	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	db, err := dbconn.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DBPath)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var workers sync.WaitGroup

	// core pipeline: socket -> store -> estimator / notifier / recorder
	store := state.NewStore()
	estimator := presence.NewEstimator(clock.Real())
	estimator.Attach(store)
	notifier := notify.NewNotifier(time.Now, notify.DefaultHistory)
	notifier.Attach(store)
	notifier.AddSink(func(n notify.Notification) {
		log.Infow("notification_raised", "id", n.ID, "level", n.Level, "title", n.Title, "description", n.Description)
	})

	repos := repository.NewRepository(db)
	recorder := service.NewRecorderService(repos.EventRepo, repos.PresenceRepo, log, service.DefaultRecorderBuffer)
	logLastPresence(ctx, recorder, log)
	recorder.Attach(store)
	estimator.Subscribe(recorder.RecordJudgment)
	goWorker(&workers, func() { recorder.Run(ctx) })

	if pub := openPublisher(cfg.MQTT, log); pub != nil {
		defer func() { _ = pub.Close() }()
		fwd := publisher.NewForwarder(pub, log, publisher.DefaultForwarderBuffer)
		fwd.Attach(store, estimator, notifier)
		goWorker(&workers, func() { fwd.Run(ctx) })
	}

	manager := connection.NewManager(connection.Config{
		URL:       cfg.WS.URL,
		BaseDelay: cfg.WS.BaseDelay,
		MaxDelay:  cfg.WS.MaxDelay,
	}, connection.WebSocketDialer{HandshakeTimeout: cfg.WS.HandshakeTimeout}, store, clock.Real(), log)
	manager.OnStatus(func(st connection.Status) {
		log.Debugw("connection_status", "badge", st.Badge(), "error", st.Error)
	})
	manager.Start()

	services := service.NewService(service.Deps{
		Repos:     repos,
		Store:     store,
		Estimator: estimator,
		Manager:   manager,
		API: control.NewClient(control.Config{
			BaseURL: cfg.API.URL,
			Auth:    cfg.API.Auth,
			Timeout: cfg.API.Timeout,
		}),
		Notifier: notifier,
		Inventory: inventory.New(inventory.Addresses{
			ServerIP:  cfg.Devices.ServerIP,
			Client1IP: cfg.Devices.Client1IP,
			Client2IP: cfg.Devices.Client2IP,
		}),
		Log: log,
	})
	apiHandler := handlers.NewHandler(services, log)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(log)

	manager.Stop()
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	workers.Wait()
	log.Infow("shutdown_complete", "recorder_dropped", recorder.Dropped())
}

func goWorker(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn()
	}()
}

// logLastPresence reports the judgment left by the previous run.
func logLastPresence(ctx context.Context, rec *service.RecorderService, log *logger.Logger) {
	last, ok, err := rec.LastPresence(ctx)
	switch {
	case err != nil:
		log.Warnw("presence_restore_failed", "err", err)
	case !ok:
		log.Infow("presence_restore_empty")
	default:
		log.Infow("presence_restored",
			"is_present", last.IsPresent,
			"confidence", last.Confidence,
			"reason", last.Reason,
			"updated_at", last.UpdatedAt)
	}
}

// openPublisher returns nil when MQTT is disabled or the broker is unreachable.
func openPublisher(cfg config.MQTTConfig, log *logger.Logger) publisher.Publisher {
	if cfg.Broker == "" {
		return nil
	}
	pub, err := publisher.NewMQTTPublisher(cfg.Broker, cfg.ClientID)
	if err != nil {
		log.Warnw("mqtt_disabled", "broker", cfg.Broker, "err", err)
		return nil
	}
	log.Infow("mqtt_connected", "broker", cfg.Broker)
	return pub
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT or SIGTERM.
func waitForShutdown(log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("shutting down", "signal", sig.String())
}
