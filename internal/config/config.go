// Package config loads dashboard settings from configs/config.yml, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "MYHOUSE"

	// legacy variable names understood by the browser client
	envLegacyWSURL  = "NEXT_PUBLIC_WS_URL"
	envLegacyAPIURL = "NEXT_PUBLIC_API_URL"
)

type Config struct {
	Port     string
	LogLevel string
	WS       WSConfig
	API      APIConfig
	DBPath   string
	MQTT     MQTTConfig
	Devices  DeviceConfig
}

type WSConfig struct {
	URL              string
	HandshakeTimeout time.Duration
	BaseDelay        time.Duration
	MaxDelay         time.Duration
}

type APIConfig struct {
	URL     string
	Auth    string
	Timeout time.Duration
}

type MQTTConfig struct {
	Broker   string // empty disables publishing
	ClientID string
}

type DeviceConfig struct {
	ServerIP  string
	Client1IP string
	Client2IP string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")

	v.SetDefault("ws.url", "ws://192.168.4.2:3000/ws")
	v.SetDefault("ws.handshake_timeout", 10*time.Second)
	v.SetDefault("ws.base_delay", time.Second)
	v.SetDefault("ws.max_delay", 30*time.Second)

	v.SetDefault("api.url", "http://192.168.4.2:3000")
	v.SetDefault("api.auth", "root:root")
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("db.path", "myhouse.db")

	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "myhouse-dashboard")

	v.SetDefault("devices.server_ip", "192.168.4.1")
	v.SetDefault("devices.client1_ip", "192.168.4.3")
	v.SetDefault("devices.client2_ip", "192.168.4.4")
}

// Flags registers the command-line flags on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (default: configs/config.yml if present)")
	fs.String("port", "", "HTTP listen port")
	fs.String("log-level", "", "log level: debug, info, warn, error")
}

// Load resolves the configuration. fs may be nil; it must already be parsed.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ws.url", envPrefix+"_WS_URL", envLegacyWSURL); err != nil {
		return Config{}, err
	}
	if err := v.BindEnv("api.url", envPrefix+"_API_URL", envLegacyAPIURL); err != nil {
		return Config{}, err
	}

	var explicit string
	if fs != nil {
		explicit, _ = fs.GetString("config")
		if f := fs.Lookup("port"); f != nil {
			if err := v.BindPFlag("port", f); err != nil {
				return Config{}, err
			}
		}
		if f := fs.Lookup("log-level"); f != nil {
			if err := v.BindPFlag("log.level", f); err != nil {
				return Config{}, err
			}
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		WS: WSConfig{
			URL:              v.GetString("ws.url"),
			HandshakeTimeout: v.GetDuration("ws.handshake_timeout"),
			BaseDelay:        v.GetDuration("ws.base_delay"),
			MaxDelay:         v.GetDuration("ws.max_delay"),
		},
		API: APIConfig{
			URL:     v.GetString("api.url"),
			Auth:    v.GetString("api.auth"),
			Timeout: v.GetDuration("api.timeout"),
		},
		DBPath: v.GetString("db.path"),
		MQTT: MQTTConfig{
			Broker:   v.GetString("mqtt.broker"),
			ClientID: v.GetString("mqtt.client_id"),
		},
		Devices: DeviceConfig{
			ServerIP:  v.GetString("devices.server_ip"),
			Client1IP: v.GetString("devices.client1_ip"),
			Client2IP: v.GetString("devices.client2_ip"),
		},
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.WS.BaseDelay <= 0 || c.WS.MaxDelay < c.WS.BaseDelay {
		return fmt.Errorf("invalid reconnect delays: base=%v max=%v", c.WS.BaseDelay, c.WS.MaxDelay)
	}
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port must not be empty")
	}
	return nil
}
