package handlers

import (
	"myhouse/internal/logger"
	"myhouse/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: logger.OrNop(log)}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Live dashboard stream for browsers
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerDashboardRoutes(api)
		h.registerControlRoutes(api)
		h.registerHistoryRoutes(api)
		h.registerInventoryRoutes(api)
	}
}

func (h *Handler) registerDashboardRoutes(api *gin.RouterGroup) {
	api.GET("/state", h.getState)
	api.GET("/presence", h.getPresence)
	api.GET("/connection", h.getConnection)
	api.GET("/notifications", h.getNotifications)
}

func (h *Handler) registerControlRoutes(api *gin.RouterGroup) {
	api.POST("/toggle/:device", h.toggleDevice)
	// Body example: {"temp":"21.5"}
	api.POST("/temp", h.setTemperature)
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	history := api.Group("/history")
	{
		history.GET("", h.getHistory)
		history.GET("/remote", h.getRemoteHistory)
	}
}

func (h *Handler) registerInventoryRoutes(api *gin.RouterGroup) {
	api.GET("/devices", h.getDevices)
	api.GET("/workflows", h.getWorkflows)
}
