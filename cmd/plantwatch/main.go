package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"plantwatch/internal/handlers"
	"plantwatch/internal/middleware"
	"plantwatch/internal/monitor"
	"plantwatch/internal/sysinfo"
	"plantwatch/internal/utils"
	"plantwatch/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type App struct {
	ctrl        *monitor.Controller
	sampler     *sysinfo.Sampler
	wsHub       *middleware.Hub
	rateLimiter *middleware.RateLimiter
	logger      *utils.Logger
}

var app *App

const (
	envPort    = "PLANTWATCH_PORT"
	envLogFile = "PLANTWATCH_LOG_FILE"

	defaultPort = 8080
)

func envPortOrDefault() int {
	val := os.Getenv(envPort)
	if val == "" {
		return defaultPort
	}
	port, err := strconv.Atoi(val)
	if err != nil || port < 1 || port > 65535 {
		log.Printf("ignoring invalid %s=%q", envPort, val)
		return defaultPort
	}
	return port
}

func main() {
	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := utils.NewLogger(os.Getenv(envLogFile))

	// Initialize application
	app = &App{
		ctrl:        monitor.NewController(logger),
		sampler:     sysinfo.NewSampler(),
		wsHub:       middleware.NewHub(logger),
		rateLimiter: middleware.NewRateLimiter(rate.Every(time.Minute/300), 20),
		logger:      logger,
	}

	// Start WebSocket hub and host sampler, then wire them into the controller
	go app.wsHub.Run()
	app.sampler.Start()
	app.ctrl.SetHostSource(app.sampler.Snapshot)
	app.ctrl.SetBroadcast(func(snap monitor.Snapshot) {
		payload, err := json.Marshal(gin.H{"type": "snapshot", "data": snap})
		if err != nil {
			logger.Write(fmt.Sprintf("snapshot marshal error: %v", err))
			return
		}
		app.wsHub.Broadcast(payload)
	})

	r := setupRouter()

	port := envPortOrDefault()
	srv := &http.Server{
		Addr:           ":" + strconv.Itoa(port),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting plantwatch %s on port %d", version.String(), port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	app.ctrl.Stop()
	app.sampler.Stop()
	app.rateLimiter.Stop()

	// Give server 5 seconds to finish handling requests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	app.logger.Close()
	log.Println("Server exited")
}

func setupRouter() *gin.Engine {
	r := gin.New()

	// Add recovery middleware
	r.Use(gin.Recovery())

	// Add custom logging middleware
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))

	// Security middleware
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(app.rateLimiter.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.String()})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize handlers
	monitorHandlers := handlers.NewMonitorHandlers(app.ctrl)

	api := r.Group("/api")
	{
		api.GET("/state", monitorHandlers.APIState)
		api.GET("/logs", monitorHandlers.APILogs)
		api.POST("/models/init", monitorHandlers.APIInitModels)
		api.POST("/monitor/start", monitorHandlers.APIStart)
		api.POST("/monitor/stop", monitorHandlers.APIStop)
		api.POST("/monitor/reset", monitorHandlers.APIReset)
		api.PUT("/monitor/speed",
			middleware.ValidateJSON(func() interface{} { return &handlers.SpeedRequest{} }),
			monitorHandlers.APISpeed)
	}

	// WebSocket endpoint
	r.GET("/ws", app.wsHub.HandleWebSocket())

	return r
}
