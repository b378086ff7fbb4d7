package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-qrcode-api/internal/aws"
	"github.com/imrishuroy/go-qrcode-api/internal/config"
	"github.com/imrishuroy/go-qrcode-api/internal/handlers"
	"github.com/imrishuroy/go-qrcode-api/internal/middleware"
)

const maxBodyBytes = 10 << 20 // 10mb, matches the JSON body parser limit

var startTime = time.Now()

func setupRouter(cfg *config.Config, clients *aws.AWSClients, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	// CORS must run before anything that can short-circuit a response.
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.SecurityHeaders())
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{`/api/qrcode/.*/download`})))
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, "/api/"))

	r.GET("/api/health", func(c *gin.Context) {
		database := "Connected"
		if clients == nil {
			database = "Unavailable"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(startTime).Seconds(),
			"database":    database,
			"environment": cfg.Environment,
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "QR Code Generator API is running!",
			"version": "1.0.0",
			"endpoints": gin.H{
				"health": "/api/health",
				"qrcode": "/api/qrcode",
			},
		})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	hcfg := handlers.HandlerConfig{
		QRCodesTable:   cfg.QRCodesTable,
		EventsQueueURL: cfg.EventsQueueURL,
		BaseURL:        cfg.BaseURL,
		Logger:         logger,
	}
	if clients != nil {
		hcfg.DynamoDBClient = clients.DynamoDB
		hcfg.SQSClient = clients.SQS
	}
	handlers.RegisterQRCodeRoutes(r, hcfg)

	return r
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	// A failed client init is logged, not fatal: the health endpoint keeps
	// serving and store-backed routes answer 500 until config is fixed.
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Error("failed to init aws clients, continuing without persistence", zap.Error(err))
		clients = nil
	}

	r := setupRouter(cfg, clients, logger)

	if cfg.RunLocal {
		runLocal(r, cfg, logger)
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

// runLocal serves plain HTTP for development, shutting down cleanly on
// SIGINT/SIGTERM so in-flight requests finish.
func runLocal(r *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("running local server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
