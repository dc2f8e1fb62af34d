package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/nkaramanos/lettergen/internal/config"
	"github.com/nkaramanos/lettergen/internal/dataset"
	"github.com/nkaramanos/lettergen/internal/render"
	"github.com/nkaramanos/lettergen/pkg/utils"
)

func main() {
	gotenv.Load()

	configPath := flag.String("config", "config.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting letter generation service",
		zap.Int("port", cfg.Server.Port))

	// Templates and field configuration are server-side; uploads only
	// carry the workbook.
	templates, err := render.LoadTemplates(cfg.Templates.Dir, cfg.Templates.Files, cfg.Templates.Default, logger)
	if err != nil {
		logger.Fatal("Failed to load templates", zap.Error(err))
	}

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "letterd",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	router.POST("/render", renderHandler(cfg, templates, logger))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

// renderHandler accepts a workbook upload and responds with the letter
// archive. Counts travel in X-Render-* headers; when rows failed, a
// failures.txt entry is appended to the archive so the report travels
// with the download.
func renderHandler(cfg *config.Config, templates render.TemplateSet, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := uuid.NewString()
		jobLogger := logger.With(zap.String("job_id", jobID))

		file, header, err := c.Request.FormFile("workbook")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing workbook file", "job_id": jobID})
			return
		}
		defer file.Close()

		sheet := c.PostForm("sheet")
		if sheet == "" {
			sheet = cfg.Dataset.Sheet
		}
		limit := cfg.Render.Limit
		if v := c.PostForm("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer", "job_id": jobID})
				return
			}
			limit = n
		}

		loader := dataset.NewLoader(cfg.Dataset.HeaderRow, jobLogger)
		table, err := loader.Load(file, sheet)
		if err != nil {
			jobLogger.Warn("Workbook rejected",
				zap.String("filename", header.Filename),
				zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "job_id": jobID})
			return
		}

		renderer := render.NewRenderer(render.Config{
			Identifier: cfg.Identifier.Spec(),
			Fields:     cfg.FieldSpecs(),
			Rules:      cfg.Rules(),
		}, templates, jobLogger)

		archive, failures, stats, err := renderer.RenderAll(table, render.Options{Limit: limit})
		if err != nil {
			// Global precondition failure: zero output, one error.
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "job_id": jobID})
			return
		}

		if len(failures) > 0 {
			archive.Add("failures.txt", failureReport(failures))
		}

		var buf bytes.Buffer
		if err := archive.WriteZip(&buf); err != nil {
			jobLogger.Error("Failed to build archive", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build archive", "job_id": jobID})
			return
		}

		c.Header("X-Job-ID", jobID)
		c.Header("X-Render-Succeeded", strconv.Itoa(stats.Succeeded))
		c.Header("X-Render-Skipped", strconv.Itoa(stats.Skipped))
		c.Header("X-Render-Failed", strconv.Itoa(stats.Failed))
		c.Header("Content-Disposition", `attachment; filename="letters.zip"`)
		c.Data(http.StatusOK, "application/zip", buf.Bytes())
	}
}

func failureReport(failures []render.Failure) []byte {
	var buf bytes.Buffer
	for _, f := range failures {
		fmt.Fprintf(&buf, "row %d (%s): %s\n", f.Row, f.Identifier, f.Reason)
	}
	return buf.Bytes()
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()))
	}
}
