// Package api exposes ingestion and matching over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/filtering"
	"github.com/spigell/labmatch/internal/ingest"
	"github.com/spigell/labmatch/internal/logger"
	"github.com/spigell/labmatch/internal/profile"
	"github.com/spigell/labmatch/internal/recommend"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// MaxUploadSize is the default limit on an ingestion request body. Larger bodies get 413.
	MaxUploadSize = 10 << 20

	shutdownTimeout = 10 * time.Second
)

// Candidates provides the reference lab and the filtered candidate labs for one request.
type Candidates interface {
	Candidates(ctx context.Context, cfg *filtering.Config) (*profile.Organization, []*profile.Organization, error)
}

// Deps aggregates the collaborators used by the handlers.
type Deps struct {
	Candidates Candidates
	Ingestor   *ingest.Ingestor
	Merger     *recommend.Merger
	Filters    *filtering.Config
	Logger     *zap.Logger
	// UploadLimit overrides MaxUploadSize when positive.
	UploadLimit int64
}

type handlers struct {
	deps Deps
}

// NewRouter builds the gin engine with every route attached.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Ingestor == nil {
		deps.Ingestor = ingest.New(deps.Logger)
	}
	if deps.Merger == nil {
		deps.Merger = recommend.New(nil, deps.Logger)
	}

	r := gin.New()
	r.MaxMultipartMemory = MaxUploadSize
	r.Use(gin.Recovery(), requestLogger(deps.Logger))

	Attach(r, deps)
	return r
}

// Attach registers the routes on r.
func Attach(r *gin.Engine, deps Deps) {
	h := handlers{deps: deps}

	r.GET("/healthz", h.health)
	r.POST("/ingest/document", h.ingestDocument)

	collab := r.Group("/collaboration")
	{
		collab.GET("/scores", h.scores)
		collab.POST("/recommendations", h.recommendations)
	}
}

// Serve runs the router on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func requestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		log := logger.WithRequestID(base, id)
		c.Set(loggerKey, log)

		start := time.Now()
		c.Next()

		log.Info("request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func requestLog(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}
