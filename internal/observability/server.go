package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Listener serves /metrics and /health next to an interactive session.
type Listener struct {
	srv     *http.Server
	ln      net.Listener
	started time.Time
}

func NewRouter(started time.Time) *gin.Engine {
	RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log.Logger))
	r.Use(RequestMetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(started).String(),
			"service": "linectl",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Listen binds addr and serves in the background until Close.
func Listen(addr string) (*Listener, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("observability: listen addr required")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	l := &Listener{
		srv: &http.Server{
			Handler:           NewRouter(started),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:      ln,
		started: started,
	}
	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Str("addr", ln.Addr().String()).Msg("metrics listener stopped")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("metrics listener started")
	return l, nil
}

func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

func (l *Listener) Close(ctx context.Context) error {
	return l.srv.Shutdown(ctx)
}
