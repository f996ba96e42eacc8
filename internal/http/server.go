// README: API gateway; registers HTTP routes and delegates to the toll service.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tollfee/internal/http/handlers"
	"tollfee/internal/http/middleware"
	"tollfee/internal/infra"
	"tollfee/internal/metrics"
	"tollfee/internal/modules/toll"
)

type ServerDeps struct {
	Toll     *toll.Service
	Currency string
	Location *time.Location
	Metrics  *metrics.Metrics
	// Verifier enables bearer auth on /api/v1 when non-nil.
	Verifier infra.TokenVerifier
}

type Server struct {
	toll     *handlers.TollHandler
	metrics  *metrics.Metrics
	verifier infra.TokenVerifier
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		toll:     handlers.NewTollHandler(deps.Toll, deps.Currency, deps.Location, deps.Metrics),
		metrics:  deps.Metrics,
		verifier: deps.Verifier,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging(s.metrics))

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api/v1")
	if s.verifier != nil {
		api.Use(middleware.Auth(s.verifier))
	}
	api.POST("/toll/passage", s.toll.Passage)
	api.POST("/toll/passages", s.toll.Passages)
	api.GET("/toll/schedule", s.toll.Schedule)
	return r
}
