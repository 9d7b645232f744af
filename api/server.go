package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

// Server exposes liveness, the live run summary and Prometheus metrics
// while an extraction run is in flight.
type Server struct {
	addr string
	srv  *http.Server
}

func NewServer(addr string, snapshot func() model.RunSummary) *Server {
	r := gin.Default()

	// Enable CORS for all origins so dashboards can poll /status directly
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "meta-comments-pipeline",
		})
	})

	r.GET("/status", func(c *gin.Context) {
		c.JSON(200, snapshot())
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: r,
		},
	}
}

// Start blocks until Shutdown; run it on its own goroutine.
func (s *Server) Start() {
	log.Printf("Status server listening on %s", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Status server stopped: %v", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) {
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Printf("Status server shutdown: %v", err)
	}
}
