package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Server serves HTTP requests for the option pricer service.
type Server struct {
	store    KeyStore
	engine   Engine
	pricers  map[string]Pricer
	names    []string
	limiters *limiters
	router   *gin.Engine
}

// NewServer creates a new HTTP server and set up routing. A nil store disables
// authentication and requests are rate limited per client address instead.
func NewServer(store KeyStore, engine Engine, pricers map[string]Pricer, limit rate.Limit, burst int) *Server {
	server := &Server{
		store:    store,
		engine:   engine,
		pricers:  pricers,
		limiters: newLimiters(limit, burst),
	}
	for name := range pricers {
		server.names = append(server.names, name)
	}
	sort.Strings(server.names)

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.Default()
	router.GET("/health", server.health)

	v1 := router.Group("/v1")
	if server.store != nil {
		v1.Use(server.Authentication)
	}
	v1.Use(server.RateLimit)
	v1.POST("/price", server.price)
	v1.POST("/surface", server.surface)
	v1.POST("/compare", server.compare)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.router.ServeHTTP(w, r)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
