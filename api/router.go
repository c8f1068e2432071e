package api

import (
	"context"
	"net/http"

	"github.com/beka-birhanu/vinom-roads/api/i"
	"github.com/gin-gonic/gin"
)

// Router manages the HTTP server and its dependencies,
// including controllers and token authorization.
type Router struct {
	baseURL                 string
	controllers             []i.Controller
	authorizationMiddleware gin.HandlerFunc
	server                  *http.Server
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	Addr                    string // Address to listen on
	BaseURL                 string // Base URL for API routes
	Controllers             []i.Controller
	AuthorizationMiddleware gin.HandlerFunc
}

// NewRouter creates a new Router instance with the given configuration.
func NewRouter(config Config) *Router {
	return &Router{
		baseURL:                 config.BaseURL,
		controllers:             config.Controllers,
		authorizationMiddleware: config.AuthorizationMiddleware,
		server:                  &http.Server{Addr: config.Addr},
	}
}

// Handler builds the gin engine with every route registered.
//
// Routes are grouped and managed under the base URL, with the following access levels:
// - Public routes: No authentication required.
// - Protected routes: A live player token is required.
func (r *Router) Handler() http.Handler {
	router := gin.Default()

	// Setting up routes under baseURL
	api := router.Group(r.baseURL)

	{
		// Public routes (accessible without authentication)
		publicRoutes := api.Group("/v1")
		{
			for _, c := range r.controllers {
				c.RegisterPublic(publicRoutes)
			}
		}

		// Protected routes (authentication required)
		protectedRoutes := api.Group("/v1")
		protectedRoutes.Use(r.authorizationMiddleware)
		{
			for _, c := range r.controllers {
				c.RegisterProtected(protectedRoutes)
			}
		}
	}

	return router
}

// Run starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (r *Router) Run() error {
	gin.ForceConsoleColor()
	r.server.Handler = r.Handler()
	return r.server.ListenAndServe()
}

// Shutdown gracefully stops a running server.
func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}
