// Package api exposes a small HTTP introspection surface over the bar:
// block health, per-segment widget state and a click injection endpoint
// for renderer frontends.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sliink/barline/internal/core"
	"github.com/sliink/barline/internal/model"
	"github.com/sliink/barline/internal/render"
)

// API represents the REST API for a running bar
type API struct {
	engine   *core.Engine
	renderer *render.Renderer
	router   *gin.Engine
	server   *http.Server
	port     int
	host     string
}

// NewAPI creates a new API instance over a running engine and renderer
func NewAPI(engine *core.Engine, renderer *render.Renderer, port int, host string) *API {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := &API{
		engine:   engine,
		renderer: renderer,
		router:   router,
		port:     port,
		host:     host,
	}
	api.setupRoutes()
	return api
}

// setupRoutes configures all the API routes
func (a *API) setupRoutes() {
	a.router.GET("/health", a.healthCheck)

	blocks := a.router.Group("/blocks")
	{
		blocks.GET("", a.getBlocks)
		blocks.GET("/:id", a.getBlockByID)
		blocks.POST("/:id/click", a.clickBlock)
	}
}

// Start starts the API server
func (a *API) Start() error {
	a.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", a.host, a.port),
		Handler: a.router,
	}
	return a.server.ListenAndServe()
}

// Stop stops the API server
func (a *API) Stop(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// healthCheck handles GET /health, reporting spawned and still-running
// block counts straight from the engine. A block the renderer has not
// attached yet still counts here.
func (a *API) healthCheck(c *gin.Context) {
	handles := a.engine.Handles()
	running := 0
	for _, handle := range handles {
		select {
		case <-handle.Done():
		default:
			running++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"blocks":    len(handles),
		"running":   running,
		"timestamp": time.Now(),
	})
}

// getBlocks handles GET /blocks
func (a *API) getBlocks(c *gin.Context) {
	c.JSON(http.StatusOK, a.renderer.Snapshot())
}

// getBlockByID handles GET /blocks/:id
func (a *API) getBlockByID(c *gin.Context) {
	segment, ok := a.renderer.Segment(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown block id"})
		return
	}
	c.JSON(http.StatusOK, segment)
}

// clickBlock handles POST /blocks/:id/click, injecting a click the way a
// bar frontend would
func (a *API) clickBlock(c *gin.Context) {
	var body struct {
		Button string `json:"button" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	button, err := model.ParseMouseButton(body.Button)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()
	if err := a.renderer.Click(ctx, c.Param("id"), button); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "delivered"})
}
