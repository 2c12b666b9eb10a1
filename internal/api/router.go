package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter builds the HTTP engine with the standard middleware chain and
// the API routes registered
func NewRouter(ctl *Controller, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	g := gin.New()
	g.Use(gin.Recovery())
	g.Use(RequestID())
	g.Use(RequestLogger(log))
	ctl.RegisterRoutes(g)
	return g
}
