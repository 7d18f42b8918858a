package handler

import (
	"context"

	D "thordash/dashboard"

	"github.com/gin-gonic/gin"
)

// ViewRenderer renders a view, turning data failures into an error panel.
type ViewRenderer interface {
	Render(ctx context.Context, selector string) (*D.View, error)
}

func InitRoutes(r *gin.Engine, renderer ViewRenderer) {
	r.GET("/status", StatusHandler)
	r.GET("/views", GetViewsHandler)
	r.GET("/views/:view", GetViewHandler(renderer))
	r.GET("/views/:view/charts/:index", GetChartURLHandler(renderer))
	r.GET("/views/:view/export", ExportViewHandler(renderer))
}
