package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	D "thordash/dashboard"
	"thordash/export"
	"thordash/metrics"
	mid "thordash/middleware"
	M "thordash/model"
	"thordash/quickchart"
	U "thordash/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func GetViewsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, D.Views())
}

// statusForPanel maps a failed view to its response code.
func statusForPanel(panel *D.ErrorPanel) int {
	if panel.Kind == M.KindResourceNotFound {
		return http.StatusNotFound
	}
	return http.StatusUnprocessableEntity
}

func viewSlugs() []string {
	slugs := make([]string, 0, len(D.Views()))
	for _, info := range D.Views() {
		slugs = append(slugs, info.Slug)
	}
	return slugs
}

// renderView writes the error response itself and returns nil when the view cannot be served.
func renderView(c *gin.Context, renderer ViewRenderer) *D.View {
	selector := c.Params.ByName("view")
	logCtx := log.WithFields(log.Fields{
		"view":   selector,
		"req_id": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	view, err := renderer.Render(c.Request.Context(), selector)
	if errors.Is(err, D.ErrUnknownView) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error(), "views": viewSlugs()})
		return nil
	}
	if err != nil {
		logCtx.WithError(err).Error("Failed to render view.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to render view."})
		return nil
	}

	if view.Error != nil {
		c.AbortWithStatusJSON(statusForPanel(view.Error), view)
		return nil
	}
	return view
}

func GetViewHandler(renderer ViewRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := renderView(c, renderer)
		if view == nil {
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func GetChartURLHandler(renderer ViewRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Params.ByName("index"))
		if err != nil || index < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid chart index."})
			return
		}

		view := renderView(c, renderer)
		if view == nil {
			return
		}

		config, err := view.ChartConfig(index)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		url, err := quickchart.GetChartImageUrlForConfig(config)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		metrics.Increment(metrics.IncrChartURLServed)
		c.JSON(http.StatusOK, gin.H{"url": url, "index": index, "view": view.Slug})
	}
}

func ExportViewHandler(renderer ViewRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := renderView(c, renderer)
		if view == nil {
			return
		}

		var buffer bytes.Buffer
		if err := export.WriteView(view, &buffer); err != nil {
			log.WithError(err).WithField("view", view.Slug).Error("Failed to export view.")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to export view."})
			return
		}
		metrics.Increment(metrics.IncrViewExported)

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", view.Slug))
		c.Data(http.StatusOK, export.ContentTypeXLSX, buffer.Bytes())
	}
}
