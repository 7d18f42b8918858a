package middleware

import (
	"net/http"
	"time"

	C "thordash/config"
	U "thordash/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
)

// scope constants.
const SCOPE_REQ_ID = "requestId"

const HeaderRequestID = "X-Request-ID"

// RequestIdGenerator keeps an incoming request id or assigns a new one.
func RequestIdGenerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = xid.New().String()
		}
		U.SetScope(c, SCOPE_REQ_ID, requestID)
		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		logCtx := log.WithFields(log.Fields{
			"req_id":        U.GetScopeByKeyAsString(c, SCOPE_REQ_ID),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        c.Writer.Status(),
			"time_taken_ms": time.Since(startTime).Milliseconds(),
			"client_ip":     c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			logCtx.WithField("errors", c.Errors.String()).Error("Request failed.")
			return
		}
		logCtx.Info("Request served.")
	}
}

// Recovery responds with 500 and logs the panic instead of dropping the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"req_id": U.GetScopeByKeyAsString(c, SCOPE_REQ_ID),
					"path":   c.Request.URL.Path,
					"panic":  r,
				}).Error("Recovered from panic.")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
			}
		}()
		c.Next()
	}
}

// CustomCors allows the local dashboard frontends in development.
func CustomCors() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if C.IsDevelopment() {
		corsConfig.AllowOrigins = []string{"http://localhost:8080", "http://localhost:3000", "http://localhost:8501"}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.ExposeHeaders = append(corsConfig.ExposeHeaders, HeaderRequestID)
	return cors.New(corsConfig)
}
