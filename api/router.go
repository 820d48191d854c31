package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/zap"
)

const SimulatePath = "/simulate"

// NewRouter builds the HTTP routes. Every origin may call them.
func NewRouter(jm *core.JobManager, sc *core.SystemComponents) (*gin.Engine, error) {
	h, err := newSimulateHandler(jm, sc)
	if err != nil {
		return nil, err
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(accessLog(), gin.CustomRecovery(recoverToInternalError), cors.New(corsConfig()))
	r.POST(SimulatePath, h.simulate)
	return r, nil
}

func corsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.L().Info(fmt.Sprintf("[API]%s %s/status:%d/latency:%s/client:%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.ClientIP()))
	}
}

func recoverToInternalError(c *gin.Context, recovered any) {
	zap.L().Error(fmt.Sprintf("[API]recovered from panic/path:%s/reason:%v", c.Request.URL.Path, recovered))
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	c.Abort()
}
