package middleware

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/metrics"
)

func outcome(status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "rejected"
	}
	return "ok"
}

// Logger logs each request and records it per route.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		action := c.FullPath()
		if action == "" {
			action = "unmatched"
		}
		metrics.ActionsTotal.WithLabelValues(action, outcome(status)).Inc()
		metrics.ActionDuration.WithLabelValues(action).Observe(latency.Seconds())

		log.Println(c.Request.Method, c.Request.URL.Path, c.ClientIP(), strconv.Itoa(status), latency.String())
	}
}
