package gin

import (
	"strconv"
	"time"

	"github.com/RigelNana/edubridge/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware records request count and latency per route.
func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			// unmatched paths share one label to keep cardinality bounded
			route = "unmatched"
		}
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method + " " + route

		metrics.RecordRequest(serviceName, method, statusCode, time.Since(start))
	}
}
