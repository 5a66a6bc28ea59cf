package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-mcp/component"
)

// Capacity reports free pipeline slots and queued runs.
type Capacity func() (available, waiting int)

// Readiness answers 503 while a lifecycle component is unhealthy or every
// pipeline slot is taken, so a load balancer can send work elsewhere.
func Readiness(serviceName string, checker HealthChecker, capacity Capacity) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ready"
		httpStatus := http.StatusOK
		body := gin.H{"service": serviceName}

		if checker != nil {
			components := checker(c.Request.Context())
			body["components"] = components
			if component.Overall(components) == component.StatusUnhealthy {
				status = "not_ready"
				httpStatus = http.StatusServiceUnavailable
			}
		}
		if capacity != nil {
			available, waiting := capacity()
			body["capacity"] = gin.H{"available": available, "waiting": waiting}
			if available == 0 && httpStatus == http.StatusOK {
				status = "busy"
				httpStatus = http.StatusServiceUnavailable
			}
		}

		body["status"] = status
		body["timestamp"] = time.Now().UTC().Format(time.RFC3339)
		c.JSON(httpStatus, body)
	}
}
