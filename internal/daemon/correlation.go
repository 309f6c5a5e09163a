package daemon

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	correlationHeader = "X-Correlation-ID"
	correlationIDKey  = "correlation_id"
)

// CorrelationMiddleware tags every request with an id, reusing the caller's
// X-Correlation-ID when present, and echoes it on the response.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationHeader)
		if len(id) == 0 {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(correlationHeader, id)
		c.Next()
	}
}

func GetCorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}

// requestLog is a logrus entry carrying the correlation id and caller.
func requestLog(c *gin.Context) *logrus.Entry {
	entry := logrus.WithField("correlation_id", GetCorrelationID(c))
	if identity := getIdentity(c); identity != nil {
		entry = entry.WithField("operator", identity.Email)
	}
	return entry
}
