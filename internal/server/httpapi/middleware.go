package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// requireUser authenticates the bearer access token.
func (s *Server) requireUser(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		s.abortWithError(c, common.ErrorUnauthorized)
		return
	}

	userID, err := s.deps.Users.UserIDFromAccessToken(strings.TrimSpace(token))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}
