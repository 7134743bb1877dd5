package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dpavlenko/curex/internal/common"
	"github.com/dpavlenko/curex/internal/server/auth"
	"github.com/dpavlenko/curex/internal/server/models"
)

// accountKey is the gin context key the authenticated account is stored
// under by requireAuth.
const accountKey = "account"

const bearerPrefix = "Bearer "

// requireAuth gates protected route groups. It extracts the bearer token
// from the Authorization header, verifies it, resolves the subject to a
// stored account, and attaches the account to the request context. Every
// rejection is a 401 envelope naming the cause.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "authorization header missing")
			return
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			unauthorized(c, "invalid token")
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token == "" {
			unauthorized(c, "invalid token")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				unauthorized(c, "session expired")
				return
			}
			unauthorized(c, "invalid token")
			return
		}

		account, err := s.accounts.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				unauthorized(c, "account not found")
				return
			}
			s.logger.Error(c.Request.Context(), "account lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Status: StatusServerError, Message: "internal error"})
			return
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

// currentAccount returns the account attached by requireAuth, or nil when
// the route is unprotected.
func currentAccount(c *gin.Context) *models.Account {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*models.Account)
	return account
}

// requestLogger logs one line per request with method, path, status and
// latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
