package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pricelist/internal/repository"
)

// identityHeader carries the acting username, set by the browser client on
// every authenticated request.
const identityHeader = "username"

const ctxUsername = "username"

// requireUser admits any request that carries the identity header. The
// account is deliberately not looked up; legacy clients rely on that.
func (s *Server) requireUser(c *gin.Context) {
	username := c.GetHeader(identityHeader)
	if username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.Set(ctxUsername, username)
	c.Next()
}

// requireAdmin resolves the account behind the identity header and admits
// only admins.
func (s *Server) requireAdmin(c *gin.Context) {
	username := c.GetHeader(identityHeader)
	if username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	a, err := s.accounts.GetByUsername(c, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}
	if !a.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}
	c.Set(ctxUsername, username)
	c.Next()
}

func actingUser(c *gin.Context) string {
	return c.GetString(ctxUsername)
}
