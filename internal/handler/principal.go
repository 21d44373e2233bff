package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal_email"

// RequirePrincipal pulls the authenticated principal's email out of the
// request. Token verification happens upstream (the auth layer is outside
// this service); by the time a request lands here the gateway has already
// resolved the subject into X-User-Email.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader("X-User-Email"))
		if email == "" {
			Error(c, http.StatusUnauthorized, "auth.missing.principal", nil)
			c.Abort()
			return
		}
		c.Set(principalKey, strings.ToLower(email))
		c.Next()
	}
}

func principalEmail(c *gin.Context) string {
	return c.GetString(principalKey)
}
