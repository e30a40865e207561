package rctest

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const authScheme = "ReportingCloud-APIKey "

type keyMatcher func(key string) bool

func authMiddleware(username, password string, matchKey keyMatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(v, authScheme) {
			if matchKey(strings.TrimSpace(strings.TrimPrefix(v, authScheme))) {
				c.Next()
				return
			}
		}
		if user, pass, ok := c.Request.BasicAuth(); ok && username != "" {
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			if userOK && passOK {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
	}
}
