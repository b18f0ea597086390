package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nivkeren/wellness-coach/internal/domain/auth"
)

const authClaimsKey = "auth_claims"

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(authClaimsKey, claims)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

// requireUserID pulls the authenticated user out of the request context. A
// missing claim means the route was mounted outside the auth group.
func requireUserID(c *gin.Context) (int64, bool) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authentication", nil))
		return 0, false
	}
	return claims.UserID, true
}
