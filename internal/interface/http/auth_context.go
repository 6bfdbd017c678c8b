package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/bikeshare/internal/domain/auth"
	"github.com/yanqian/bikeshare/internal/domain/maintenance"
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

func actorOf(c *gin.Context) maintenance.Actor {
	claims, _ := getClaims(c)
	return maintenance.Actor{UserID: claims.UserID, Admin: claims.IsAdmin()}
}
