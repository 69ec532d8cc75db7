package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/michalwarchol/slash-api/pkg/jwt"
	"github.com/michalwarchol/slash-api/pkg/redis"
	"github.com/michalwarchol/slash-api/pkg/response"
)

// JWTAuth verifies the Bearer access token, rejects revoked tokens and
// injects user_id, role and the raw claims into the request context.
// A nil redis client skips the blacklist check.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, 10002, "authorization header missing")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 10002, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Unauthorized(c, 10002, "token expired")
			} else {
				response.Unauthorized(c, 10002, "invalid token")
			}
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "access token required")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "token revoked")
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Next()
	}
}

// RoleAuth allows only the listed roles. It must run after JWTAuth.
func RoleAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}
		role, _ := v.(string)

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "insufficient permissions")
		c.Abort()
	}
}
