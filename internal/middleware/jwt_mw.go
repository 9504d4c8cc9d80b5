package middleware

import (
	"errors"
	"net/http"
	"strings"

	"employee_manager/internal/model"
	"employee_manager/internal/service"
	"employee_manager/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	AuthUserKey   = "authUser"
	AuthClaimsKey = "authClaims"
)

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// JWTAuthMiddleware resolves the bearer token to an account and stores it in the context
func JWTAuthMiddleware(auth service.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				log.Error("failed to authenticate request", zap.Error(err))
				abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		c.Set(AuthUserKey, user)
		c.Set(AuthClaimsKey, claims)
		c.Next()
	}
}

// CurrentUser returns the account stored by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok && user != nil
}

// CurrentClaims returns the token claims stored by JWTAuthMiddleware
func CurrentClaims(c *gin.Context) (*utils.JWTClaims, bool) {
	val, exists := c.Get(AuthClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*utils.JWTClaims)
	return claims, ok && claims != nil
}
