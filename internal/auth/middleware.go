package auth

import (
	"fmt"
	"strings"

	"socialfeed/backend/internal/apierror"
	"socialfeed/backend/internal/config"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// AuthMiddleware requires a valid `Authorization: Bearer <token>` header and
// attaches the token's subject id and username to the request context. It is
// the sole authorization gate; every protected route sits behind it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apierror.New(apierror.CodeUnauthorized, "Authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, apierror.New(apierror.CodeUnauthorized, "Authorization header must be 'Bearer <token>'"))
			return
		}

		token, err := gojwt.Parse(parts[1], func(token *gojwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abort(c, apierror.New(apierror.CodeInvalidToken, "Invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(gojwt.MapClaims)
		if !ok {
			abort(c, apierror.New(apierror.CodeInvalidToken, "Invalid or expired token"))
			return
		}

		userIDFloat, ok := claims["sub"].(float64)
		if !ok {
			abort(c, apierror.New(apierror.CodeInvalidToken, "Invalid or expired token"))
			return
		}
		username, _ := claims["username"].(string)

		c.Set(ContextUserID, uint(userIDFloat))
		c.Set(ContextUsername, username)
		c.Next()
	}
}

func abort(c *gin.Context, err *apierror.Error) {
	c.AbortWithStatusJSON(err.Status(), gin.H{"error": err})
}
