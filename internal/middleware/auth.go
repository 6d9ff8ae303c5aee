package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ActorIDKey    = "actor_id"
	ActorStaffKey = "actor_staff"
)

// Auth validates the bearer token issued by the identity provider and puts
// the acting user's id and staff flag on the gin context. Claims: "sub" is
// the user uuid, "staff" marks staff users.
func Auth(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}
		sub, err := claims.GetSubject()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing subject claim"})
			return
		}
		actorID, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid subject claim"})
			return
		}
		staff, _ := claims["staff"].(bool)

		c.Set(ActorIDKey, actorID)
		c.Set(ActorStaffKey, staff)
		c.Next()
	}
}

// Actor returns the authenticated user's id and staff flag from the context.
func Actor(c *gin.Context) (uuid.UUID, bool) {
	id, _ := c.Get(ActorIDKey)
	staff, _ := c.Get(ActorStaffKey)
	actorID, _ := id.(uuid.UUID)
	isStaff, _ := staff.(bool)
	return actorID, isStaff
}
