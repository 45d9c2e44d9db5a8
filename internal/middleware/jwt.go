package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ruta_cafe/internal/models"
	"ruta_cafe/internal/moderation"
)

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

// GenerateToken issues an HS256 token carrying the numeric role code.
func GenerateToken(userID uint, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    int(role),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

func storeClaims(c *gin.Context, claims jwt.MapClaims) {
	c.Set("user_id", claims["user_id"])
	c.Set("role", claims["role"])
}

// RequireAuth ensures a valid JWT is present
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		storeClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth stores claims when a valid token is present and lets the
// request through as a Visitor otherwise. Public listings use it so the
// visibility filter can tell technicians and admins apart from visitors.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := parseToken(tokenString); err == nil {
				storeClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole ensures the JWT is valid and the user has one of the given roles
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := RequireAuth()
		req(c)
		if c.IsAborted() {
			return
		}

		actor := ActorFromContext(c)
		for _, role := range allowed {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// ActorFromContext rebuilds the moderation actor from stored claims.
// Requests that never passed an auth middleware, or passed OptionalAuth
// without a token, come out as Visitor with ID zero.
func ActorFromContext(c *gin.Context) moderation.Actor {
	idVal, okID := c.Get("user_id")
	roleVal, okRole := c.Get("role")
	if !okID || !okRole {
		return moderation.Actor{Role: models.RoleVisitor}
	}

	// JWT numeric claims decode as float64.
	id, okID := idVal.(float64)
	role, okRole := roleVal.(float64)
	if !okID || !okRole {
		return moderation.Actor{Role: models.RoleVisitor}
	}
	return moderation.Actor{Role: models.Role(int(role)), ID: uint(id)}
}
