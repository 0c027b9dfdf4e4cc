package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

// ConsoleClaims are the claims of a console operator's token. The subject
// becomes the changedBy value of every mutation the operator makes.
type ConsoleClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

var errMissingSubject = errors.New("token has no subject")

// GenerateToken signs an HS256 token for subject that expires after ttl.
func GenerateToken(secret, subject, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ConsoleClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			logger.Warn("No Authorization token provided", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := parseToken(parser, secret, header)
		if err != nil {
			logger.Warn("Rejected token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(util.ContextUserIDKey, claims.Subject)
		c.Set("requestingUser", claims.Name)
		logger.Debug("Authenticated request", zap.String("sub", claims.Subject))

		c.Next()
	}
}

func parseToken(parser *jwt.Parser, secret, header string) (*ConsoleClaims, error) {
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	var claims ConsoleClaims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}
	return &claims, nil
}
