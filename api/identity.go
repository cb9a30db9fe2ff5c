package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// Claims is the token payload issued by the identity provider.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IdentityMiddleware resolves the bearer token into a domain.Identity. A
// request without a token continues as anonymous; a malformed or invalid
// token is rejected.
func IdentityMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(c, fmt.Errorf("%w: invalid authorization header format", domain.ErrUnauthenticated))
			return
		}

		id, err := ParseIdentity(parts[1], secret)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// ParseIdentity validates an HS256 token and maps its claims. A missing or
// unknown role is treated as a customer.
func ParseIdentity(token, secret string) (domain.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthenticated)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		role = domain.RoleCustomer
	}
	id := domain.Identity{UserID: claims.Subject, Email: claims.Email, Role: role}
	if !id.Authenticated() {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}
	return id, nil
}

// IssueToken signs claims for id. The identity provider owns real tokens;
// this is used by the CLI and tests.
func IssueToken(id domain.Identity, secret string) (string, error) {
	claims := Claims{
		Email:            id.Email,
		Role:             string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.UserID},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identityFrom(c).Authenticated() {
			writeError(c, domain.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		if !id.Authenticated() {
			writeError(c, domain.ErrUnauthenticated)
			return
		}
		if !id.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required", "code": "forbidden"})
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.Identity{}
}
