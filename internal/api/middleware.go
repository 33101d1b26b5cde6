package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gymdesk/routine-admin/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextSessionKey holds the caller's domain.Session once authenticated.
const ContextSessionKey = "session"

// jwtClaims defines the structure we expect in the JWT payload.
// Mirroring the structure used in authService.generateJWT
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

var (
	errMissingAuthHeader = errors.New("Authorization header is missing")
	errBadAuthHeader     = errors.New("Authorization header format must be Bearer {token}")
)

// parseSession turns an Authorization header into a Session.
func parseSession(jwtSecret, authHeader string) (domain.Session, error) {
	if authHeader == "" {
		return domain.Session{}, errMissingAuthHeader
	}
	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return domain.Session{}, errBadAuthHeader
	}

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Session{}, errors.New("Token has expired")
		}
		return domain.Session{}, fmt.Errorf("Invalid token: %w", err)
	}
	if !token.Valid || !claims.Role.Valid() {
		return domain.Session{}, errors.New("Invalid token or missing claims")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return domain.Session{}, errors.New("Invalid token or missing claims")
	}
	return domain.Session{UserID: userID, Role: claims.Role}, nil
}

// SessionSource confirms the account behind a token's claims. Implemented by
// service.AuthService.
type SessionSource interface {
	CurrentSession(ctx context.Context, claimed domain.Session) (domain.Session, error)
}

// authenticate parses the header and replaces the claimed role with the
// stored one. It aborts the request and returns false on failure.
func authenticate(c *gin.Context, jwtSecret string, sessions SessionSource, header string) bool {
	claimed, err := parseSession(jwtSecret, header)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return false
	}
	sess, err := sessions.CurrentSession(c.Request.Context(), claimed)
	if err != nil {
		abortWithServiceError(c, err, "authenticate")
		return false
	}
	c.Set(ContextSessionKey, sess)
	return true
}

// AuthMiddleware creates a Gin middleware for JWT authentication. The
// resulting Session is stored in the context for handlers to pass on.
func AuthMiddleware(jwtSecret string, sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, jwtSecret, sessions, c.GetHeader("Authorization")) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware sets the Session when a valid token is sent and
// lets anonymous requests through. A token that is present but invalid is
// still rejected.
func OptionalAuthMiddleware(jwtSecret string, sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" && !authenticate(c, jwtSecret, sessions, header) {
			return
		}
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFromContext(c)
		if !ok {
			// This should not happen if AuthMiddleware ran correctly
			abortWithError(c, http.StatusInternalServerError, "User session not found in context")
			return
		}

		for _, allowedRole := range allowedRoles {
			if sess.Role == allowedRole {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", sess.Role))
	}
}

func sessionFromContext(c *gin.Context) (domain.Session, bool) {
	raw, exists := c.Get(ContextSessionKey)
	if !exists {
		return domain.Session{}, false
	}
	sess, ok := raw.(domain.Session)
	return sess, ok
}

// mustSession fetches the session or aborts with 500. Handlers behind
// AuthMiddleware always have one.
func mustSession(c *gin.Context) (domain.Session, bool) {
	sess, ok := sessionFromContext(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "User session not found in context")
	}
	return sess, ok
}

// parseIDParam reads an ObjectID path parameter or aborts with 400.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseOptionalID parses an optional hex id from a request body or query.
func parseOptionalID(raw string) (*primitive.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
