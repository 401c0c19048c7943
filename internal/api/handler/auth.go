package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Roles carried in session tokens. In the reference deployment the identity
// collaborator derives the staff marker from an email-domain check; the core
// only reads the resulting role tag.
const (
	RoleCitizen = "citizen"
	RoleStaff   = "staff"
)

const staffEmailDomain = "@civicfix.gov"

// Auth issues and verifies HS256 session tokens.
type Auth struct {
	Secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{Secret: []byte(secret)}
}

func (a *Auth) generateJWT(principalID, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  principalID,
		"role": role,
		"exp":  time.Now().Add(time.Hour * 72).Unix(),
		"iss":  "civicfix-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

func (a *Auth) parseJWT(tokenString string) (principalID, role string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", jwt.ErrTokenMalformed
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	principalID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if principalID == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	return principalID, role, nil
}

type sessionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// IssueSession stands in for the identity collaborator: it hands out a
// session token for the given email, marking principals on the staff domain
// with the staff role.
func (h *Handler) IssueSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid email is required"})
		return
	}

	role := RoleCitizen
	if strings.HasSuffix(strings.ToLower(req.Email), staffEmailDomain) {
		role = RoleStaff
	}

	token, err := h.Auth.generateJWT(strings.ToLower(req.Email), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": role})
}

// bearerToken pulls the token out of the Authorization header, falling back
// to the token query parameter for websocket clients.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}

// RequireAuth populates principal_id and role in the gin context or aborts
// with 401.
func (h *Handler) RequireAuth(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
		return
	}
	principalID, role, err := h.Auth.parseJWT(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	c.Set("principal_id", principalID)
	c.Set("role", role)
	c.Next()
}

// RequireStaff aborts with 403 unless the authenticated principal carries
// the staff role. Must run after RequireAuth.
func (h *Handler) RequireStaff(c *gin.Context) {
	if c.GetString("role") != RoleStaff {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff role required"})
		return
	}
	c.Next()
}
