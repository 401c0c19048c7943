package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"civicfix/backend/internal/api/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() (*gin.Engine, *handler.Handler) {
	gin.SetMode(gin.TestMode)
	h := handler.NewHandler(nil, nil, nil, nil, handler.NewAuth("test-secret"))

	r := gin.New()
	r.POST("/auth/session", h.IssueSession)
	r.GET("/whoami", h.RequireAuth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"principal_id": c.GetString("principal_id"),
			"role":         c.GetString("role"),
		})
	})
	r.GET("/staff-only", h.RequireAuth, h.RequireStaff, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, h
}

func issueToken(t *testing.T, r *gin.Engine, email string) (token, role string) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/session",
		strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["token"], body["role"]
}

// TestIssueSession_Roles verifies staff role assignment from the staff
// email domain.
func TestIssueSession_Roles(t *testing.T) {
	r, _ := newAuthRouter()

	_, role := issueToken(t, r, "alice@example.com")
	assert.Equal(t, handler.RoleCitizen, role)

	_, role = issueToken(t, r, "inspector@civicfix.gov")
	assert.Equal(t, handler.RoleStaff, role)
}

// TestIssueSession_InvalidEmail verifies binding validation.
func TestIssueSession_InvalidEmail(t *testing.T) {
	r, _ := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRequireAuth_TokenRoundtrip verifies claims survive issue and parse.
func TestRequireAuth_TokenRoundtrip(t *testing.T) {
	r, _ := newAuthRouter()
	token, _ := issueToken(t, r, "alice@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body["principal_id"])
	assert.Equal(t, handler.RoleCitizen, body["role"])
}

// TestRequireAuth_MissingOrBadToken verifies 401 on absent and garbage
// tokens.
func TestRequireAuth_MissingOrBadToken(t *testing.T) {
	r, _ := newAuthRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestRequireStaff verifies citizens are refused on staff routes.
func TestRequireStaff(t *testing.T) {
	r, _ := newAuthRouter()

	citizenToken, _ := issueToken(t, r, "alice@example.com")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	req.Header.Set("Authorization", "Bearer "+citizenToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	staffToken, _ := issueToken(t, r, "inspector@civicfix.gov")
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
