package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	jwtsvc "studiobook/internal/pkg/jwt"
)

func protectedRouter(j *jwtsvc.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(j))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)
	token, err := j.GenerateToken(42, "customer")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter(j).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "customer")
}

func TestAuth_MissingHeader(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	protectedRouter(j).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	protectedRouter(j).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSigningSecret(t *testing.T) {
	issuer := jwtsvc.New("secret-a", time.Hour)
	verifier := jwtsvc.New("secret-b", time.Hour)
	token, _ := issuer.GenerateToken(42, "customer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter(verifier).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/owners", func(c *gin.Context) {
		c.Set("role", "customer")
	}, RequireRole("studio_owner"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/owners", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
