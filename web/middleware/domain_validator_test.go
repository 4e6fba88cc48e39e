package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestDomainValidatorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(DomainValidatorMiddleware("panel.example.com"))
	engine.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		host string
		want int
	}{
		{"panel.example.com", http.StatusOK},
		{"panel.example.com:8080", http.StatusOK},
		{"evil.example.com", http.StatusForbidden},
		{"evil.example.com:8080", http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = tt.host
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, "host %s", tt.host)
	}
}
