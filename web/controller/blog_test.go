package controller

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlvanCjh/paddock-panel/web/locale"
	"github.com/AlvanCjh/paddock-panel/web/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions("paddock-panel", cookie.NewStore([]byte("test-secret"))))
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", "/")
		c.Set("I18n", func(i18nType locale.I18nType, key string, params ...string) string {
			return key
		})
	})
	engine.SetHTMLTemplate(template.Must(template.New("feed.html").Parse("feed")))
	NewBlogController(engine.Group("/"))
	return engine
}

func TestFeedRendersForAnonymousVisitors(t *testing.T) {
	mockAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":[]}`))
	}))
	defer mockAPI.Close()
	service.InitAPI(mockAPI.URL)
	service.Memory().Flush()

	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMemberActionsRequireLogin(t *testing.T) {
	engine := newTestEngine(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/create"},
		{http.MethodPost, "/create"},
		{http.MethodPost, "/blog/5/update"},
		{http.MethodGet, "/profile/blogs"},
	}

	for _, tt := range paths {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "%s %s", tt.method, tt.path)
	}
}
