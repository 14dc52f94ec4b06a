package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ideation/backend/internal/application/appstate"
	"github.com/ideation/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	ideas := NewDomainGroup("ideas", "/ideas")
	ideas.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(ideas).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/ideas/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	// registered outside the API prefix, so router middleware must not run
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	var order []string
	r := NewRouter(engine).Use(func(c *gin.Context) {
		order = append(order, "router")
		c.Next()
	})
	g := NewDomainGroup("votes", "/votes").Use(func(c *gin.Context) {
		order = append(order, "group")
		c.Next()
	})
	g.GET("/:target", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(g).Setup()

	serve(engine, http.MethodGet, "/api/v1/votes/abc")
	assert.Equal(t, []string{"router", "group"}, order)

	order = nil
	serve(engine, http.MethodGet, "/health")
	assert.Empty(t, order)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("players", "/players")
		assert.Equal(t, "players", g.Name())
		assert.Equal(t, "/players", g.Prefix())
	})

	t.Run("methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("votes", "/votes")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/:target", ok).PUT("/:target", ok).DELETE("/:target", ok).POST("/bulk", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/votes/1"},
			{http.MethodPut, "/api/v1/votes/1"},
			{http.MethodDelete, "/api/v1/votes/1"},
			{http.MethodPost, "/api/v1/votes/bulk"},
		} {
			assert.Equal(t, http.StatusOK, serve(engine, tc.method, tc.path).Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("ideas", "/ideas").Use(func(c *gin.Context) {
			c.Header("X-Group", "ideas")
			c.Next()
		})
		g.Group("comments", "/:id/comments").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id"))
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/ideas/42/comments")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "42", w.Body.String())
		assert.Equal(t, "ideas", w.Header().Get("X-Group"))
	})
}

func testHandlers() Handlers {
	return Handlers{
		Auth:          &handler.AuthHandler{},
		Ideas:         &handler.IdeaHandler{},
		Votes:         &handler.VoteHandler{},
		Players:       &handler.PlayerHandler{},
		Notifications: &handler.NotificationHandler{},
		Ranking:       &handler.RankingHandler{},
		Session:       handler.NewSessionHandler(appstate.NewSessionRegistry(nil), nil),
		Admin:         &handler.AdminHandler{},
		System:        handler.NewSystemHandler(nil, "test"),
	}
}

func TestAPIGroups_RouteTable(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	for _, g := range APIGroups(testHandlers(), Guards{}) {
		r.Register(g)
	}
	r.Setup()

	routes := map[string]bool{}
	for _, info := range engine.Routes() {
		routes[info.Method+" "+info.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/auth/signup",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/session",
		"POST /api/v1/session/navigate",
		"GET /api/v1/ideas",
		"POST /api/v1/ideas/:id/approve",
		"PUT /api/v1/ideas/:id/evaluations",
		"PUT /api/v1/comments/:id",
		"PUT /api/v1/votes/:target",
		"GET /api/v1/ranking/stream",
		"GET /api/v1/players/:id",
		"POST /api/v1/notifications/read-all",
		"POST /api/v1/admin/recap/run",
		"GET /api/v1/system/health",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestAPIGroups_Guards(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	deny := func(status int) gin.HandlerFunc {
		return func(c *gin.Context) { c.AbortWithStatus(status) }
	}
	groups := APIGroups(testHandlers(), Guards{
		Verified:  deny(http.StatusForbidden),
		Admin:     deny(http.StatusTeapot),
		AuthLimit: deny(http.StatusTooManyRequests),
	})
	for _, g := range groups {
		r.Register(g)
	}
	r.Setup()

	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/ideas").Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/ranking/stream").Code)
	assert.Equal(t, http.StatusTeapot, serve(engine, http.MethodPost, "/api/v1/admin/recap/run").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)

	// unverified players can still read their session
	w := serve(engine, http.MethodGet, "/api/v1/session")
	require.NotEqual(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
