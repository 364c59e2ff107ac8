package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-service/config"
	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/pkg/database"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

type healthBody struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

func setupRouter(t *testing.T) (*gin.Engine, *database.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App:      config.AppConfig{Name: "blog-service", Version: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"},
		Health:   config.HealthConfig{ProbeTimeout: time.Second},
	}
	mgr, err := database.NewManager(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, mgr.Connect(context.Background()))
	t.Cleanup(func() { _ = mgr.Disconnect() })
	require.NoError(t, mgr.Migrate(model.All()...))

	return NewRouter(Deps{Config: cfg, Store: mgr}), mgr
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// 模拟数据库不可达：绕过 Manager 直接关闭底层连接池
func breakStore(t *testing.T, mgr *database.Manager) {
	t.Helper()
	sqlDB, err := mgr.Client().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestCreatePostThenList(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(t, r, http.MethodPost, "/posts", map[string]string{"title": "A", "content": "B"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[envelope[model.Post]](t, w)
	require.True(t, created.Success)
	require.NotZero(t, created.Data.ID)

	w = do(t, r, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[envelope[[]model.Post]](t, w)
	assert.True(t, list.Success)

	var found bool
	for _, p := range list.Data {
		if p.ID == created.Data.ID {
			found = true
			assert.Equal(t, "A", p.Title)
			assert.Equal(t, "B", p.Content)
			assert.False(t, p.Published)
		}
	}
	assert.True(t, found, "created post missing from list")
}

func TestListPostsEmpty(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(t, r, http.MethodGet, "/posts", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestPostLifecycle(t *testing.T) {
	r, _ := setupRouter(t)

	created := decode[envelope[model.Post]](t, do(t, r, http.MethodPost, "/posts", map[string]interface{}{"title": "A", "content": "B", "published": true}))
	id := created.Data.ID
	path := "/posts/" + itoa(id)

	got := decode[envelope[model.Post]](t, do(t, r, http.MethodGet, path, nil))
	assert.True(t, got.Data.Published)

	w := do(t, r, http.MethodPatch, path, map[string]string{"content": "B2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[envelope[model.Post]](t, w)
	assert.Equal(t, "A", updated.Data.Title)
	assert.Equal(t, "B2", updated.Data.Content)

	w = do(t, r, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = do(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "post "+itoa(id)+" not found", decode[envelope[any]](t, w).Error)
}

func TestPostNotFoundIsUniform500(t *testing.T) {
	r, _ := setupRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/posts/99"},
		{http.MethodPatch, "/posts/99"},
		{http.MethodDelete, "/posts/99"},
		{http.MethodGet, "/blogs/99"},
	} {
		w := do(t, r, tc.method, tc.path, map[string]string{})
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.method+" "+tc.path)
		env := decode[envelope[any]](t, w)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, "99 not found")
	}
}

func TestTypeShapeErrorsAre400(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(t, r, http.MethodGet, "/posts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/posts", map[string]interface{}{"title": 5, "content": "c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode[envelope[any]](t, w).Success)

	w = do(t, r, http.MethodPatch, "/posts/1", map[string]int{"title": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAcceptsEmptyStrings(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(t, r, http.MethodPost, "/posts", map[string]string{"title": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	post := decode[envelope[model.Post]](t, w)
	assert.NotZero(t, post.Data.ID)
	assert.Empty(t, post.Data.Title)
	assert.Empty(t, post.Data.Content)

	w = do(t, r, http.MethodPost, "/blogs", map[string]string{"title": "T", "content": "", "author": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "T", decode[envelope[model.Blog]](t, w).Data.Title)
}

func TestBlogs(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(t, r, http.MethodPost, "/blogs", map[string]interface{}{"title": "T", "content": "C", "author": "ana", "published": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[envelope[model.Blog]](t, w)

	list := decode[envelope[[]model.Blog]](t, do(t, r, http.MethodGet, "/blogs", nil))
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.Data.ID, list.Data[0].ID)
	assert.Equal(t, "ana", list.Data[0].Author)

	got := decode[envelope[model.Blog]](t, do(t, r, http.MethodGet, "/blogs/"+itoa(created.Data.ID), nil))
	assert.Equal(t, "T", got.Data.Title)

	// 博客只支持读与创建
	w = do(t, r, http.MethodDelete, "/blogs/"+itoa(created.Data.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthConnectedThenDegraded(t *testing.T) {
	r, mgr := setupRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[healthBody](t, w)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "connected", body.Database)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)

	breakStore(t, mgr)

	w = do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body = decode[healthBody](t, w)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "disconnected", body.Database)
}

func TestListPostsStoreUnreachableIs500(t *testing.T) {
	r, mgr := setupRouter(t)
	breakStore(t, mgr)
	assert.False(t, mgr.IsConnected(context.Background()))

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts", nil))
		done <- w
	}()

	select {
	case w := <-done:
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decode[envelope[any]](t, w)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	case <-time.After(5 * time.Second):
		t.Fatal("GET /posts hung with store unreachable")
	}
}

func TestIndexMetricsAndUnknownRoute(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blog-service")

	w = do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blog_service_http_requests_total")

	w = do(t, r, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"route not found"}`, w.Body.String())
}
