// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-church/website/internal/authz"
	"github.com/hanbit-church/website/internal/backend"
	"github.com/hanbit-church/website/internal/config"
	"github.com/hanbit-church/website/internal/i18n"
	"github.com/hanbit-church/website/internal/middleware"
	"github.com/hanbit-church/website/internal/model"
	"github.com/hanbit-church/website/internal/provision"
	"github.com/hanbit-church/website/internal/render"
	"github.com/hanbit-church/website/internal/repo"
	"github.com/hanbit-church/website/internal/session"
	"github.com/hanbit-church/website/internal/testutil"
	"github.com/hanbit-church/website/web"
)

// testSite wires the full router the way main does, minus CSRF and
// request logging, against a fake backend.
type testSite struct {
	server *httptest.Server
	client *http.Client
	posts  *repo.Posts
	fake   *testutil.FakeBackend
}

func newTestSite(t *testing.T, cfg *config.Config) *testSite {
	t.Helper()
	require.NoError(t, i18n.Init(testutil.TestLogger()))

	client := backend.New(cfg)
	sm := session.NewManager(true)
	store := session.NewStore(sm, client)
	posts := repo.NewPosts(client)
	gate := authz.NewGate(client)
	provisioner := provision.New(client)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		SiteName:       "한빛교회",
		IsDev:          true,
	})
	require.NoError(t, err)

	frontendHandler := NewFrontendHandler(posts, renderer, client.Available())
	authHandler := NewAuthHandler(store, renderer, client.Available())
	postHandler := NewPostHandler(posts, renderer)
	adminHandler := NewAdminHandler(posts, provisioner, renderer)
	healthHandler := NewHealthHandler(client.Available())

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadSession(store, gate))

	r.Get(RouteRoot, frontendHandler.Home)
	r.Get(RouteBoard, frontendHandler.BoardList)
	r.Get(RouteBoardPost, frontendHandler.PostDetail)
	r.Get(RouteHealth, healthHandler.Health)

	r.Get(RouteLogin, authHandler.LoginForm)
	r.Post(RouteLogin, authHandler.Login)
	r.Get(RouteLogout, authHandler.Logout)
	r.Post(RouteLogout, authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())

		r.Get(RouteAdmin, adminHandler.Dashboard)
		r.Get(RouteAdminSignup, adminHandler.SignupForm)
		r.Post(RouteAdminSignup, adminHandler.Signup)

		r.Get(RouteBoardNew, postHandler.NewForm)
		r.Post(RouteBoard, postHandler.Create)
		r.Get(RouteBoardPostEdit, postHandler.EditForm)
		r.Post(RouteBoardPost, postHandler.Update)
		r.Post(RouteBoardPostDelete, postHandler.Delete)
	})

	r.NotFound(frontendHandler.NotFound)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testSite{
		server: srv,
		client: &http.Client{Jar: jar},
		posts:  posts,
	}
}

func newFakeSite(t *testing.T) *testSite {
	t.Helper()
	fake := testutil.NewFakeBackend(t)
	site := newTestSite(t, fake.Config())
	site.fake = fake
	return site
}

// get fetches a path and returns the response status and body.
func (s *testSite) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := s.client.Get(s.server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// postForm submits a form and returns the final response after redirects.
func (s *testSite) postForm(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := s.client.PostForm(s.server.URL+path, form)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// signIn provisions an identity on the fake and signs the client in.
func (s *testSite) signIn(t *testing.T, email string, admin bool) {
	t.Helper()
	id := s.fake.AddUser(email, "secret123")
	if admin {
		s.fake.AddAdmin(id, email)
	}
	// The login redirect lands on /admin, which is 403 for non-admins;
	// the session cookie is established either way.
	status, _ := s.postForm(t, "/login", url.Values{
		"email":    {email},
		"password": {"secret123"},
	})
	require.NotEqual(t, http.StatusInternalServerError, status)
}

func TestHomeRenders(t *testing.T) {
	site := newFakeSite(t)

	status, body := site.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "한빛교회")
	assert.Contains(t, body, "/board/news")
	assert.Contains(t, body, "/board/adult")
}

func TestBoardListShowsPosts(t *testing.T) {
	site := newFakeSite(t)

	_, err := site.posts.Create(t.Context(), "tok", model.Draft{
		Title:    "중고등부 수련회",
		Content:  "<p>이번 주 금요일</p>",
		Category: model.CategoryYouth,
	})
	require.NoError(t, err)

	status, body := site.get(t, "/board/youth")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "중고등부 수련회")
	assert.Contains(t, body, "이번 주 금요일")
	assert.NotContains(t, body, "<p>이번 주 금요일</p>", "previews are tag-stripped")
}

func TestUnknownBoardIs404(t *testing.T) {
	site := newFakeSite(t)

	status, _ := site.get(t, "/board/blog")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPostDetailAndMissingPost(t *testing.T) {
	site := newFakeSite(t)

	created, err := site.posts.Create(t.Context(), "tok", model.Draft{
		Title:      "설교 영상",
		Content:    "본문 말씀",
		Category:   model.CategorySermon,
		YouTubeURL: "https://youtu.be/abc123",
	})
	require.NoError(t, err)

	status, body := site.get(t, "/board/sermon/"+created.ID)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "설교 영상")
	assert.Contains(t, body, "https://www.youtube.com/embed/abc123")

	status, _ = site.get(t, "/board/sermon/no-such-id")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminRoutesRedirectAnonymous(t *testing.T) {
	site := newFakeSite(t)
	noRedirect := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	for _, path := range []string{"/admin", "/admin/signup", "/board/news/new"} {
		resp, err := noRedirect.Get(site.server.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestAdminRoutesForbidNonAdmin(t *testing.T) {
	site := newFakeSite(t)
	site.signIn(t, "member@church.kr", false)

	status, _ := site.get(t, "/admin")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdminDashboard(t *testing.T) {
	site := newFakeSite(t)
	site.signIn(t, "admin@church.kr", true)

	_, err := site.posts.Create(t.Context(), "tok", model.Draft{
		Title: "소식", Content: "c", Category: model.CategoryNews,
	})
	require.NoError(t, err)

	status, body := site.get(t, "/admin")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "admin@church.kr")
	assert.Contains(t, body, "/admin/signup")
}

func TestAdminCreateEditDeletePost(t *testing.T) {
	site := newFakeSite(t)
	site.signIn(t, "admin@church.kr", true)

	// Create
	status, body := site.postForm(t, "/board/news", url.Values{
		"title":   {"새 소식"},
		"content": {"본문입니다"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "새 소식")

	posts, err := site.posts.List(t.Context(), model.CategoryNews)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	id := posts[0].ID

	// Update
	status, body = site.postForm(t, "/board/news/"+id, url.Values{
		"title":   {"수정된 소식"},
		"content": {"본문입니다"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "수정된 소식")

	// Delete
	status, _ = site.postForm(t, "/board/news/"+id+"/delete", url.Values{})
	assert.Equal(t, http.StatusOK, status)

	posts, err = site.posts.List(t.Context(), model.CategoryNews)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestAdminCreateInvalidDraftFlashes(t *testing.T) {
	site := newFakeSite(t)
	site.signIn(t, "admin@church.kr", true)

	before := site.fake.PostCount()
	status, _ := site.postForm(t, "/board/news", url.Values{
		"title":   {"   "},
		"content": {"c"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, before, site.fake.PostCount(), "invalid draft must not be stored")
}

func TestAdminSignupFlow(t *testing.T) {
	site := newFakeSite(t)
	site.signIn(t, "admin@church.kr", true)

	before := site.fake.AdminCount()
	status, _ := site.postForm(t, "/admin/signup", url.Values{
		"email":            {"second@church.kr"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, before+1, site.fake.AdminCount())
}

func TestLoginWithBadCredentials(t *testing.T) {
	site := newFakeSite(t)
	site.fake.AddUser("admin@church.kr", "secret123")

	status, body := site.postForm(t, "/login", url.Values{
		"email":    {"admin@church.kr"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "올바르지 않습니다")

	// Still anonymous: admin routes bounce to login.
	noRedirect := &http.Client{
		Jar: site.client.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := noRedirect.Get(site.server.URL + "/admin")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	site := newFakeSite(t)
	site.signIn(t, "admin@church.kr", true)

	status, _ := site.get(t, "/admin")
	require.Equal(t, http.StatusOK, status)

	status, _ = site.postForm(t, "/logout", url.Values{})
	assert.Equal(t, http.StatusOK, status)

	status, _ = site.get(t, "/admin")
	assert.NotEqual(t, http.StatusOK, status, "signed-out client must lose admin access")
}

func TestHealthConfigured(t *testing.T) {
	site := newFakeSite(t)

	status, body := site.get(t, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, `"backend":"configured"`)
}

func TestDegradedMode(t *testing.T) {
	site := newTestSite(t, &config.Config{}) // no backend at all

	status, body := site.get(t, "/")
	assert.Equal(t, http.StatusOK, status, "homepage must render without a backend")
	assert.Contains(t, body, "한빛교회")

	status, _ = site.get(t, "/board/news")
	assert.Equal(t, http.StatusOK, status, "boards render empty, they do not error")

	status, _ = site.get(t, "/board/news/some-id")
	assert.Equal(t, http.StatusNotFound, status, "detail pages 404 in degraded mode")

	status, body = site.get(t, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"backend":"unconfigured"`)

	status, body = site.postForm(t, "/login", url.Values{
		"email":    {"a@b.c"},
		"password": {"secret123"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "설정되지 않아", "login reports the backend is not configured")
}
