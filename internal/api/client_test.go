package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"presensi.client/internal/core/model"
	"presensi.client/internal/platform"
	"presensi.client/internal/ports/storage"
	"presensi.client/internal/session"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) add(req recordedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *recorder) get(i int) recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[i]
}

// newTestServer answers every request with status and body and records what it saw.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	seen := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen.add(recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(b),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

type fakeCredentials struct {
	token  string
	events *[]string
}

func (f *fakeCredentials) PersistedToken(context.Context) string { return f.token }

func (f *fakeCredentials) Expire(context.Context) {
	f.token = ""
	*f.events = append(*f.events, "expire")
}

func TestClientBuildsURLFromBaseURL(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{"data":"test"}`)
	c := NewClient(srv.URL+"/", nil)

	if err := c.Get(context.Background(), "/users", nil, nil); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got := seen.get(0).Path; got != "/users" {
		t.Errorf("path = %q, want /users", got)
	}
}

func TestClientQueryParams(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, nil)

	params := map[string]string{"page": "1", "limit": "10", "status": "", "q": "a b&c"}
	if err := c.Get(context.Background(), "/users", params, nil); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	q := seen.get(0).Query
	if q.Get("page") != "1" || q.Get("limit") != "10" {
		t.Errorf("query = %v", q)
	}
	if q.Get("q") != "a b&c" {
		t.Errorf("q was not round-tripped through URL encoding: %q", q.Get("q"))
	}
	if _, ok := q["status"]; ok {
		t.Error("empty parameter should be omitted")
	}
}

func TestClientOmitsQueryWhenAllParamsEmpty(t *testing.T) {
	c := NewClient("http://api.test", nil)
	if got := c.buildURL("/api/presensi", map[string]string{"status": ""}); got != "http://api.test/api/presensi" {
		t.Errorf("buildURL() = %q", got)
	}
}

func TestClientAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"with token", "abc", "Bearer abc"},
		{"without token", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := newTestServer(t, http.StatusOK, `{}`)
			var events []string
			c := NewClient(srv.URL, &fakeCredentials{token: tt.token, events: &events})

			if err := c.Get(context.Background(), "/api/auth/profile", nil, nil); err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			h := seen.get(0).Header
			if got := h.Get("Authorization"); got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
			if _, present := h["Authorization"]; tt.want == "" && present {
				t.Error("Authorization header should be absent")
			}
			if got := h.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
		})
	}
}

func TestClientMethodsAndBodies(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{"success":true}`)
	c := NewClient(srv.URL, nil)
	ctx := context.Background()

	type person struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := c.Post(ctx, "/users", person{"John", "john@example.com"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, "/users/1", map[string]string{"name": "Updated"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Patch(ctx, "/users/1", map[string]string{"status": "active"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "/users/1", nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Post(ctx, "/empty", nil, nil); err != nil {
		t.Fatal(err)
	}

	want := []struct{ method, body string }{
		{http.MethodPost, `{"name":"John","email":"john@example.com"}`},
		{http.MethodPut, `{"name":"Updated"}`},
		{http.MethodPatch, `{"status":"active"}`},
		{http.MethodDelete, ``},
		{http.MethodPost, ``},
	}
	for i, w := range want {
		got := seen.get(i)
		if got.Method != w.method || got.Body != w.body {
			t.Errorf("request %d = %s %q, want %s %q", i, got.Method, got.Body, w.method, w.body)
		}
	}
}

func TestClientErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server message", http.StatusBadRequest, `{"message":"Bad request"}`, "Bad request"},
		{"no message", http.StatusInternalServerError, `{"success":false}`, DefaultErrorMessage},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, DefaultErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			err := NewClient(srv.URL, nil).Get(context.Background(), "/users", nil, nil)

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("error = %v, want *RequestError", err)
			}
			if err.Error() != tt.want || reqErr.StatusCode != tt.status {
				t.Errorf("error = (%d, %q), want (%d, %q)", reqErr.StatusCode, err.Error(), tt.status, tt.want)
			}
		})
	}
}

func TestClientUnauthorizedClearsSessionThenNavigates(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized, `{"message":"token expired"}`)

	var events []string
	creds := &fakeCredentials{token: "abc", events: &events}
	nav := NavigatorFunc(func(_ context.Context, route string) {
		events = append(events, "navigate:"+route)
	})
	c := NewClient(srv.URL, creds, WithNavigator(nav))

	err := c.Get(context.Background(), "/users", nil, nil)

	if !errors.Is(err, ErrUnauthorized) || err.Error() != "Unauthorized" {
		t.Fatalf("error = %v, want Unauthorized", err)
	}
	if len(events) != 2 || events[0] != "expire" || events[1] != "navigate:/login" {
		t.Errorf("side effects = %v, want [expire navigate:/login]", events)
	}
}

func TestClientUnauthorizedWithSessionStore(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusUnauthorized, `{}`)
	ctx := context.Background()

	st := storage.NewMemoryStorage()
	store := session.NewStore(ctx, st, platform.Interactive)
	if err := store.Login(ctx, "abc", model.User{ID: "1", Email: "a@b.c"}); err != nil {
		t.Fatal(err)
	}

	var navigated string
	c := NewClient(srv.URL, store, WithNavigator(NavigatorFunc(func(_ context.Context, r string) { navigated = r })))

	if err := c.Get(ctx, "/api/auth/profile", nil, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v", err)
	}
	if got := seen.get(0).Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}
	if _, ok, _ := st.Get(ctx, storage.TokenKey); ok {
		t.Error("token still persisted")
	}
	if _, ok, _ := st.Get(ctx, storage.UserKey); ok {
		t.Error("user still persisted")
	}
	if store.IsAuthenticated() {
		t.Error("store still authenticated")
	}
	if navigated != LoginRoute {
		t.Errorf("navigated to %q", navigated)
	}
}

func TestClientHeadlessRuntimeSendsNoToken(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{}`)
	ctx := context.Background()

	st := storage.NewMemoryStorage()
	_ = st.Set(ctx, storage.TokenKey, "abc")
	store := session.NewStore(ctx, st, platform.Headless)

	if err := NewClient(srv.URL, store).Get(ctx, "/x", nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, present := seen.get(0).Header["Authorization"]; present {
		t.Error("headless runtime must not read the stored token")
	}
}

func TestClientDecodeFailure(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `not json`)
	var out model.Response[model.User]
	if err := NewClient(srv.URL, nil).Get(context.Background(), "/x", nil, &out); err == nil {
		t.Fatal("expected decode error")
	}
}
