package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/task-tracker/domain/apperr"
	domaintask "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

// mockTaskPort implements task.TaskPort for testing.
type mockTaskPort struct {
	createFunc  func(ctx context.Context, userID string, draft domaintask.Draft) (*domaintask.Task, error)
	getFunc     func(ctx context.Context, userID, taskID string) (*domaintask.Task, error)
	updateFunc  func(ctx context.Context, userID, taskID string, draft domaintask.Draft) (*domaintask.Task, error)
	deleteFunc  func(ctx context.Context, userID, taskID string) error
	listFunc    func(ctx context.Context, req task.ListTasksRequest) ([]domaintask.Task, error)
	summaryFunc func(ctx context.Context, userID string) (*task.SummaryPayload, error)
}

func (m *mockTaskPort) Create(ctx context.Context, userID string, draft domaintask.Draft) (*domaintask.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, draft)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) Get(ctx context.Context, userID, taskID string) (*domaintask.Task, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, taskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) Update(ctx context.Context, userID, taskID string, draft domaintask.Draft) (*domaintask.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, userID, taskID, draft)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) Delete(ctx context.Context, userID, taskID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, taskID)
	}
	return errors.New("not implemented")
}

func (m *mockTaskPort) List(ctx context.Context, req task.ListTasksRequest) ([]domaintask.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) Summary(ctx context.Context, userID string) (*task.SummaryPayload, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

// newTestApp wires the handlers onto a bare fiber app the same way the
// module does, with mock ports in place of the service container.
func newTestApp(authPort auth.AuthPort, taskPort task.TaskPort) *fiber.App {
	app := fiber.New()
	handlers := NewHandlers(authPort, taskPort, 604800)
	requireAuth := AuthMiddleware(authPort)

	authRoutes := app.Group("/api/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/logout", handlers.Logout)
	authRoutes.Get("/me", requireAuth, handlers.Me)

	taskRoutes := app.Group("/api/tasks", requireAuth)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/summary", handlers.TaskSummary)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Patch("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, mutate func(*http.Request)) (*http.Response, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutate != nil {
		mutate(req)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (body %s)", err, raw)
	}
	return resp, env
}

func TestRegister_PasswordMismatch(t *testing.T) {
	called := false
	authPort := &mockAuthPort{
		registerFunc: func(_ context.Context, _ auth.RegisterRequest) (*auth.UserPayload, error) {
			called = true
			return &auth.UserPayload{}, nil
		},
	}
	app := newTestApp(authPort, &mockTaskPort{})

	resp, env := doJSON(t, app, "POST", "/api/auth/register",
		`{"name":"A","email":"a@example.com","password":"password123","confirmPassword":"different"}`, nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want 400", resp.StatusCode)
	}
	if env.Success {
		t.Error("success = true, want false")
	}
	if _, present := env.FieldErrors["confirmPassword"]; !present {
		t.Errorf("fieldErrors = %v, want entry for confirmPassword", env.FieldErrors)
	}
	if called {
		t.Error("register service was called despite the mismatch")
	}
}

func TestRegister_Success(t *testing.T) {
	authPort := &mockAuthPort{
		registerFunc: func(_ context.Context, req auth.RegisterRequest) (*auth.UserPayload, error) {
			return &auth.UserPayload{ID: "u1", Name: req.Name, Email: req.Email}, nil
		},
	}
	app := newTestApp(authPort, &mockTaskPort{})

	resp, env := doJSON(t, app, "POST", "/api/auth/register",
		`{"name":"A","email":"a@example.com","password":"password123","confirmPassword":"password123"}`, nil)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %v, want 200", resp.StatusCode)
	}
	if !env.Success {
		t.Errorf("success = false: %+v", env)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	authPort := &mockAuthPort{
		registerFunc: func(_ context.Context, _ auth.RegisterRequest) (*auth.UserPayload, error) {
			return nil, apperr.Conflict("Email is already registered")
		},
	}
	app := newTestApp(authPort, &mockTaskPort{})

	resp, env := doJSON(t, app, "POST", "/api/auth/register",
		`{"name":"A","email":"a@example.com","password":"password123","confirmPassword":"password123"}`, nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want 400", resp.StatusCode)
	}
	if env.Error != "Email is already registered" {
		t.Errorf("error = %v", env.Error)
	}
}

func TestLogin_SetsCookie(t *testing.T) {
	authPort := &mockAuthPort{
		loginFunc: func(_ context.Context, _ auth.LoginRequest) (*auth.UserPayload, string, error) {
			return &auth.UserPayload{ID: "u1", Email: "a@example.com"}, "signed-token", nil
		},
	}
	app := newTestApp(authPort, &mockTaskPort{})

	resp, env := doJSON(t, app, "POST", "/api/auth/login",
		`{"email":"a@example.com","password":"password123"}`, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, want 200", resp.StatusCode)
	}
	if !env.Success {
		t.Errorf("success = false: %+v", env)
	}

	cookie := findCookie(resp, AuthCookieName)
	if cookie == nil {
		t.Fatal("auth-token cookie not set")
	}
	if cookie.Value != "signed-token" {
		t.Errorf("cookie value = %v, want signed-token", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("cookie is not http-only")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.MaxAge != 604800 {
		t.Errorf("cookie MaxAge = %v, want 604800", cookie.MaxAge)
	}
}

func TestLogin_UniformFailureBody(t *testing.T) {
	authPort := &mockAuthPort{
		loginFunc: func(_ context.Context, _ auth.LoginRequest) (*auth.UserPayload, string, error) {
			return nil, "", &apperr.Error{
				Code:    apperr.CodeUnauthenticated,
				Message: "Invalid email or password",
			}
		},
	}
	app := newTestApp(authPort, &mockTaskPort{})

	resp1, env1 := doJSON(t, app, "POST", "/api/auth/login",
		`{"email":"unknown@example.com","password":"password123"}`, nil)
	resp2, env2 := doJSON(t, app, "POST", "/api/auth/login",
		`{"email":"known@example.com","password":"wrong"}`, nil)

	if resp1.StatusCode != http.StatusUnauthorized || resp2.StatusCode != http.StatusUnauthorized {
		t.Errorf("statuses = %v, %v, want 401, 401", resp1.StatusCode, resp2.StatusCode)
	}
	if env1.Error != env2.Error {
		t.Errorf("bodies differ: %q vs %q", env1.Error, env2.Error)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	app := newTestApp(&mockAuthPort{}, &mockTaskPort{})

	resp, _ := doJSON(t, app, "POST", "/api/auth/login", `{"email":"a@example.com"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want 400", resp.StatusCode)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	app := newTestApp(&mockAuthPort{}, &mockTaskPort{})

	resp, env := doJSON(t, app, "POST", "/api/auth/logout", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %v, want 200", resp.StatusCode)
	}
	if !env.Success {
		t.Errorf("success = false: %+v", env)
	}

	cookie := findCookie(resp, AuthCookieName)
	if cookie == nil {
		t.Fatal("clearing Set-Cookie header missing")
	}
	if cookie.Value != "" {
		t.Errorf("cookie value = %q, want empty", cookie.Value)
	}
	if cookie.MaxAge > 0 {
		t.Errorf("cookie MaxAge = %v, want expired", cookie.MaxAge)
	}
}

func TestMe_UserGone(t *testing.T) {
	authPort := acceptToken("good-token")
	authPort.getUserFunc = func(_ context.Context, _ string) (*auth.UserPayload, error) {
		return nil, apperr.NotFound("User not found")
	}
	app := newTestApp(authPort, &mockTaskPort{})

	resp, _ := doJSON(t, app, "GET", "/api/auth/me", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer good-token")
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %v, want 404", resp.StatusCode)
	}
}

func TestTasks_Unauthenticated(t *testing.T) {
	app := newTestApp(acceptToken("good-token"), &mockTaskPort{})

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/tasks/"},
		{"POST", "/api/tasks/"},
		{"GET", "/api/tasks/some-id"},
		{"PATCH", "/api/tasks/some-id"},
		{"DELETE", "/api/tasks/some-id"},
		{"GET", "/api/tasks/summary"},
	}

	for _, p := range paths {
		resp, _ := doJSON(t, app, p.method, p.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s status = %v, want 401", p.method, p.path, resp.StatusCode)
		}
	}
}

func TestGetTask_NotFoundOrForeign(t *testing.T) {
	taskPort := &mockTaskPort{
		getFunc: func(_ context.Context, _, _ string) (*domaintask.Task, error) {
			return nil, apperr.NotFound("Task not found")
		},
	}
	app := newTestApp(acceptToken("good-token"), taskPort)

	resp, env := doJSON(t, app, "GET", "/api/tasks/someone-elses-task", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer good-token")
	})

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %v, want 404", resp.StatusCode)
	}
	if env.Error != "Task not found" {
		t.Errorf("error = %v, want Task not found", env.Error)
	}
}

func TestListTasks_PassesFilters(t *testing.T) {
	var got task.ListTasksRequest
	taskPort := &mockTaskPort{
		listFunc: func(_ context.Context, req task.ListTasksRequest) ([]domaintask.Task, error) {
			got = req
			return []domaintask.Task{}, nil
		},
	}
	app := newTestApp(acceptToken("good-token"), taskPort)

	resp, env := doJSON(t, app, "GET", "/api/tasks/?status=pending&priority=high", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer good-token")
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, want 200", resp.StatusCode)
	}
	if !env.Success {
		t.Errorf("success = false: %+v", env)
	}
	if got.UserID != "user-123" {
		t.Errorf("list userID = %v, want caller identity", got.UserID)
	}
	if got.Status != "pending" || got.Priority != "high" || got.Category != "" {
		t.Errorf("filters = %+v", got)
	}
}

func TestCreateTask_ValidationErrors(t *testing.T) {
	taskPort := &mockTaskPort{
		createFunc: func(_ context.Context, _ string, _ domaintask.Draft) (*domaintask.Task, error) {
			return nil, apperr.Validation(map[string]string{"title": "Title is required"})
		},
	}
	app := newTestApp(acceptToken("good-token"), taskPort)

	resp, env := doJSON(t, app, "POST", "/api/tasks/", `{}`, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer good-token")
	})

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want 400", resp.StatusCode)
	}
	if _, present := env.FieldErrors["title"]; !present {
		t.Errorf("fieldErrors = %v, want entry for title", env.FieldErrors)
	}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
