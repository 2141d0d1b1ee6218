package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Trihalo/XeroAPI/internal/calendar"
	"github.com/Trihalo/XeroAPI/internal/config"
	"github.com/Trihalo/XeroAPI/internal/store"
)

// 2025 年 7 月（FY26 首月）的四个周，供各 handler 测试复用
const calendarFixture = `
[[week]]
fy = "FY26"
month = "Jul"
week = 1
start = "2025-06-30"
end = "2025-07-06"

[[week]]
fy = "FY26"
month = "Jul"
week = 2
start = "2025-07-07"
end = "2025-07-13"

[[week]]
fy = "FY26"
month = "Jul"
week = 3
start = "2025-07-14"
end = "2025-07-20"

[[week]]
fy = "FY26"
month = "Jul"
week = 4
start = "2025-07-21"
end = "2025-07-27"
`

type testEnv struct {
	store  *store.Store
	router *gin.Engine
	cfg    *config.AppConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()

	st, err := store.New(filepath.Join(dir, "futureyou.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	calPath := filepath.Join(dir, "calendar.toml")
	if err := os.WriteFile(calPath, []byte(calendarFixture), 0644); err != nil {
		t.Fatal(err)
	}
	cal, err := calendar.Load(calPath)
	if err != nil {
		t.Fatalf("load calendar: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Auth.JWTSecret = "test-secret"

	h := NewHandler(st, cfg, cal, dir)
	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)

	return &testEnv{store: st, router: r, cfg: cfg}
}

func (e *testEnv) createUser(t *testing.T, username, password, role string) {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.store.CreateUser(username, username, "", role, hash); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/api/login", "",
		map[string]string{"username": username, "password": password})
	if resp.Code != http.StatusOK {
		t.Fatalf("login failed: %d body=%s", resp.Code, resp.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return body.Token
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewBuffer(b)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedRoster(t *testing.T) {
	t.Helper()
	for i, area := range []string{"Legal", "Executive"} {
		if _, err := e.store.AddArea(area, 2, i); err != nil {
			t.Fatal(err)
		}
	}
	for _, r := range [][2]string{
		{"Suzie Large", "Legal"},
		{"Emily Wilson", "Executive"},
	} {
		if _, err := e.store.AddRecruiter(r[0], r[1]); err != nil {
			t.Fatal(err)
		}
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, w.Body.String())
	}
}
