package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin", "secret123", "admin")

	resp := env.doJSON(t, http.MethodPost, "/api/login", "",
		map[string]string{"username": "admin", "password": "secret123"})
	if resp.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", resp.Code, resp.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["token"] == "" || body["role"] != "admin" || body["name"] != "admin" {
		t.Fatalf("login payload wrong: %v", body)
	}
	if _, ok := body["revenue_table_last_modified_time"]; !ok {
		t.Fatalf("missing revenue_table_last_modified_time: %v", body)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin", "secret123", "admin")

	resp := env.doJSON(t, http.MethodPost, "/api/login", "",
		map[string]string{"username": "admin", "password": "nope"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status: %d", resp.Code)
	}
}

func TestTokenRequired(t *testing.T) {
	env := newTestEnv(t)

	resp := env.doJSON(t, http.MethodGet, "/api/invoices?fy=FY26&month=Jul", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("no token must be 401, got %d", resp.Code)
	}

	resp = env.doJSON(t, http.MethodGet, "/api/invoices?fy=FY26&month=Jul", "garbage", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("bad token must be 401, got %d", resp.Code)
	}
}

func TestAdminRequired(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "viewer", "secret123", "user")
	token := env.login(t, "viewer", "secret123")

	resp := env.doJSON(t, http.MethodPost, "/api/monthly-targets", token,
		map[string]interface{}{"fy": "FY26", "month": "Jul", "target": 100000})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("non-admin write must be 403, got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestSignup_DisabledByDefault(t *testing.T) {
	env := newTestEnv(t)

	resp := env.doJSON(t, http.MethodPost, "/api/signup", "",
		map[string]string{"username": "newbie", "password": "secret123"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("signup disabled must be 403, got %d", resp.Code)
	}
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Auth.AllowSignup = true

	resp := env.doJSON(t, http.MethodPost, "/api/signup", "",
		map[string]string{"username": "newbie", "password": "secret123"})
	if resp.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", resp.Code, resp.Body.String())
	}

	// 注册用户只有普通角色
	user, err := env.store.GetUserByUsername("newbie")
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != "user" {
		t.Fatalf("role: got %q", user.Role)
	}
	env.login(t, "newbie", "secret123")

	// 重名拒绝
	resp = env.doJSON(t, http.MethodPost, "/api/signup", "",
		map[string]string{"username": "newbie", "password": "another123"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate username must be 409, got %d", resp.Code)
	}

	// 密码太短拒绝
	resp = env.doJSON(t, http.MethodPost, "/api/signup", "",
		map[string]string{"username": "other", "password": "123"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("short password must be 400, got %d", resp.Code)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin", "secret123", "admin")
	token := env.login(t, "admin", "secret123")

	resp := env.doJSON(t, http.MethodPost, "/api/change-password", token,
		map[string]string{"oldPassword": "secret123", "newPassword": "newpass456"})
	if resp.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", resp.Code, resp.Body.String())
	}

	// 旧密码失效，新密码可登录
	resp = env.doJSON(t, http.MethodPost, "/api/login", "",
		map[string]string{"username": "admin", "password": "secret123"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("old password must be rejected, got %d", resp.Code)
	}
	env.login(t, "admin", "newpass456")
}
