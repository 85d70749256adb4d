package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/utils"
)

func guardedHandler(t *testing.T, gotAdminID *int) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := r.Context().Value(ContextAdminID).(int)
		if !ok {
			t.Error("в контексте нет admin_id")
		}
		*gotAdminID = id
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionGuard_NoCookie(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)

	var id int
	SessionGuard(cfg)(guardedHandler(t, &id)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("без cookie ожидался 401, получено: %d", rec.Code)
	}
}

func TestSessionGuard_InvalidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "мусор"})

	var id int
	SessionGuard(cfg)(guardedHandler(t, &id)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("с невалидным токеном ожидался 401, получено: %d", rec.Code)
	}
}

func TestSessionGuard_ValidCookiePassesAdminID(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	token, err := utils.GenerateToken(cfg.JWTSecret, 7, time.Hour)
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	var id int
	SessionGuard(cfg)(guardedHandler(t, &id)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("с валидной cookie ожидался 200, получено: %d", rec.Code)
	}
	if id != 7 {
		t.Fatalf("в контексте должен быть admin_id из токена, получено: %d", id)
	}
}

func TestSessionGuard_WrongSecretRejected(t *testing.T) {
	token, err := utils.GenerateToken("другой-секрет", 7, time.Hour)
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	var id int
	SessionGuard(cfg)(guardedHandler(t, &id)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("токен с чужой подписью должен отклоняться: %d", rec.Code)
	}
}

func TestSessionCookie_ProdFlags(t *testing.T) {
	prod := &config.Config{Env: "prod"}
	c := SessionCookie(prod, "tok", 3600)
	if !c.Secure || c.SameSite != http.SameSiteStrictMode || !c.HttpOnly {
		t.Fatalf("в prod cookie должна быть Secure, HttpOnly и SameSite=Strict: %+v", c)
	}

	dev := &config.Config{Env: "dev"}
	c = SessionCookie(dev, "tok", 3600)
	if c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("в dev cookie без Secure и с SameSite=Lax: %+v", c)
	}
}
