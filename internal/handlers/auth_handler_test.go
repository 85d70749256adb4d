package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio/internal/config"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/services"
	"portfolio/internal/utils"

	"github.com/gorilla/mux"
)

type fakeAdminRepo struct {
	byEmail map[string]*models.Admin
	nextID  int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byEmail: make(map[string]*models.Admin)}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	r.nextID++
	admin.ID = r.nextID
	cp := *admin
	r.byEmail[admin.Email] = &cp
	return nil
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	admin, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}
	cp := *admin
	return &cp, nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id int) (*models.Admin, error) {
	for _, admin := range r.byEmail {
		if admin.ID == id {
			cp := *admin
			return &cp, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (r *fakeAdminRepo) UpdateFields(_ context.Context, id int, input *models.UpdateAdminRequest) error {
	admin, err := r.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if input.Name != nil {
		admin.Name = *input.Name
	}
	if input.Phone != nil {
		admin.Phone = *input.Phone
	}
	if input.Email != nil {
		delete(r.byEmail, admin.Email)
		admin.Email = *input.Email
	}
	r.byEmail[admin.Email] = admin
	return nil
}

func (r *fakeAdminRepo) UpdatePassword(_ context.Context, id int, hash string) error {
	admin, err := r.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	r.byEmail[admin.Email] = admin
	return nil
}

func newAuthRouter(t *testing.T) *mux.Router {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret", SessionTTL: "24h", Env: "dev"}

	repo := newFakeAdminRepo()
	hash, err := utils.HashPassword("правильный-пароль")
	if err != nil {
		t.Fatalf("ошибка хеширования: %v", err)
	}
	repo.Create(context.Background(), &models.Admin{
		Email:        "admin@example.com",
		PasswordHash: hash,
		Name:         "Администратор",
		Role:         models.RoleAdmin,
	})

	h := NewAuthHandler(services.NewAuthService(repo), cfg)
	r := mux.NewRouter()
	r.HandleFunc("/api/admin/login", h.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.SessionGuard(cfg))
	protected.HandleFunc("/api/admin/profile", h.Profile).Methods(http.MethodGet)
	return r
}

func login(t *testing.T, router *mux.Router, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body)))
	return rec
}

func TestLogin_SetsCookieAndOpensProfile(t *testing.T) {
	router := newAuthRouter(t)

	rec := login(t, router, "Admin@Example.com", "правильный-пароль")
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получено: %d: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("после входа должна выставляться cookie сессии")
	}
	if !sessionCookie.HttpOnly {
		t.Fatal("cookie сессии должна быть HTTP-only")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("профиль по валидной cookie должен открываться: %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("хеш пароля не должен попадать в ответ: %s", rec.Body.String())
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookIdentical(t *testing.T) {
	router := newAuthRouter(t)

	wrongPass := login(t, router, "admin@example.com", "не-тот-пароль")
	unknown := login(t, router, "nobody@example.com", "любой")

	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("оба случая должны давать 401: %d и %d", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Fatalf("тела ответов должны совпадать, чтобы не выдавать наличие учётки:\n%s\n%s",
			wrongPass.Body.String(), unknown.Body.String())
	}
}

func TestProfile_WithoutCookieIsUnauthorized(t *testing.T) {
	router := newAuthRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("без cookie ожидался 401, получено: %d", rec.Code)
	}
}
