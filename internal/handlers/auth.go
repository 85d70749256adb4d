package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/services"
	helpers "portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Login godoc
// @Summary Вход администратора, токен уходит в HTTP-only cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param input body loginRequest true "Email и пароль"
// @Success 200 {object} helpers.Response
// @Failure 401 {object} helpers.Response "Неверный email или пароль"
// @Router /api/admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Невалидный JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	sessionTTL, err := time.ParseDuration(h.cfg.SessionTTL)
	if err != nil {
		sessionTTL = 24 * time.Hour
	}

	token, admin, err := h.authService.Login(r.Context(), req.Email, req.Password, h.cfg.JWTSecret, sessionTTL)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			helpers.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		logger.Log.Error("Ошибка входа администратора", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка входа")
		return
	}

	http.SetCookie(w, middleware.SessionCookie(h.cfg, token, int(sessionTTL.Seconds())))
	helpers.JSON(w, http.StatusOK, admin)
}

// Logout godoc
// @Summary Выход администратора: cookie сессии очищается
// @Tags admin
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /api/admin/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, middleware.SessionCookie(h.cfg, "", -1))
	helpers.Message(w, http.StatusOK, "Выход выполнен")
}

// Profile godoc
// @Summary Профиль текущего администратора
// @Tags admin
// @Produce json
// @Success 200 {object} helpers.Response
// @Failure 401 {object} helpers.Response "Нет доступа"
// @Router /api/admin/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(middleware.ContextAdminID).(int)

	admin, err := h.authService.GetAdminByID(r.Context(), adminID)
	if err != nil {
		helpers.Error(w, http.StatusUnauthorized, "Администратор не найден")
		return
	}

	helpers.JSON(w, http.StatusOK, admin)
}

// UpdateProfile godoc
// @Summary Обновление профиля администратора
// @Tags admin
// @Accept json
// @Produce json
// @Param input body models.UpdateAdminRequest true "Изменяемые поля"
// @Success 200 {object} helpers.Response
// @Router /api/admin/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(middleware.ContextAdminID).(int)

	var req models.UpdateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Невалидный JSON в UpdateProfile", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.authService.UpdateProfile(r.Context(), adminID, &req); err != nil {
		logger.Log.Error("Ошибка обновления профиля", zap.Int("admin_id", adminID), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления профиля")
		return
	}

	admin, err := h.authService.GetAdminByID(r.Context(), adminID)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения профиля")
		return
	}
	helpers.JSON(w, http.StatusOK, admin)
}

// ChangePassword godoc
// @Summary Смена пароля администратора
// @Tags admin
// @Accept json
// @Produce json
// @Param input body changePasswordRequest true "Старый и новый пароль"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Слишком короткий пароль"
// @Failure 401 {object} helpers.Response "Старый пароль не совпадает"
// @Router /api/admin/change-password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(middleware.ContextAdminID).(int)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Невалидный JSON в ChangePassword", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), adminID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordTooShort):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			helpers.Error(w, http.StatusUnauthorized, "Старый пароль не совпадает")
		default:
			logger.Log.Error("Ошибка смены пароля", zap.Int("admin_id", adminID), zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка смены пароля")
		}
		return
	}

	helpers.Message(w, http.StatusOK, "Пароль изменён")
}
