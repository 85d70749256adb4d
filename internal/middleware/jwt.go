package middleware

import (
	"context"
	"net/http"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/utils"
	helpers "portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

// SessionCookieName — HTTP-only cookie с токеном сессии администратора.
const SessionCookieName = "token"

// SessionGuard пускает дальше только запросы с валидной cookie сессии.
// Отсутствие cookie и невалидный токен — разные сообщения, оба 401.
func SessionGuard(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				logger.Log.Warn("SessionGuard: отсутствует cookie сессии", zap.String("path", r.URL.Path))
				helpers.Error(w, http.StatusUnauthorized, "Требуется авторизация")
				return
			}

			claims, err := utils.VerifyToken(cfg.JWTSecret, cookie.Value)
			if err != nil {
				logger.Log.Warn("SessionGuard: неверный или просроченный токен", zap.Error(err))
				helpers.Error(w, http.StatusUnauthorized, "Недействительный токен")
				return
			}

			ctx := context.WithValue(r.Context(), ContextAdminID, claims.AdminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionCookie собирает cookie сессии: в prod — Secure и SameSite=Strict,
// в dev — послабления для localhost.
func SessionCookie(cfg *config.Config, token string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if cfg.IsProd() {
		sameSite = http.SameSiteStrictMode
	}
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.IsProd(),
		SameSite: sameSite,
	}
}
