package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestID присваивает каждому запросу идентификатор для корреляции логов.
// Пришедший от прокси X-Request-ID уважается.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)

		ctx := context.WithValue(r.Context(), ContextRequestID, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
