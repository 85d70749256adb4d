package middleware

import (
	"net/http"

	"portfolio/internal/logger"
	helpers "portfolio/internal/utils/helpers"
)

// UploadLimiter ограничивает число одновременных загрузок: каждый запрос
// буферизует файл целиком в памяти, поэтому пиковая память = слоты × макс. размер.
type UploadLimiter struct {
	slots chan struct{}
}

func NewUploadLimiter(max int) *UploadLimiter {
	if max < 1 {
		max = 1
	}
	return &UploadLimiter{slots: make(chan struct{}, max)}
}

// TryAcquire занимает слот без ожидания. Освобождать через Release.
func (l *UploadLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (l *UploadLimiter) Release() {
	<-l.slots
}

// Limit отклоняет запрос сразу, если все слоты заняты: очередь из загрузок
// по 50 МБ хуже честного 503.
func (l *UploadLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.TryAcquire() {
			logger.Log.Warn("Все слоты загрузки заняты, запрос отклонён")
			helpers.Error(w, http.StatusServiceUnavailable, "Сервер занят, повторите загрузку позже")
			return
		}
		defer l.Release()
		next.ServeHTTP(w, r)
	})
}
