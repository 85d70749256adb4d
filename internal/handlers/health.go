package handlers

import (
	"context"
	"net/http"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/services"
	helpers "portfolio/internal/utils/helpers"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type HealthHandler struct {
	db      *pgxpool.Pool
	storage *services.CloudinaryService
}

func NewHealthHandler(db *pgxpool.Pool, storage *services.CloudinaryService) *HealthHandler {
	return &HealthHandler{db: db, storage: storage}
}

// Health godoc
// @Summary Проба живости: процесс и база
// @Tags health
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /api/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dbStatus := "up"
	if err := h.db.Ping(ctx); err != nil {
		logger.Log.Warn("Health: база недоступна", zap.Error(err))
		dbStatus = "down"
	}

	helpers.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"db":     dbStatus,
	})
}

// CloudinaryHealth godoc
// @Summary Проба доступности хранилища изображений
// @Tags health
// @Produce json
// @Success 200 {object} helpers.Response
// @Failure 503 {object} helpers.Response "Хранилище недоступно"
// @Router /api/cloudinary-health [get]
func (h *HealthHandler) CloudinaryHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		logger.Log.Warn("Хранилище изображений недоступно", zap.Error(err))
		helpers.Error(w, http.StatusServiceUnavailable, "Хранилище изображений недоступно")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
