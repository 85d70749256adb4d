package handlers

import (
	"errors"
	"io"
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/services"
	helpers "portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

// Серверный потолок больше клиентского порога сжатия: клиент шлёт уже
// пережатый JPEG, но эндпоинт должен переживать и «сырые» файлы.
const maxUploadSize = 50 << 20 // 50MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type UploadHandler struct {
	storage *services.CloudinaryService
}

func NewUploadHandler(storage *services.CloudinaryService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"public_id"`
}

// UploadImage godoc
// @Summary Загрузка картинки блога в хранилище (только admin)
// @Tags admin-blogs
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Файл изображения"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} helpers.Response "Нет файла / неподдерживаемый тип / превышен размер"
// @Failure 408 {object} helpers.Response "Таймаут хранилища"
// @Failure 503 {object} helpers.Response "Хранилище недоступно"
// @Router /api/blogs/upload [post]
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	logger.Log.Info("Запрос на загрузку картинки")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.Log.Warn("Ошибка разбора формы при загрузке картинки", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Файл превышает допустимый размер (50 МБ)")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		logger.Log.Warn("Файл не найден при загрузке", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Файл не найден в поле image")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		helpers.Error(w, http.StatusBadRequest, "Файл превышает допустимый размер (50 МБ)")
		return
	}

	// Весь файл буферизуется в памяти; число одновременных загрузок
	// ограничено UploadLimiter на маршруте.
	data, err := io.ReadAll(file)
	if err != nil {
		logger.Log.Error("Ошибка чтения файла загрузки", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		logger.Log.Warn("Неподдерживаемый тип файла", zap.String("content_type", contentType))
		helpers.Error(w, http.StatusBadRequest, "Неподдерживаемый тип файла: ожидается jpeg, png, webp или gif")
		return
	}

	result, err := h.storage.Upload(r.Context(), data, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImageHostTimeout):
			logger.Log.Error("Таймаут хранилища при загрузке", zap.Error(err))
			helpers.Error(w, http.StatusRequestTimeout, "Хранилище изображений не ответило вовремя")
		case errors.Is(err, services.ErrImageHostUnauthorized):
			logger.Log.Error("Хранилище отклонило учётные данные", zap.Error(err))
			helpers.Error(w, http.StatusServiceUnavailable, "Хранилище изображений недоступно")
		default:
			logger.Log.Error("Ошибка загрузки в хранилище", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка загрузки изображения")
		}
		return
	}

	logger.Log.Info("Картинка загружена",
		zap.String("public_id", result.PublicID),
		zap.Int("size", len(data)),
	)
	helpers.Raw(w, http.StatusOK, uploadResponse{
		Success:  true,
		ImageURL: result.URL,
		PublicID: result.PublicID,
	})
}
