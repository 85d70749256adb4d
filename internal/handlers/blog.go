package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/services"
	helpers "portfolio/internal/utils/helpers"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type BlogHandler struct {
	blogService *services.BlogService
}

func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

type blogRequest struct {
	Type          string `json:"type"`
	Author        string `json:"author"`
	Profession    string `json:"profession"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	Image         string `json:"image"`
	ImagePublicID string `json:"image_public_id"`
}

// ListBlogs godoc
// @Summary Список блогов (новые первыми)
// @Tags blogs
// @Produce json
// @Param page query int false "Номер страницы (с 1)"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} helpers.Response
// @Router /api/blogs [get]
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	blogs, pagination, err := h.blogService.ListPaginated(r.Context(), page, limit)
	if err != nil {
		logger.Log.Error("Ошибка получения списка блогов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения блогов")
		return
	}

	if blogs == nil {
		blogs = []*models.Blog{}
	}
	helpers.JSONPage(w, http.StatusOK, blogs, pagination)
}

// GetBlog godoc
// @Summary Получить блог по ID
// @Tags blogs
// @Produce json
// @Param id path string true "ID блога (UUID)"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Некорректный ID"
// @Failure 404 {object} helpers.Response "Не найдено"
// @Router /api/blogs/{id} [get]
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный идентификатор блога")
		return
	}

	blog, err := h.blogService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			helpers.Error(w, http.StatusNotFound, "Блог не найден")
			return
		}
		logger.Log.Error("Ошибка получения блога", zap.String("blog_id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения блога")
		return
	}

	helpers.JSON(w, http.StatusOK, blog)
}

// CreateBlog godoc
// @Summary Создать блог (только admin)
// @Tags admin-blogs
// @Accept json
// @Produce json
// @Param input body blogRequest true "Данные блога"
// @Success 201 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Ошибка валидации"
// @Router /api/blogs [post]
func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	logger.Log.Info("Запрос на создание блога")
	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Невалидный JSON при создании блога", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	blog := &models.Blog{
		Type:          req.Type,
		Author:        req.Author,
		Profession:    req.Profession,
		Title:         req.Title,
		Description:   req.Description,
		Date:          req.Date,
		Image:         req.Image,
		ImagePublicID: req.ImagePublicID,
	}

	if err := h.blogService.Create(r.Context(), blog); err != nil {
		if errors.Is(err, services.ErrInvalidImageURL) || errors.Is(err, services.ErrMissingBlogFields) {
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.Error("Ошибка создания блога", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка создания блога")
		return
	}

	logger.Log.Info("Блог создан", zap.String("blog_id", blog.ID), zap.String("title", blog.Title))
	helpers.JSON(w, http.StatusCreated, blog)
}

// UpdateBlog godoc
// @Summary Обновить блог целиком (только admin)
// @Tags admin-blogs
// @Accept json
// @Produce json
// @Param id path string true "ID блога (UUID)"
// @Param input body blogRequest true "Новое содержимое"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Ошибка валидации"
// @Failure 404 {object} helpers.Response "Не найдено"
// @Router /api/blogs/{id} [put]
func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный идентификатор блога")
		return
	}

	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Невалидный JSON при обновлении блога", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	blog := &models.Blog{
		ID:            id,
		Type:          req.Type,
		Author:        req.Author,
		Profession:    req.Profession,
		Title:         req.Title,
		Description:   req.Description,
		Date:          req.Date,
		Image:         req.Image,
		ImagePublicID: req.ImagePublicID,
	}

	if err := h.blogService.Update(r.Context(), blog); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidImageURL), errors.Is(err, services.ErrMissingBlogFields):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrBlogNotFound):
			helpers.Error(w, http.StatusNotFound, "Блог не найден")
		default:
			logger.Log.Error("Ошибка обновления блога", zap.String("blog_id", id), zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления блога")
		}
		return
	}

	logger.Log.Info("Блог обновлён", zap.String("blog_id", id))
	helpers.JSON(w, http.StatusOK, blog)
}

// DeleteBlog godoc
// @Summary Удалить блог (только admin)
// @Tags admin-blogs
// @Produce json
// @Param id path string true "ID блога (UUID)"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response "Не найдено"
// @Router /api/blogs/{id} [delete]
func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректный идентификатор блога")
		return
	}

	if err := h.blogService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			helpers.Error(w, http.StatusNotFound, "Блог не найден")
			return
		}
		logger.Log.Error("Ошибка удаления блога", zap.String("blog_id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка удаления блога")
		return
	}

	logger.Log.Info("Блог удалён", zap.String("blog_id", id))
	helpers.Message(w, http.StatusOK, "Блог удалён")
}
