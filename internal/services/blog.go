package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrInvalidImageURL   = errors.New("поле image должно быть абсолютным https:// URL")
	ErrMissingBlogFields = errors.New("заполнены не все обязательные поля блога")
)

// ImageStorage — то, что блогу нужно от хранилища картинок: только удаление.
type ImageStorage interface {
	Destroy(ctx context.Context, publicID string) error
}

type BlogService struct {
	repo   repository.BlogRepo
	images ImageStorage
}

func NewBlogService(repo repository.BlogRepo, images ImageStorage) *BlogService {
	return &BlogService{repo: repo, images: images}
}

func validateBlog(blog *models.Blog) error {
	required := []string{blog.Type, blog.Author, blog.Profession, blog.Title, blog.Description, blog.Date}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return ErrMissingBlogFields
		}
	}
	if blog.Image != "" && !models.IsSecureImageURL(blog.Image) {
		return ErrInvalidImageURL
	}
	return nil
}

func (s *BlogService) Create(ctx context.Context, blog *models.Blog) error {
	logger.Log.Info("Сервис: создание блога", zap.String("title", blog.Title))
	if err := validateBlog(blog); err != nil {
		return err
	}
	return s.repo.Create(ctx, blog)
}

func (s *BlogService) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPaginated нормализует page/limit и возвращает страницу с метаданными.
func (s *BlogService) ListPaginated(ctx context.Context, page, limit int) ([]*models.Blog, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	blogs, total, err := s.repo.ListPaginated(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	totalPages := (total + limit - 1) / limit
	return blogs, models.Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Update заменяет запись целиком. Если картинка сменилась, старую убираем из
// хранилища в фоне: её судьба не влияет на результат обновления.
func (s *BlogService) Update(ctx context.Context, blog *models.Blog) error {
	logger.Log.Info("Сервис: обновление блога", zap.String("blog_id", blog.ID))
	if err := validateBlog(blog); err != nil {
		return err
	}

	old, err := s.repo.GetByID(ctx, blog.ID)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, blog); err != nil {
		return err
	}

	if old.Image != blog.Image && old.ImagePublicID != "" {
		s.destroyImage(ctx, old.ImagePublicID)
	}
	return nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	logger.Log.Info("Сервис: удаление блога", zap.String("blog_id", id))
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if old.ImagePublicID != "" {
		s.destroyImage(ctx, old.ImagePublicID)
	}
	return nil
}

// destroyImage — компенсирующее действие. Ошибку фиксируем с public_id,
// чтобы осиротевшие картинки можно было убрать вручную, и не пробрасываем выше.
func (s *BlogService) destroyImage(ctx context.Context, publicID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	if err := s.images.Destroy(ctx, publicID); err != nil {
		logger.Log.Warn("Не удалось удалить картинку из хранилища",
			zap.String("public_id", publicID),
			zap.Error(err),
		)
		return
	}
	logger.Log.Info("Картинка удалена из хранилища", zap.String("public_id", publicID))
}
