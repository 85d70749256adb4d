package repository

import (
	"context"
	"errors"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrBlogNotFound = errors.New("блог не найден")

type BlogRepository struct {
	db *pgxpool.Pool
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{db: db}
}

type BlogRepo interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]*models.Blog, int, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id string) error
}

// Создание записи блога
func (r *BlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	logger.Log.Info("Репозиторий: создание блога", zap.String("title", blog.Title))
	query := `
		INSERT INTO blogs (type, author, profession, title, description, date, image, image_public_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		blog.Type,
		blog.Author,
		blog.Profession,
		blog.Title,
		blog.Description,
		blog.Date,
		blog.Image,
		blog.ImagePublicID,
	).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания блога (repo)", zap.Error(err))
	}
	return err
}

// Получение по ID
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	query := `
		SELECT id::text, type, author, profession, title, description, date,
		       image, image_public_id, created_at, updated_at
		FROM blogs WHERE id = $1`
	var b models.Blog
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Type,
		&b.Author,
		&b.Profession,
		&b.Title,
		&b.Description,
		&b.Date,
		&b.Image,
		&b.ImagePublicID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlogNotFound
		}
		logger.Log.Error("Ошибка получения блога по ID (repo)", zap.String("blog_id", id), zap.Error(err))
		return nil, err
	}
	return &b, nil
}

// Список по дате создания (новые первыми). Общее количество берётся оконной
// функцией из того же запроса, чтобы total и страница были из одного снимка.
func (r *BlogRepository) ListPaginated(ctx context.Context, limit, offset int) ([]*models.Blog, int, error) {
	query := `
		SELECT id::text, type, author, profession, title, description, date,
		       image, image_public_id, created_at, updated_at,
		       COUNT(*) OVER() AS total
		FROM blogs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		logger.Log.Error("Ошибка получения списка блогов (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var blogs []*models.Blog
	var total int
	for rows.Next() {
		var b models.Blog
		if err := rows.Scan(
			&b.ID,
			&b.Type,
			&b.Author,
			&b.Profession,
			&b.Title,
			&b.Description,
			&b.Date,
			&b.Image,
			&b.ImagePublicID,
			&b.CreatedAt,
			&b.UpdatedAt,
			&total,
		); err != nil {
			logger.Log.Error("Ошибка сканирования блога (repo)", zap.Error(err))
			return nil, 0, err
		}
		blogs = append(blogs, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Страница за пределами данных: строк нет, total добираем отдельно.
	if len(blogs) == 0 {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&total); err != nil {
			logger.Log.Error("Ошибка подсчёта блогов (repo)", zap.Error(err))
			return nil, 0, err
		}
	}

	return blogs, total, nil
}

// Полная замена записи
func (r *BlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	logger.Log.Info("Репозиторий: обновление блога", zap.String("blog_id", blog.ID))
	query := `
		UPDATE blogs
		SET type = $1, author = $2, profession = $3, title = $4, description = $5,
		    date = $6, image = $7, image_public_id = $8, updated_at = now()
		WHERE id = $9
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		blog.Type,
		blog.Author,
		blog.Profession,
		blog.Title,
		blog.Description,
		blog.Date,
		blog.Image,
		blog.ImagePublicID,
		blog.ID,
	).Scan(&blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBlogNotFound
		}
		logger.Log.Error("Ошибка обновления блога (repo)", zap.String("blog_id", blog.ID), zap.Error(err))
	}
	return err
}

// Удаление
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	logger.Log.Info("Репозиторий: удаление блога", zap.String("blog_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления блога (repo)", zap.String("blog_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}
