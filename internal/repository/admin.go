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

var ErrAdminNotFound = errors.New("администратор не найден")

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

type AdminRepo interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id int) (*models.Admin, error)
	UpdateFields(ctx context.Context, id int, input *models.UpdateAdminRequest) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	logger.Log.Info("Репозиторий: создание администратора", zap.String("email", admin.Email))
	query := `
		INSERT INTO admins (email, password_hash, name, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		admin.Email,
		admin.PasswordHash,
		admin.Name,
		admin.Phone,
		admin.Role,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания администратора (repo)", zap.Error(err))
	}
	return err
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *AdminRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *AdminRepository) get(ctx context.Context, where string, arg interface{}) (*models.Admin, error) {
	query := `
		SELECT id, email, password_hash, name, phone, role,
		       login_attempts, lock_until, created_at, updated_at
		FROM admins ` + where
	var a models.Admin
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Name,
		&a.Phone,
		&a.Role,
		&a.LoginAttempts,
		&a.LockUntil,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		logger.Log.Error("Ошибка получения администратора (repo)", zap.Error(err))
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) UpdateFields(ctx context.Context, id int, input *models.UpdateAdminRequest) error {
	logger.Log.Info("Репозиторий: обновление профиля администратора", zap.Int("admin_id", id))
	query := `
		UPDATE admins
		SET name  = COALESCE($1, name),
		    phone = COALESCE($2, phone),
		    email = COALESCE($3, email),
		    updated_at = now()
		WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, input.Name, input.Phone, input.Email, id)
	if err != nil {
		logger.Log.Error("Ошибка обновления профиля (repo)", zap.Int("admin_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	logger.Log.Info("Репозиторий: смена пароля администратора", zap.Int("admin_id", id))
	tag, err := r.db.Exec(ctx,
		`UPDATE admins SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		logger.Log.Error("Ошибка смены пароля (repo)", zap.Int("admin_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}
