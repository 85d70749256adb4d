package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/utils"

	"go.uber.org/zap"
)

var (
	// Одно сообщение и для неизвестного email, и для неверного пароля —
	// чтобы по ответу нельзя было перебирать учётные записи.
	ErrInvalidCredentials = errors.New("неверный email или пароль")

	ErrPasswordTooShort = errors.New("новый пароль должен быть не короче 8 символов")
)

type AuthService struct {
	repo repository.AdminRepo
}

func NewAuthService(repo repository.AdminRepo) *AuthService {
	return &AuthService{repo: repo}
}

// Login проверяет учётные данные и выдаёт токен сессии.
func (s *AuthService) Login(ctx context.Context, email, password, jwtSecret string, sessionTTL time.Duration) (string, *models.Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	logger.Log.Info("Попытка входа администратора (service)", zap.String("email", email))

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Администратор не найден (service)", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		logger.Log.Warn("Неверный пароль администратора (service)", zap.Int("admin_id", admin.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(jwtSecret, admin.ID, sessionTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации токена сессии", zap.Error(err))
		return "", nil, err
	}

	logger.Log.Info("Вход администратора выполнен (service)", zap.Int("admin_id", admin.ID))
	return token, admin, nil
}

func (s *AuthService) GetAdminByID(ctx context.Context, id int) (*models.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Администратор не найден по ID (service)", zap.Int("admin_id", id), zap.Error(err))
	}
	return admin, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, id int, input *models.UpdateAdminRequest) error {
	logger.Log.Info("Обновление профиля администратора (service)", zap.Int("admin_id", id))
	if input.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*input.Email))
		input.Email = &normalized
	}
	return s.repo.UpdateFields(ctx, id, input)
}

// ChangePassword меняет пароль по старому паролю и ставит уведомление в очередь
// писем — ответ клиенту отправку не ждёт.
func (s *AuthService) ChangePassword(ctx context.Context, id int, oldPassword, newPassword string) error {
	logger.Log.Info("Смена пароля администратора (service)", zap.Int("admin_id", id))

	if len(newPassword) < 8 {
		logger.Log.Warn("Слишком короткий новый пароль", zap.Int("admin_id", id))
		return ErrPasswordTooShort
	}

	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(oldPassword, admin.PasswordHash) {
		logger.Log.Warn("Старый пароль не совпадает", zap.Int("admin_id", id))
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования нового пароля", zap.Error(err), zap.Int("admin_id", id))
		return err
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	if admin.Email != "" {
		EmailQueue <- EmailJob{
			To:      []string{admin.Email},
			Subject: "Пароль изменён",
			Body: fmt.Sprintf(
				"Здравствуйте, %s!\n\nПароль вашей учётной записи был изменён %s.\nЕсли это были не вы — срочно свяжитесь с поддержкой.",
				admin.Name, time.Now().Format("02.01.2006 15:04"),
			),
		}
	}

	logger.Log.Info("Пароль администратора изменён", zap.Int("admin_id", id))
	return nil
}

// SeedDefaultAdmin создаёт учётную запись администратора при первом запуске.
func (s *AuthService) SeedDefaultAdmin(ctx context.Context, email, password, name, phone string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		logger.Log.Warn("Сидирование администратора пропущено: нет email или пароля")
		return nil
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		logger.Log.Debug("Администратор уже существует, сидирование не требуется", zap.String("email", email))
		return nil
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        phone,
		Role:         models.RoleAdmin,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		logger.Log.Error("Ошибка сидирования администратора", zap.Error(err))
		return err
	}

	logger.Log.Info("Создан администратор по умолчанию", zap.String("email", email))
	return nil
}
