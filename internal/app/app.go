package app

import (
	"context"

	"portfolio/internal/config"
	"portfolio/internal/db"
	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/repository"
	"portfolio/internal/routes"
	"portfolio/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(context.Background(), conn); err != nil {
		return nil, err
	}

	// Репозитории
	blogRepo := repository.NewBlogRepository(conn)
	adminRepo := repository.NewAdminRepository(conn)

	// Сервисы
	cloudinaryService := services.NewCloudinaryService(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	blogService := services.NewBlogService(blogRepo, cloudinaryService)
	authService := services.NewAuthService(adminRepo)
	emailService := services.NewEmailService(cfg)

	// Администратор по умолчанию — только если его ещё нет
	if err := authService.SeedDefaultAdmin(
		context.Background(),
		cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, cfg.AdminPhone,
	); err != nil {
		return nil, err
	}

	// Воркеры очереди писем
	for i := 0; i < 3; i++ {
		services.StartEmailWorker(emailService)
	}

	// Хендлеры
	blogHandler := handlers.NewBlogHandler(blogService)
	uploadHandler := handlers.NewUploadHandler(cloudinaryService)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	healthHandler := handlers.NewHealthHandler(conn, cloudinaryService)

	uploadLimiter := middleware.NewUploadLimiter(cfg.UploadMaxConcurrency)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg, blogHandler, uploadHandler, authHandler, healthHandler, uploadLimiter)

	return router, nil
}
