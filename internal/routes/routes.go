package routes

import (
	"net/http"

	"portfolio/internal/config"
	"portfolio/internal/handlers"
	"portfolio/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	cfg *config.Config,
	blogHandler *handlers.BlogHandler,
	uploadHandler *handlers.UploadHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	uploadLimiter *middleware.UploadLimiter,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")
	api.HandleFunc("/cloudinary-health", healthHandler.CloudinaryHealth).Methods("GET")

	api.HandleFunc("/blogs", blogHandler.ListBlogs).Methods("GET")
	api.HandleFunc("/blogs/{id}", blogHandler.GetBlog).Methods("GET")

	api.HandleFunc("/admin/login", authHandler.Login).Methods("POST")

	// --- Защищённые cookie-сессией ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.SessionGuard(cfg))

	protected.HandleFunc("/admin/logout", authHandler.Logout).Methods("POST")
	protected.HandleFunc("/admin/profile", authHandler.Profile).Methods("GET")
	protected.HandleFunc("/admin/profile", authHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/admin/change-password", authHandler.ChangePassword).Methods("PUT")

	protected.Handle("/blogs/upload",
		uploadLimiter.Limit(http.HandlerFunc(uploadHandler.UploadImage))).Methods("POST")
	protected.HandleFunc("/blogs", blogHandler.CreateBlog).Methods("POST")
	protected.HandleFunc("/blogs/{id}", blogHandler.UpdateBlog).Methods("PUT")
	protected.HandleFunc("/blogs/{id}", blogHandler.DeleteBlog).Methods("DELETE")
}
