package app

import (
	"botsad/internal/config"
	"botsad/internal/db"
	"botsad/internal/handlers"
	"botsad/internal/repository"
	"botsad/internal/routes"
	"botsad/internal/services"
	"botsad/internal/storage"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	newsRepo := repository.NewNewsRepository(conn)
	customerRepo := repository.NewCustomerRepository(conn)

	// Сервисы
	authService := services.NewAuthService(userRepo)
	newsService := services.NewNewsService(newsRepo, store)
	customerService := services.NewCustomerService(customerRepo)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService)
	newsHandler := handlers.NewNewsHandler(newsService)
	customerHandler := handlers.NewCustomerHandler(customerService)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, authHandler, newsHandler, customerHandler, cfg.UploadDir)

	return router, nil
}
