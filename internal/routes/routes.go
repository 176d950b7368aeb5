package routes

import (
	"net/http"

	"botsad/internal/handlers"
	"botsad/internal/middleware"
	"botsad/internal/models"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	newsHandler *handlers.NewsHandler,
	customerHandler *handlers.CustomerHandler,
	uploadDir string,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	// Раздача загруженных превью
	router.PathPrefix(models.ImageURLPrefix).Handler(
		http.StripPrefix(models.ImageURLPrefix, http.FileServer(http.Dir(uploadDir))),
	).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	api.HandleFunc("/news", newsHandler.ListNews).Methods("GET")
	api.HandleFunc("/news/{id:[0-9]+}", newsHandler.GetNews).Methods("GET")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth)
	protected.Use(middleware.AdminFastLane)

	protected.HandleFunc("/profile", authHandler.Profile).Methods("GET")

	manager := protected.PathPrefix("/manager").Subrouter()
	manager.Use(middleware.AnyRole(models.RoleManager, models.RoleAdmin))
	manager.HandleFunc("/news", newsHandler.CreateNews).Methods("POST")
	manager.HandleFunc("/news/{id:[0-9]+}", newsHandler.UpdateNews).Methods("PUT")
	manager.HandleFunc("/news/{id:[0-9]+}", newsHandler.PatchNews).Methods("PATCH")
	manager.HandleFunc("/news/{id:[0-9]+}", newsHandler.DeleteNews).Methods("DELETE")
	manager.HandleFunc("/news/{id:[0-9]+}/image", newsHandler.UploadImage).Methods("POST")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyRole(models.RoleAdmin))
	admin.HandleFunc("/users", authHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/users", authHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id:[0-9]+}", authHandler.GetUserByID).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", authHandler.UpdateUser).Methods("PATCH")
	admin.HandleFunc("/users/{id:[0-9]+}", authHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/customers", customerHandler.ListCustomers).Methods("GET")
	admin.HandleFunc("/customers", customerHandler.CreateCustomer).Methods("POST")
	admin.HandleFunc("/customers/{id:[0-9]+}", customerHandler.GetCustomer).Methods("GET")
	admin.HandleFunc("/customers/{id:[0-9]+}", customerHandler.UpdateCustomer).Methods("PATCH")
	admin.HandleFunc("/customers/{id:[0-9]+}", customerHandler.DeleteCustomer).Methods("DELETE")
}
