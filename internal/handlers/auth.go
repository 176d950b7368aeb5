package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"botsad/internal/config"
	"botsad/internal/logger"
	"botsad/internal/middleware"
	"botsad/internal/models"
	"botsad/internal/services"
	"botsad/internal/utils"
	helpers "botsad/internal/utils/helpres"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
}

type userListResponse struct {
	Items    []*models.User `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Данные регистрации"
// @Success 201 {string} string "Пользователь успешно зарегистрирован"
// @Failure 400 {string} string "Ошибка валидации"
// @Router /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Register", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	logger.WithCtx(r.Context()).Info("Регистрация пользователя", zap.String("username", req.Username), zap.String("email", req.Email))

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		helpers.Error(w, http.StatusBadRequest, "Поля username и password обязательны")
		return
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	}

	if err := h.authService.RegisterUser(r.Context(), user, req.Password); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка регистрации пользователя", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	helpers.JSON(w, http.StatusCreated, "Пользователь успешно зарегистрирован")
}

// Login godoc
// @Summary Авторизация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "Неверный логин или пароль"
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	logger.WithCtx(r.Context()).Info("Попытка входа", zap.String("username", req.Username))

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, user, err := h.authService.LoginUser(
		r.Context(),
		req.Username,
		req.Password,
		cfg.JWTSecret,
		accessTTL,
		refreshTTL,
	)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка входа пользователя", zap.String("username", req.Username), zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	logger.WithCtx(r.Context()).Info("Вход выполнен", zap.String("username", req.Username), zap.String("role", user.Role))
	helpers.JSON(w, http.StatusOK, loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Username:     user.Username,
		FullName:     user.FullName,
		Role:         user.Role,
	})
}

// Refresh godoc
// @Summary Обновление access-токена
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "Недействительный refresh токен"
// @Router /api/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, role, tokenString, ok := h.parseRefreshToken(w, r)
	if !ok {
		return
	}

	isValid, err := h.authService.ValidateRefreshToken(r.Context(), userID, tokenString)
	if err != nil || !isValid {
		logger.WithCtx(r.Context()).Warn("Недействительный refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Недействительный refresh token")
		return
	}

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	accessToken, err := utils.GenerateToken(cfg.JWTSecret, userID, role, accessTTL, "access")
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка генерации токена", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка генерации токена")
		return
	}

	logger.WithCtx(r.Context()).Info("Токен обновлён", zap.Int("user_id", userID))
	helpers.JSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

// Logout godoc
// @Summary Выход (удаление refresh токена)
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {string} string "Выход выполнен"
// @Failure 401 {string} string "Невалидный токен"
// @Router /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _, tokenString, ok := h.parseRefreshToken(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), userID, tokenString); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка при выходе", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка при выходе")
		return
	}

	helpers.JSON(w, http.StatusOK, "Выход выполнен")
}

// parseRefreshToken достаёт и проверяет refresh-токен из заголовка.
func (h *AuthHandler) parseRefreshToken(w http.ResponseWriter, r *http.Request) (int, string, string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		logger.WithCtx(r.Context()).Warn("Отсутствует refresh token")
		helpers.Error(w, http.StatusUnauthorized, "Отсутствует refresh token")
		return 0, "", "", false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	cfg, _ := config.LoadConfig()
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		logger.WithCtx(r.Context()).Warn("Неверный или просроченный refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Неверный или просроченный refresh token")
		return 0, "", "", false
	}

	userID, ok1 := claims["user_id"].(float64)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 {
		logger.WithCtx(r.Context()).Warn("Неверный payload токена", zap.Any("claims", claims))
		helpers.Error(w, http.StatusUnauthorized, "Неверный payload токена")
		return 0, "", "", false
	}

	return int(userID), role, tokenString, true
}

// Profile godoc
// @Summary Получить данные профиля
// @Tags profile
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 401 {string} string "Нет доступа"
// @Router /api/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, fmt.Sprintf("Пользователь #%d не найден", userID))
		return
	}

	helpers.JSON(w, http.StatusOK, user)
}

// GetUsers godoc
// @Summary Список пользователей (только admin)
// @Tags admin-users
// @Security ApiKeyAuth
// @Produce json
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} userListResponse
// @Router /api/admin/users [get]
func (h *AuthHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	users, total, err := h.authService.GetUsersPaginated(r.Context(), size, (page-1)*size)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения пользователей", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения пользователей")
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	helpers.JSON(w, http.StatusOK, userListResponse{
		Items:    users,
		Total:    total,
		Page:     page,
		PageSize: size,
	})
}

// GetUserByID godoc
// @Summary Пользователь по ID (только admin)
// @Tags admin-users
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.User
// @Failure 404 {string} string "Не найдено"
// @Router /api/admin/users/{id} [get]
func (h *AuthHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	user, err := h.authService.GetUserByID(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Пользователь не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// CreateUser godoc
// @Summary Создать пользователя (только admin)
// @Tags admin-users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body createUserRequest true "Данные пользователя"
// @Success 201 {object} models.User
// @Failure 400 {string} string "Ошибка валидации"
// @Router /api/admin/users [post]
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		helpers.Error(w, http.StatusBadRequest, "Поля username и password обязательны")
		return
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Role:     req.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	if err := h.authService.CreateUser(r.Context(), user, req.Password); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка создания пользователя", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	helpers.JSON(w, http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Обновить пользователя (только admin)
// @Tags admin-users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body models.UpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} models.User
// @Failure 404 {string} string "Не найдено"
// @Router /api/admin/users/{id} [patch]
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if _, err := h.authService.GetUserByID(r.Context(), id); err != nil {
		helpers.Error(w, http.StatusNotFound, "Пользователь не найден")
		return
	}

	if err := h.authService.UpdateUser(r.Context(), id, &req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка обновления пользователя", zap.Error(err), zap.Int("user_id", id))
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения пользователя")
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Удалить пользователя (только admin)
// @Tags admin-users
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Success 204 {string} string "Удалено"
// @Failure 404 {string} string "Не найдено"
// @Router /api/admin/users/{id} [delete]
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if _, err := h.authService.GetUserByID(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Error(w, http.StatusNotFound, "Пользователь не найден")
			return
		}
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения пользователя")
		return
	}

	if err := h.authService.DeleteUser(r.Context(), id); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка удаления пользователя", zap.Error(err), zap.Int("user_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	helpers.NoContent(w)
}
