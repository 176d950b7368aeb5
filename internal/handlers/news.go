package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"botsad/internal/logger"
	"botsad/internal/middleware"
	"botsad/internal/models"
	"botsad/internal/services"
	"botsad/internal/storage"
	helpers "botsad/internal/utils/helpres"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type NewsHandler struct {
	newsService *services.NewsService
}

func NewNewsHandler(newsService *services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

type createNewsRequest struct {
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Hashtags []models.HashtagInput `json:"hashtags"`
}

type patchNewsRequest struct {
	Title    *string                `json:"title,omitempty"`
	Content  *string                `json:"content,omitempty"`
	Hashtags *[]models.HashtagInput `json:"hashtags,omitempty"`
}

type newsListResponse struct {
	Items    []*models.News `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func pageParams(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// ListNews godoc
// @Summary Список новостей (свежие первыми)
// @Tags news
// @Produce json
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} newsListResponse
// @Router /api/news [get]
func (h *NewsHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.newsService.ListPaginated(r.Context(), size, (page-1)*size)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения новостей", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения новостей")
		return
	}
	if items == nil {
		items = []*models.News{}
	}

	helpers.JSON(w, http.StatusOK, newsListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: size,
	})
}

// GetNews godoc
// @Summary Получить новость по ID
// @Tags news
// @Produce json
// @Param id path int true "ID новости"
// @Success 200 {object} models.News
// @Failure 404 {string} string "Не найдено"
// @Router /api/news/{id} [get]
func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	news, err := h.newsService.GetByID(r.Context(), id)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Новость не найдена", zap.Int("news_id", id))
		helpers.Error(w, http.StatusNotFound, "Новость не найдена")
		return
	}

	helpers.JSON(w, http.StatusOK, news)
}

// CreateNews godoc
// @Summary Создать новость (только manager)
// @Tags manager-news
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body createNewsRequest true "Данные новости"
// @Success 201 {object} models.News
// @Failure 400 {string} string "Ошибка валидации"
// @Router /api/manager/news [post]
func (h *NewsHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	logger.WithCtx(r.Context()).Info("Запрос на создание новости")
	var req createNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при создании новости", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		helpers.Error(w, http.StatusBadRequest, "Поля title и content обязательны")
		return
	}

	news := &models.News{
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if userID, ok := r.Context().Value(middleware.ContextUserID).(int); ok {
		news.UserID = &userID
	}

	created, err := h.newsService.Create(r.Context(), news, req.Hashtags)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка создания новости", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка создания")
		return
	}

	logger.WithCtx(r.Context()).Info("Новость успешно создана", zap.Int("news_id", created.ID))
	helpers.JSON(w, http.StatusCreated, created)
}

// UpdateNews godoc
// @Summary Полное обновление новости (только manager)
// @Tags manager-news
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID новости"
// @Param input body createNewsRequest true "Новое содержимое"
// @Success 200 {object} models.News
// @Failure 404 {string} string "Не найдено"
// @Router /api/manager/news/{id} [put]
func (h *NewsHandler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	logger.WithCtx(r.Context()).Info("Запрос на полное обновление новости", zap.Int("news_id", id))

	var req createNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при обновлении новости", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		helpers.Error(w, http.StatusBadRequest, "Поля title и content обязательны")
		return
	}

	// PUT задаёт ресурс целиком: отсутствующие hashtags означают пустой набор.
	hashtags := req.Hashtags
	if hashtags == nil {
		hashtags = []models.HashtagInput{}
	}

	updated, err := h.newsService.Update(r.Context(), id, &req.Title, &req.Content, &hashtags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Error(w, http.StatusNotFound, "Новость не найдена")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка обновления новости", zap.Error(err), zap.Int("news_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления")
		return
	}

	helpers.JSON(w, http.StatusOK, updated)
}

// PatchNews godoc
// @Summary Частичное обновление новости (только manager)
// @Tags manager-news
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID новости"
// @Param input body patchNewsRequest true "Изменяемые поля"
// @Success 200 {object} models.News
// @Failure 404 {string} string "Не найдено"
// @Router /api/manager/news/{id} [patch]
func (h *NewsHandler) PatchNews(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	logger.WithCtx(r.Context()).Info("Запрос на частичное обновление новости", zap.Int("news_id", id))

	var req patchNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при обновлении новости", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		helpers.Error(w, http.StatusBadRequest, "Поле title не может быть пустым")
		return
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		helpers.Error(w, http.StatusBadRequest, "Поле content не может быть пустым")
		return
	}

	updated, err := h.newsService.Update(r.Context(), id, req.Title, req.Content, req.Hashtags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Error(w, http.StatusNotFound, "Новость не найдена")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка обновления новости", zap.Error(err), zap.Int("news_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления")
		return
	}

	helpers.JSON(w, http.StatusOK, updated)
}

// DeleteNews godoc
// @Summary Удалить новость (только manager)
// @Tags manager-news
// @Security ApiKeyAuth
// @Param id path int true "ID новости"
// @Success 204 {string} string "Удалено"
// @Failure 404 {string} string "Не найдено"
// @Router /api/manager/news/{id} [delete]
func (h *NewsHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	logger.WithCtx(r.Context()).Info("Запрос на удаление новости", zap.Int("news_id", id))

	if err := h.newsService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Error(w, http.StatusNotFound, "Новость не найдена")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка удаления новости", zap.Error(err), zap.Int("news_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	helpers.NoContent(w)
}

// UploadImage godoc
// @Summary Загрузить превью новости (только manager)
// @Tags manager-news
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID новости"
// @Param image formData file true "Файл изображения"
// @Success 200 {object} models.News
// @Failure 400 {string} string "Файл не является изображением"
// @Failure 404 {string} string "Не найдено"
// @Router /api/manager/news/{id}/image [post]
func (h *NewsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	logger.WithCtx(r.Context()).Info("Запрос на загрузку превью", zap.Int("news_id", id))

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		logger.WithCtx(r.Context()).Warn("Ошибка разбора формы при загрузке превью", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Ошибка разбора формы")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Поле image не найдено", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Поле image обязательно")
		return
	}
	defer file.Close()

	updated, err := h.newsService.UploadImage(r.Context(), id, file)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			helpers.Error(w, http.StatusBadRequest, "image: файл не является изображением")
			return
		}
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Error(w, http.StatusNotFound, "Новость не найдена")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка загрузки превью", zap.Error(err), zap.Int("news_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка загрузки превью")
		return
	}

	helpers.JSON(w, http.StatusOK, updated)
}
