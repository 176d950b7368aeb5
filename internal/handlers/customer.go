package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"botsad/internal/logger"
	"botsad/internal/models"
	"botsad/internal/services"
	helpers "botsad/internal/utils/helpres"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

type createCustomerRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Note     string `json:"note"`
}

type customerListResponse struct {
	Items    []*models.Customer `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// ListCustomers godoc
// @Summary Список посетителей (только admin)
// @Tags admin-customers
// @Security ApiKeyAuth
// @Produce json
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} customerListResponse
// @Router /api/admin/customers [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.customerService.ListPaginated(r.Context(), size, (page-1)*size)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения посетителей", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения посетителей")
		return
	}
	if items == nil {
		items = []*models.Customer{}
	}

	helpers.JSON(w, http.StatusOK, customerListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: size,
	})
}

// GetCustomer godoc
// @Summary Посетитель по ID (только admin)
// @Tags admin-customers
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID посетителя"
// @Success 200 {object} models.Customer
// @Failure 404 {string} string "Не найдено"
// @Router /api/admin/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	c, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Посетитель не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// CreateCustomer godoc
// @Summary Создать карточку посетителя (только admin)
// @Tags admin-customers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body createCustomerRequest true "Данные посетителя"
// @Success 201 {object} models.Customer
// @Failure 400 {string} string "Ошибка валидации"
// @Router /api/admin/customers [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if strings.TrimSpace(req.FullName) == "" {
		helpers.Error(w, http.StatusBadRequest, "Поле full_name обязательно")
		return
	}

	created, err := h.customerService.Create(r.Context(), &models.Customer{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Note:     req.Note,
	})
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка создания карточки посетителя", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка создания")
		return
	}

	helpers.JSON(w, http.StatusCreated, created)
}

// UpdateCustomer godoc
// @Summary Обновить карточку посетителя (только admin)
// @Tags admin-customers
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID посетителя"
// @Param input body models.UpdateCustomerRequest true "Изменяемые поля"
// @Success 200 {object} models.Customer
// @Failure 404 {string} string "Не найдено"
// @Router /api/admin/customers/{id} [patch]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	updated, err := h.customerService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Error(w, http.StatusNotFound, "Посетитель не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка обновления карточки посетителя", zap.Error(err), zap.Int("customer_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления")
		return
	}

	helpers.JSON(w, http.StatusOK, updated)
}

// DeleteCustomer godoc
// @Summary Удалить карточку посетителя (только admin)
// @Tags admin-customers
// @Security ApiKeyAuth
// @Param id path int true "ID посетителя"
// @Success 204 {string} string "Удалено"
// @Failure 404 {string} string "Не найдено"
// @Router /api/admin/customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.customerService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			helpers.Error(w, http.StatusNotFound, "Посетитель не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка удаления карточки посетителя", zap.Error(err), zap.Int("customer_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	helpers.NoContent(w)
}
