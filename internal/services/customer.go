package services

import (
	"context"

	"botsad/internal/logger"
	"botsad/internal/models"

	"go.uber.org/zap"
)

type CustomerRepo interface {
	Create(ctx context.Context, c *models.Customer) (int, error)
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]*models.Customer, int, error)
	UpdateFields(ctx context.Context, id int, input *models.UpdateCustomerRequest) error
	Delete(ctx context.Context, id int) error
}

type CustomerService struct {
	repo CustomerRepo
}

func NewCustomerService(repo CustomerRepo) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	logger.Log.Info("Сервис: создание карточки посетителя", zap.String("full_name", c.FullName))

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		logger.Log.Error("Сервис: ошибка создания карточки", zap.Error(err))
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Сервис: посетитель не найден", zap.Int("customer_id", id), zap.Error(err))
	}
	return c, err
}

func (s *CustomerService) ListPaginated(ctx context.Context, limit, offset int) ([]*models.Customer, int, error) {
	return s.repo.ListPaginated(ctx, limit, offset)
}

func (s *CustomerService) Update(ctx context.Context, id int, input *models.UpdateCustomerRequest) (*models.Customer, error) {
	logger.Log.Info("Сервис: обновление карточки посетителя", zap.Int("customer_id", id))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, id, input); err != nil {
		logger.Log.Error("Сервис: ошибка обновления карточки", zap.Int("customer_id", id), zap.Error(err))
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) Delete(ctx context.Context, id int) error {
	logger.Log.Info("Сервис: удаление карточки посетителя", zap.Int("customer_id", id))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
