package services

import (
	"context"
	"io"

	"botsad/internal/logger"
	"botsad/internal/models"

	"go.uber.org/zap"
)

type NewsRepo interface {
	Create(ctx context.Context, news *models.News, hashtags []string) (int, error)
	Update(ctx context.Context, id int, input *models.NewsUpdate) error
	GetByID(ctx context.Context, id int) (*models.News, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]*models.News, int, error)
	SetImage(ctx context.Context, id int, filename string) error
	Delete(ctx context.Context, id int) error
}

type ImageStore interface {
	Save(r io.Reader) (string, error)
	Remove(filename string) error
}

type NewsService struct {
	repo  NewsRepo
	store ImageStore
}

func NewNewsService(repo NewsRepo, store ImageStore) *NewsService {
	return &NewsService{repo: repo, store: store}
}

// uniqueHashtagNames схлопывает дубли, сохраняя порядок первого вхождения.
// Имена сравниваются как есть, без нормализации регистра.
func uniqueHashtagNames(input []models.HashtagInput) []string {
	seen := make(map[string]struct{}, len(input))
	names := make([]string, 0, len(input))
	for _, h := range input {
		if _, ok := seen[h.Name]; ok {
			continue
		}
		seen[h.Name] = struct{}{}
		names = append(names, h.Name)
	}
	return names
}

func (s *NewsService) Create(ctx context.Context, news *models.News, hashtags []models.HashtagInput) (*models.News, error) {
	logger.Log.Info("Сервис: создание новости", zap.String("title", news.Title), zap.Int("hashtags", len(hashtags)))

	id, err := s.repo.Create(ctx, news, uniqueHashtagNames(hashtags))
	if err != nil {
		logger.Log.Error("Сервис: ошибка создания новости", zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Сервис: новость создана", zap.Int("news_id", id))
	return s.repo.GetByID(ctx, id)
}

func (s *NewsService) ListPaginated(ctx context.Context, limit, offset int) ([]*models.News, int, error) {
	logger.Log.Debug("Сервис: список новостей (пагинация)",
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)

	items, total, err := s.repo.ListPaginated(ctx, limit, offset)
	if err != nil {
		logger.Log.Error("Сервис: ошибка получения списка новостей", zap.Error(err))
		return nil, 0, err
	}

	logger.Log.Debug("Сервис: список новостей получен",
		zap.Int("count", len(items)),
		zap.Int("total", total),
	)
	return items, total, nil
}

func (s *NewsService) GetByID(ctx context.Context, id int) (*models.News, error) {
	logger.Log.Debug("Сервис: получение новости по ID", zap.Int("news_id", id))

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Сервис: новость не найдена или ошибка выборки",
			zap.Int("news_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return n, nil
}

// Update меняет переданные поля; hashtags == nil — связи не трогаем.
func (s *NewsService) Update(ctx context.Context, id int, title, content *string, hashtags *[]models.HashtagInput) (*models.News, error) {
	logger.Log.Info("Сервис: обновление новости", zap.Int("news_id", id))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		logger.Log.Warn("Сервис: новость для обновления не найдена", zap.Int("news_id", id), zap.Error(err))
		return nil, err
	}

	input := &models.NewsUpdate{Title: title, Content: content}
	if hashtags != nil {
		names := uniqueHashtagNames(*hashtags)
		input.Hashtags = &names
	}

	if err := s.repo.Update(ctx, id, input); err != nil {
		logger.Log.Error("Сервис: ошибка обновления новости",
			zap.Int("news_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Сервис: новость обновлена", zap.Int("news_id", id))
	return s.repo.GetByID(ctx, id)
}

// Delete удаляет строку, затем явно подчищает файл превью.
func (s *NewsService) Delete(ctx context.Context, id int) error {
	logger.Log.Info("Сервис: удаление новости", zap.Int("news_id", id))

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Сервис: новость для удаления не найдена", zap.Int("news_id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Log.Error("Сервис: ошибка удаления новости",
			zap.Int("news_id", id),
			zap.Error(err),
		)
		return err
	}

	if n.ImageFile != "" {
		if err := s.store.Remove(n.ImageFile); err != nil {
			logger.Log.Error("Сервис: не удалось удалить файл превью", zap.String("filename", n.ImageFile), zap.Error(err))
		}
	}

	logger.Log.Info("Сервис: новость удалена", zap.Int("news_id", id))
	return nil
}

// UploadImage валидирует и сохраняет новое превью, заменяя старое.
// При ошибке записи в БД свежий файл убирается — сирот не оставляем.
func (s *NewsService) UploadImage(ctx context.Context, id int, payload io.Reader) (*models.News, error) {
	logger.Log.Info("Сервис: загрузка превью", zap.Int("news_id", id))

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Сервис: новость для загрузки превью не найдена", zap.Int("news_id", id), zap.Error(err))
		return nil, err
	}

	filename, err := s.store.Save(payload)
	if err != nil {
		logger.Log.Warn("Сервис: превью отклонено", zap.Int("news_id", id), zap.Error(err))
		return nil, err
	}

	if err := s.repo.SetImage(ctx, id, filename); err != nil {
		logger.Log.Error("Сервис: ошибка сохранения ссылки на превью", zap.Int("news_id", id), zap.Error(err))
		_ = s.store.Remove(filename)
		return nil, err
	}

	if n.ImageFile != "" && n.ImageFile != filename {
		if err := s.store.Remove(n.ImageFile); err != nil {
			logger.Log.Error("Сервис: не удалось удалить старое превью", zap.String("filename", n.ImageFile), zap.Error(err))
		}
	}

	logger.Log.Info("Сервис: превью обновлено", zap.Int("news_id", id), zap.String("filename", filename))
	return s.repo.GetByID(ctx, id)
}
