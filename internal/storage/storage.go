package storage

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"

	// регистрация декодеров для image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"botsad/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotImage — полезная нагрузка не декодируется как картинка.
var ErrNotImage = errors.New("файл не является изображением")

// LocalStorage хранит превью новостей на локальном диске.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{dir: dir}, nil
}

// Save проверяет, что payload — настоящая картинка (по содержимому,
// а не по расширению), и кладёт её под уникальным именем.
// Возвращает имя файла внутри каталога хранилища.
func (s *LocalStorage) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logger.Log.Warn("Загруженный файл не распознан как изображение", zap.Error(err))
		return "", ErrNotImage
	}

	filename := uuid.NewString() + "." + format
	fullPath := filepath.Join(s.dir, filename)

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		logger.Log.Error("Ошибка записи файла изображения", zap.String("filepath", fullPath), zap.Error(err))
		return "", err
	}

	logger.Log.Info("Изображение сохранено", zap.String("filename", filename), zap.String("format", format))
	return filename, nil
}

// Remove удаляет файл; отсутствие файла ошибкой не считается.
func (s *LocalStorage) Remove(filename string) error {
	if filename == "" {
		return nil
	}
	fullPath := filepath.Join(s.dir, filename)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		logger.Log.Error("Ошибка удаления файла изображения", zap.String("filepath", fullPath), zap.Error(err))
		return err
	}
	return nil
}

// Dir — корень хранилища (для раздачи статикой).
func (s *LocalStorage) Dir() string {
	return s.dir
}
