package storage

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"botsad/internal/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("не удалось сгенерировать png: %v", err)
	}
	return buf.Bytes()
}

func TestSaveValidImage(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("ошибка создания хранилища: %v", err)
	}

	filename, err := store.Save(bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	if !strings.HasSuffix(filename, ".png") {
		t.Fatalf("расширение должно соответствовать формату, получено %q", filename)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), filename)); err != nil {
		t.Fatalf("файл не записан: %v", err)
	}
}

func TestSaveNotImage(t *testing.T) {
	store, _ := NewLocalStorage(t.TempDir())

	_, err := store.Save(strings.NewReader("это не картинка"))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("ожидалась ErrNotImage, получено %v", err)
	}

	// ничего не должно остаться на диске
	entries, _ := os.ReadDir(store.Dir())
	if len(entries) != 0 {
		t.Fatalf("после отказа в каталоге остались файлы: %d", len(entries))
	}
}

func TestRemove(t *testing.T) {
	store, _ := NewLocalStorage(t.TempDir())

	filename, err := store.Save(bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("ошибка сохранения: %v", err)
	}

	if err := store.Remove(filename); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), filename)); !os.IsNotExist(err) {
		t.Fatal("файл не удалён")
	}

	// повторное удаление и пустое имя — не ошибка
	if err := store.Remove(filename); err != nil {
		t.Fatalf("удаление отсутствующего файла: %v", err)
	}
	if err := store.Remove(""); err != nil {
		t.Fatalf("удаление пустого имени: %v", err)
	}
}
