package services

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"botsad/internal/logger"
	"botsad/internal/models"
	"botsad/internal/storage"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// Мок-репозиторий новостей (заглушка)
type mockNewsRepo struct {
	news       map[int]*models.News
	assoc      map[int][]string // news_id -> имена хэштегов
	hashtagIDs map[string]int   // name -> id («таблица» хэштегов)
	nextNews   int
	nextTag    int

	lastHashtagsArg []string
	hashtagsTouched bool
}

func newMockNewsRepo() *mockNewsRepo {
	return &mockNewsRepo{
		news:       make(map[int]*models.News),
		assoc:      make(map[int][]string),
		hashtagIDs: make(map[string]int),
	}
}

func (m *mockNewsRepo) upsertTags(names []string) {
	for _, name := range names {
		if _, ok := m.hashtagIDs[name]; !ok {
			m.nextTag++
			m.hashtagIDs[name] = m.nextTag
		}
	}
}

func (m *mockNewsRepo) Create(_ context.Context, news *models.News, hashtags []string) (int, error) {
	m.nextNews++
	n := *news
	n.ID = m.nextNews
	m.news[n.ID] = &n

	m.lastHashtagsArg = hashtags
	m.hashtagsTouched = true
	m.upsertTags(hashtags)
	m.assoc[n.ID] = append([]string{}, hashtags...)
	return n.ID, nil
}

func (m *mockNewsRepo) Update(_ context.Context, id int, input *models.NewsUpdate) error {
	n, ok := m.news[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if input.Title != nil {
		n.Title = *input.Title
	}
	if input.Content != nil {
		n.Content = *input.Content
	}
	if input.Hashtags != nil {
		m.lastHashtagsArg = *input.Hashtags
		m.hashtagsTouched = true
		m.upsertTags(*input.Hashtags)
		m.assoc[id] = append([]string{}, *input.Hashtags...)
	}
	return nil
}

func (m *mockNewsRepo) GetByID(_ context.Context, id int) (*models.News, error) {
	n, ok := m.news[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *n
	out.Hashtags = []models.Hashtag{}
	for _, name := range m.assoc[id] {
		out.Hashtags = append(out.Hashtags, models.Hashtag{ID: m.hashtagIDs[name], Name: name})
	}
	if out.ImageFile != "" {
		out.ImageURL = models.ImageURLPrefix + out.ImageFile
	}
	return &out, nil
}

func (m *mockNewsRepo) ListPaginated(_ context.Context, limit, offset int) ([]*models.News, int, error) {
	var out []*models.News
	for id := m.nextNews; id >= 1; id-- {
		if n, ok := m.news[id]; ok {
			out = append(out, n)
		}
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *mockNewsRepo) SetImage(_ context.Context, id int, filename string) error {
	n, ok := m.news[id]
	if !ok {
		return pgx.ErrNoRows
	}
	n.ImageFile = filename
	return nil
}

func (m *mockNewsRepo) Delete(_ context.Context, id int) error {
	if _, ok := m.news[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.news, id)
	delete(m.assoc, id)
	return nil
}

// Мок-хранилище картинок
type mockImageStore struct {
	saved    int
	removed  []string
	failSave error
}

func (m *mockImageStore) Save(r io.Reader) (string, error) {
	if m.failSave != nil {
		return "", m.failSave
	}
	_, _ = io.Copy(io.Discard, r)
	m.saved++
	return "img-" + string(rune('0'+m.saved)) + ".png", nil
}

func (m *mockImageStore) Remove(filename string) error {
	m.removed = append(m.removed, filename)
	return nil
}

func tagNames(n *models.News) []string {
	names := make([]string, 0, len(n.Hashtags))
	for _, h := range n.Hashtags {
		names = append(names, h.Name)
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateNewsWithHashtags(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewNewsService(repo, &mockImageStore{})

	created, err := svc.Create(context.Background(), &models.News{
		Title:     "Цветение сакуры",
		Content:   "В оранжерее зацвела сакура",
		CreatedAt: time.Now(),
	}, []models.HashtagInput{{Name: "#сакура"}, {Name: "#весна"}, {Name: "#сакура"}})
	if err != nil {
		t.Fatalf("ошибка создания новости: %v", err)
	}

	// дубликат должен схлопнуться
	if got := tagNames(created); !equalStrings(got, []string{"#сакура", "#весна"}) {
		t.Fatalf("ожидались хэштеги [#сакура #весна], получено %v", got)
	}
	if len(repo.hashtagIDs) != 2 {
		t.Fatalf("ожидалось 2 строки хэштегов, получено %d", len(repo.hashtagIDs))
	}
}

func TestUpdateWithoutHashtagsKeepsAssociations(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewNewsService(repo, &mockImageStore{})

	created, _ := svc.Create(context.Background(), &models.News{Title: "t", Content: "c"},
		[]models.HashtagInput{{Name: "#роза"}})

	repo.hashtagsTouched = false
	title := "Новый заголовок"
	updated, err := svc.Update(context.Background(), created.ID, &title, nil, nil)
	if err != nil {
		t.Fatalf("ошибка обновления: %v", err)
	}

	if repo.hashtagsTouched {
		t.Fatal("PATCH без поля hashtags не должен трогать связи")
	}
	if got := tagNames(updated); !equalStrings(got, []string{"#роза"}) {
		t.Fatalf("связи изменились: %v", got)
	}
	if updated.Title != title {
		t.Fatalf("заголовок не обновился: %q", updated.Title)
	}
}

func TestUpdateEmptyHashtagsClears(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewNewsService(repo, &mockImageStore{})

	first, _ := svc.Create(context.Background(), &models.News{Title: "a", Content: "a"},
		[]models.HashtagInput{{Name: "#выставка"}})
	second, _ := svc.Create(context.Background(), &models.News{Title: "b", Content: "b"},
		[]models.HashtagInput{{Name: "#выставка"}})

	empty := []models.HashtagInput{}
	updated, err := svc.Update(context.Background(), first.ID, nil, nil, &empty)
	if err != nil {
		t.Fatalf("ошибка обновления: %v", err)
	}

	if len(updated.Hashtags) != 0 {
		t.Fatalf("связи не очищены: %v", tagNames(updated))
	}
	// строка хэштега должна пережить очистку
	if len(repo.hashtagIDs) != 1 {
		t.Fatalf("строки хэштегов удалены, осталось %d", len(repo.hashtagIDs))
	}
	other, _ := svc.GetByID(context.Background(), second.ID)
	if got := tagNames(other); !equalStrings(got, []string{"#выставка"}) {
		t.Fatalf("другая новость потеряла хэштег: %v", got)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewNewsService(repo, &mockImageStore{})

	created, _ := svc.Create(context.Background(), &models.News{Title: "t", Content: "c"}, nil)

	set := []models.HashtagInput{{Name: "#экскурсия"}, {Name: "#дети"}}
	if _, err := svc.Update(context.Background(), created.ID, nil, nil, &set); err != nil {
		t.Fatalf("первый вызов: %v", err)
	}
	rows := len(repo.hashtagIDs)

	updated, err := svc.Update(context.Background(), created.ID, nil, nil, &set)
	if err != nil {
		t.Fatalf("второй вызов: %v", err)
	}
	if got := tagNames(updated); !equalStrings(got, []string{"#экскурсия", "#дети"}) {
		t.Fatalf("набор изменился: %v", got)
	}
	if len(repo.hashtagIDs) != rows {
		t.Fatalf("повторный вызов создал дубликаты: было %d, стало %d", rows, len(repo.hashtagIDs))
	}
}

func TestUpdateReplacesHashtagSet(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewNewsService(repo, &mockImageStore{})

	created, _ := svc.Create(context.Background(), &models.News{Title: "t", Content: "c"},
		[]models.HashtagInput{{Name: "#старый"}})

	set := []models.HashtagInput{{Name: "#новый"}}
	updated, err := svc.Update(context.Background(), created.ID, nil, nil, &set)
	if err != nil {
		t.Fatalf("ошибка обновления: %v", err)
	}

	if got := tagNames(updated); !equalStrings(got, []string{"#новый"}) {
		t.Fatalf("ожидался ровно набор из запроса, получено %v", got)
	}
	// сам хэштег #старый не удаляется
	if _, ok := repo.hashtagIDs["#старый"]; !ok {
		t.Fatal("строка хэштега удалена вместе со связью")
	}
}

func TestUpdateUnknownID(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewNewsService(repo, &mockImageStore{})

	title := "x"
	if _, err := svc.Update(context.Background(), 42, &title, nil, nil); err == nil {
		t.Fatal("ожидалась ошибка для несуществующей новости")
	}
}

func TestDeleteRemovesImageFile(t *testing.T) {
	repo := newMockNewsRepo()
	store := &mockImageStore{}
	svc := NewNewsService(repo, store)

	created, _ := svc.Create(context.Background(), &models.News{Title: "t", Content: "c"}, nil)
	if err := repo.SetImage(context.Background(), created.ID, "preview.png"); err != nil {
		t.Fatalf("не удалось выставить превью: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}

	if len(store.removed) != 1 || store.removed[0] != "preview.png" {
		t.Fatalf("файл превью не удалён: %v", store.removed)
	}
}

func TestUploadImageReplacesOld(t *testing.T) {
	repo := newMockNewsRepo()
	store := &mockImageStore{}
	svc := NewNewsService(repo, store)

	created, _ := svc.Create(context.Background(), &models.News{Title: "t", Content: "c"}, nil)

	first, err := svc.UploadImage(context.Background(), created.ID, bytes.NewReader([]byte("png")))
	if err != nil {
		t.Fatalf("первая загрузка: %v", err)
	}
	if first.ImageURL == "" {
		t.Fatal("ссылка на превью не выставлена")
	}

	second, err := svc.UploadImage(context.Background(), created.ID, bytes.NewReader([]byte("png")))
	if err != nil {
		t.Fatalf("вторая загрузка: %v", err)
	}
	if second.ImageFile == first.ImageFile {
		t.Fatal("новое превью должно получить новое имя")
	}
	if len(store.removed) != 1 || store.removed[0] != first.ImageFile {
		t.Fatalf("старый файл не удалён: %v", store.removed)
	}
}

func TestUploadImageRejectedKeepsReference(t *testing.T) {
	repo := newMockNewsRepo()
	store := &mockImageStore{}
	svc := NewNewsService(repo, store)

	created, _ := svc.Create(context.Background(), &models.News{Title: "t", Content: "c"}, nil)
	_ = repo.SetImage(context.Background(), created.ID, "old.png")

	store.failSave = storage.ErrNotImage
	if _, err := svc.UploadImage(context.Background(), created.ID, bytes.NewReader([]byte("мусор"))); err == nil {
		t.Fatal("ожидалась ошибка валидации")
	}

	n, _ := svc.GetByID(context.Background(), created.ID)
	if n.ImageFile != "old.png" {
		t.Fatalf("ссылка на превью изменилась: %q", n.ImageFile)
	}
	if len(store.removed) != 0 {
		t.Fatalf("существующий файл тронут: %v", store.removed)
	}
}

func TestUniqueHashtagNames(t *testing.T) {
	got := uniqueHashtagNames([]models.HashtagInput{
		{Name: "#a"}, {Name: "#b"}, {Name: "#a"}, {Name: "#A"},
	})
	// регистр не нормализуется: #a и #A — разные хэштеги
	if !equalStrings(got, []string{"#a", "#b", "#A"}) {
		t.Fatalf("неверная дедупликация: %v", got)
	}
}
