package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"botsad/internal/models"
	"botsad/internal/utils"
)

// Мок-репозиторий (заглушка)
type mockUserRepo struct {
	users    map[string]*models.User
	lastUser *models.User
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	_, exists := m.users[username]
	return exists, nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	m.users[user.Username] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetAllUsersPaginated(_ context.Context, limit, offset int) ([]*models.User, int, error) {
	return nil, len(m.users), nil
}

func (m *mockUserRepo) UpdateUserFields(_ context.Context, id int, input *models.UpdateUserRequest) error {
	return nil
}

func (m *mockUserRepo) DeleteUserByID(_ context.Context, id int) error {
	for name, u := range m.users {
		if u.ID == id {
			delete(m.users, name)
		}
	}
	return nil
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID int, token string) error {
	return nil
}
func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID int, token string) (bool, error) {
	return true, nil
}
func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID int, token string) error {
	return nil
}

func TestRegisterUser(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		FullName: "Тестовый Пользователь",
	}

	err := service.RegisterUser(context.Background(), user, "secret")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if repo.lastUser == nil || repo.lastUser.PasswordHash == "" {
		t.Fatal("пароль не захеширован или пользователь не сохранён")
	}
	if repo.lastUser.Role != models.RoleUser {
		t.Fatalf("публичная регистрация должна давать роль user, получено %q", repo.lastUser.Role)
	}
}

func TestCreateUserWithRole(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	user := &models.User{Username: "manager1", Role: models.RoleManager}
	if err := service.CreateUser(context.Background(), user, "secret"); err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}
	if repo.lastUser.Role != models.RoleManager {
		t.Fatalf("роль не сохранилась: %q", repo.lastUser.Role)
	}

	bad := &models.User{Username: "broken", Role: "superuser"}
	if err := service.CreateUser(context.Background(), bad, "secret"); err == nil {
		t.Fatal("ожидалась ошибка для недопустимой роли")
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	// создаём пользователя вручную
	hashed, _ := utils.HashPassword("secret")
	repo.users["testuser"] = &models.User{
		ID:           1,
		Username:     "testuser",
		PasswordHash: hashed,
		Role:         models.RoleManager,
	}

	access, refresh, user, err := service.LoginUser(context.Background(), "testuser", "secret", "mysecret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("ошибка логина: %v", err)
	}

	if access == "" || refresh == "" {
		t.Fatal("токены не сгенерированы")
	}
	if user.Role != models.RoleManager {
		t.Fatalf("роль не вернулась: %q", user.Role)
	}
}

func TestLoginUser_Fail(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	_, _, _, err := service.LoginUser(context.Background(), "unknown", "pass", "secret", time.Minute, time.Hour)
	if err == nil {
		t.Fatal("ожидалась ошибка при логине несуществующего пользователя")
	}
}
