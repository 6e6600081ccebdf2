package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mycomentor/pkg/jwt"
	"mycomentor/pkg/kvstore"
	"mycomentor/pkg/logger"
	"mycomentor/services/auth/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "user-123"
	}
	return args.Error(0)
}

func (m *mockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func newAuthUseCase(repo *mockUserRepository, kv kvstore.Store) AuthUseCase {
	return NewAuthUseCase(repo, jwt.NewService("test-secret"), nil, nil, kv, logger.New())
}

func TestRegister_Success(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "nimal@example.com").Return(nil, errors.New("not found"))
	repo.On("GetByUsername", "nimal").Return(nil, errors.New("not found"))
	repo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	user, token, err := uc.Register("Nimal Perera", "nimal@example.com", "nimal", "secret123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Nimal Perera", user.FullName)
	assert.Equal(t, entity.RoleGrower, user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.Password)
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "taken@example.com").Return(&entity.User{ID: "u1"}, nil)

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	_, _, err := uc.Register("Someone", "taken@example.com", "someone", "secret123")

	assert.EqualError(t, err, "user with this email already exists")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "new@example.com").Return(nil, errors.New("not found"))
	repo.On("GetByUsername", "taken").Return(&entity.User{ID: "u1"}, nil)

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	_, _, err := uc.Register("Someone", "new@example.com", "taken", "secret123")

	assert.EqualError(t, err, "username already taken")
}

func TestLogin_Success(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "nimal@example.com").Return(&entity.User{
		ID:       "user-123",
		Email:    "nimal@example.com",
		Password: string(hashed),
		Role:     entity.RoleGrower,
		IsActive: true,
	}, nil)

	kv := kvstore.NewMemoryStore()
	kv.Set(context.Background(), "just_logged_out:user-123", "true")

	uc := newAuthUseCase(repo, kv)

	user, token, err := uc.Login("nimal@example.com", "secret123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.Password)

	// The logout marker is cleared on login
	_, err = kv.Get(context.Background(), "just_logged_out:user-123")
	assert.Equal(t, kvstore.ErrNotFound, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "nimal@example.com").Return(&entity.User{
		ID:       "user-123",
		Password: string(hashed),
		IsActive: true,
	}, nil)

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	_, _, err := uc.Login("nimal@example.com", "wrong")

	assert.EqualError(t, err, "invalid credentials")
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "nobody@example.com").Return(nil, errors.New("not found"))

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	_, _, err := uc.Login("nobody@example.com", "secret123")

	assert.EqualError(t, err, "invalid credentials")
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "old@example.com").Return(&entity.User{
		ID:       "user-123",
		Password: string(hashed),
		IsActive: false,
	}, nil)

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	_, _, err := uc.Login("old@example.com", "secret123")

	assert.EqualError(t, err, "account is deactivated")
}

func TestLogout_SetsFlag(t *testing.T) {
	repo := new(mockUserRepository)
	kv := kvstore.NewMemoryStore()

	uc := newAuthUseCase(repo, kv)

	assert.NoError(t, uc.Logout("user-123"))

	value, err := kv.Get(context.Background(), "just_logged_out:user-123")
	assert.NoError(t, err)
	assert.Equal(t, "true", value)
}

func TestUpdateProfile(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByID", "user-123").Return(&entity.User{
		ID:       "user-123",
		FullName: "Old Name",
		Username: "oldname",
	}, nil)
	repo.On("GetByUsername", "newname").Return(nil, errors.New("not found"))
	repo.On("Update", mock.AnythingOfType("*entity.User")).Return(nil)

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	user, err := uc.UpdateProfile("user-123", "New Name", "newname")

	assert.NoError(t, err)
	assert.Equal(t, "New Name", user.FullName)
	assert.Equal(t, "newname", user.Username)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByID", "user-123").Return(&entity.User{ID: "user-123", Username: "oldname"}, nil)
	repo.On("GetByUsername", "taken").Return(&entity.User{ID: "other"}, nil)

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	_, err := uc.UpdateProfile("user-123", "", "taken")

	assert.EqualError(t, err, "username already taken")
}

func TestRequestPasswordReset_StoresCode(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "nimal@example.com").Return(&entity.User{ID: "user-123", Email: "nimal@example.com"}, nil)

	kv := kvstore.NewMemoryStore()
	uc := newAuthUseCase(repo, kv)

	err := uc.RequestPasswordReset("nimal@example.com")
	assert.NoError(t, err)

	stored, err := kv.Get(context.Background(), "reset_code:user-123")
	assert.NoError(t, err)

	code, issuedAt, ok := parseResetCode(stored)
	assert.True(t, ok)
	assert.Len(t, code, 6)
	assert.WithinDuration(t, time.Now(), issuedAt, 5*time.Second)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "ghost@example.com").Return(nil, errors.New("not found"))

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	err := uc.RequestPasswordReset("ghost@example.com")
	assert.EqualError(t, err, "no account with this email")
}

func TestResetPassword_Success(t *testing.T) {
	repo := new(mockUserRepository)
	user := &entity.User{ID: "user-123", Email: "nimal@example.com", Password: "old-hash"}
	repo.On("GetByEmail", "nimal@example.com").Return(user, nil)
	repo.On("Update", mock.AnythingOfType("*entity.User")).Return(nil)

	kv := kvstore.NewMemoryStore()
	uc := newAuthUseCase(repo, kv)

	assert.NoError(t, uc.RequestPasswordReset("nimal@example.com"))
	stored, _ := kv.Get(context.Background(), "reset_code:user-123")
	code, _, _ := parseResetCode(stored)

	err := uc.ResetPassword("nimal@example.com", code, "brand-new-pass")
	assert.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("brand-new-pass")))
	repo.AssertExpectations(t)

	// Code is single use
	_, err = kv.Get(context.Background(), "reset_code:user-123")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
	err = uc.ResetPassword("nimal@example.com", code, "another-pass")
	assert.EqualError(t, err, "invalid or expired reset code")
}

func TestResetPassword_WrongCode(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "nimal@example.com").Return(&entity.User{ID: "user-123", Email: "nimal@example.com"}, nil)

	kv := kvstore.NewMemoryStore()
	uc := newAuthUseCase(repo, kv)

	assert.NoError(t, uc.RequestPasswordReset("nimal@example.com"))

	err := uc.ResetPassword("nimal@example.com", "000000x", "brand-new-pass")
	assert.EqualError(t, err, "invalid or expired reset code")
}

func TestResetPassword_ExpiredCode(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "nimal@example.com").Return(&entity.User{ID: "user-123", Email: "nimal@example.com"}, nil)

	kv := kvstore.NewMemoryStore()
	issued := time.Now().Add(-16 * time.Minute).Unix()
	kv.Set(context.Background(), "reset_code:user-123", fmt.Sprintf("123456:%d", issued))

	uc := newAuthUseCase(repo, kv)

	err := uc.ResetPassword("nimal@example.com", "123456", "brand-new-pass")
	assert.EqualError(t, err, "invalid or expired reset code")
}

func TestResetPassword_NoCodeIssued(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "nimal@example.com").Return(&entity.User{ID: "user-123", Email: "nimal@example.com"}, nil)

	uc := newAuthUseCase(repo, kvstore.NewMemoryStore())

	err := uc.ResetPassword("nimal@example.com", "123456", "brand-new-pass")
	assert.EqualError(t, err, "invalid or expired reset code")
}
