package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"mycomentor/pkg/jwt"
	"mycomentor/pkg/kvstore"
	"mycomentor/pkg/logger"
	"mycomentor/pkg/queue"
	"mycomentor/pkg/s3"
	"mycomentor/services/auth/internal/entity"
	"mycomentor/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

const (
	flagTimeout = 5 * time.Second

	// Reset codes expire after this window; the issue time is stored with
	// the code so expiry works on any kvstore backend.
	resetCodeTTL = 15 * time.Minute
)

type AuthUseCase interface {
	Register(fullName, email, username, password string) (*entity.User, string, error)
	Login(email, password string) (*entity.User, string, error)
	Logout(userID string) error
	GetUser(userID string) (*entity.User, error)
	UpdateProfile(userID, fullName, username string) (*entity.User, error)
	UploadAvatar(userID string, fileReader io.Reader, fileKey string, contentType string) (*entity.User, error)
	RequestPasswordReset(email string) error
	ResetPassword(email, code, newPassword string) error
}

type authUseCase struct {
	userRepo    persistent.UserRepository
	jwtService  *jwt.Service
	s3Client    *s3.Client
	queueClient *queue.Client
	kv          kvstore.Store
	logger      *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	s3Client *s3.Client,
	queueClient *queue.Client,
	kv kvstore.Store,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:    userRepo,
		jwtService:  jwtService,
		s3Client:    s3Client,
		queueClient: queueClient,
		kv:          kv,
		logger:      logger,
	}
}

func (uc *authUseCase) Register(fullName, email, username, password string) (*entity.User, string, error) {
	_, err := uc.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", fmt.Errorf("user with this email already exists")
	}

	_, err = uc.userRepo.GetByUsername(username)
	if err == nil {
		return nil, "", fmt.Errorf("username already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	user := &entity.User{
		FullName: fullName,
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		Role:     entity.RoleGrower,
		IsActive: true,
	}

	if err := uc.userRepo.Create(user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, "", fmt.Errorf("failed to create user")
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	// Greet the new grower through the notification service
	if uc.queueClient != nil {
		go func() {
			task := map[string]interface{}{
				"type":      queue.TaskWelcome,
				"user_id":   user.ID,
				"full_name": user.FullName,
			}
			if err := uc.queueClient.PublishAlertTask(task); err != nil {
				uc.logger.Error("Failed to publish welcome task for user %s: %v", user.ID, err)
			}
		}()
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	if !user.IsActive {
		return nil, "", fmt.Errorf("account is deactivated")
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	// A fresh login clears the logout marker
	if uc.kv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
		defer cancel()
		if err := uc.kv.Delete(ctx, fmt.Sprintf("just_logged_out:%s", user.ID)); err != nil {
			uc.logger.Warn("Failed to clear logout flag for user %s: %v", user.ID, err)
		}
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Logout(userID string) error {
	if uc.kv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	if err := uc.kv.Set(ctx, fmt.Sprintf("just_logged_out:%s", userID), "true"); err != nil {
		uc.logger.Warn("Failed to set logout flag for user %s: %v", userID, err)
		return fmt.Errorf("failed to log out")
	}
	return nil
}

func (uc *authUseCase) GetUser(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) UpdateProfile(userID, fullName, username string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	if username != "" && username != user.Username {
		if _, err := uc.userRepo.GetByUsername(username); err == nil {
			return nil, fmt.Errorf("username already taken")
		}
		user.Username = username
	}
	if fullName != "" {
		user.FullName = fullName
	}

	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update user: %v", err)
		return nil, fmt.Errorf("failed to update profile")
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) RequestPasswordReset(email string) error {
	if uc.kv == nil {
		return fmt.Errorf("password reset unavailable")
	}

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("no account with this email")
	}

	code, err := generateResetCode()
	if err != nil {
		uc.logger.Error("Failed to generate reset code: %v", err)
		return fmt.Errorf("failed to send reset code")
	}

	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	value := fmt.Sprintf("%s:%d", code, time.Now().Unix())
	if err := uc.kv.Set(ctx, fmt.Sprintf("reset_code:%s", user.ID), value); err != nil {
		uc.logger.Error("Failed to store reset code for user %s: %v", user.ID, err)
		return fmt.Errorf("failed to send reset code")
	}

	// Delivery is out of band; operators relay the code from the log.
	uc.logger.Info("Password reset code issued for user %s (%s)", user.ID, email)
	return nil
}

func (uc *authUseCase) ResetPassword(email, code, newPassword string) error {
	if uc.kv == nil {
		return fmt.Errorf("password reset unavailable")
	}

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("invalid or expired reset code")
	}

	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	key := fmt.Sprintf("reset_code:%s", user.ID)
	stored, err := uc.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("invalid or expired reset code")
	}

	storedCode, issuedAt, ok := parseResetCode(stored)
	if !ok || storedCode != code || time.Since(issuedAt) > resetCodeTTL {
		return fmt.Errorf("invalid or expired reset code")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return fmt.Errorf("failed to reset password")
	}

	user.Password = string(hashedPassword)
	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update password for user %s: %v", user.ID, err)
		return fmt.Errorf("failed to reset password")
	}

	// Codes are single use
	if err := uc.kv.Delete(ctx, key); err != nil {
		uc.logger.Warn("Failed to clear reset code for user %s: %v", user.ID, err)
	}

	return nil
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func parseResetCode(value string) (code string, issuedAt time.Time, ok bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return "", time.Time{}, false
	}
	unix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", time.Time{}, false
	}
	return parts[0], time.Unix(unix, 0), true
}

func (uc *authUseCase) UploadAvatar(userID string, fileReader io.Reader, fileKey string, contentType string) (*entity.User, error) {
	avatarURL, err := uc.s3Client.UploadFile(fileKey, fileReader, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar: %v", err)
		return nil, fmt.Errorf("failed to upload avatar")
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	user.AvatarURL = avatarURL
	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update user: %v", err)
		return nil, fmt.Errorf("failed to update user")
	}

	user.Password = ""
	return user, nil
}
