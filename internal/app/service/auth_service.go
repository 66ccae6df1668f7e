package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/pkg/kakao"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"github.com/tteokbok/tteokbok-backend/pkg/redis"
	"github.com/tteokbok/tteokbok-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("wrong password entered")
	ErrKakaoUnauthorized  = errors.New("kakao token unauthorized")
)

// ValidationError 가입 입력 검증 실패. 어떤 필드가 왜 거부됐는지 메시지에 담는다.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// AuthService 인증/회원 서비스 인터페이스
type AuthService interface {
	Signup(username, password, email string) (*model.User, error)
	Signin(email, password string) (*model.User, string, error)
	KakaoSignin(ctx context.Context, accessToken string) (*model.User, string, error)
	Signout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	kakaoClient  kakao.IdentityProvider
	jwtSecret    string
	tokenExpiry  time.Duration
	redisEnabled bool
}

// NewAuthService AuthService 생성자
func NewAuthService(
	userRepo repository.UserRepository,
	kakaoClient kakao.IdentityProvider,
	jwtSecret string,
	tokenExpiry time.Duration,
	redisEnabled bool,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		kakaoClient:  kakaoClient,
		jwtSecret:    jwtSecret,
		tokenExpiry:  tokenExpiry,
		redisEnabled: redisEnabled,
	}
}

func (s *authService) Signup(username, password, email string) (*model.User, error) {
	logger.Info("Attempting user signup", map[string]interface{}{
		"email":    email,
		"username": username,
	})

	if err := util.ValidateUsername(username); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if err := util.ValidateEmail(email); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("Signup failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User signed up successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})

	return user, nil
}

func (s *authService) Signin(email, password string) (*model.User, string, error) {
	logger.Info("Signin attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Signin failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Signin failed: wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrWrongPassword
	}

	token, err := util.GenerateToken(user.ID, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User signed in successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	return user, token, nil
}

// KakaoSignin 카카오 액세스 토큰으로 로그인한다.
// 카카오 ID로 등록된 회원이 없으면 프로필을 받아 즉시 가입시킨다.
func (s *authService) KakaoSignin(ctx context.Context, accessToken string) (*model.User, string, error) {
	info, err := s.kakaoClient.GetUserInfo(ctx, accessToken)
	if err != nil {
		if errors.Is(err, kakao.ErrInvalidToken) {
			logger.Warn("Kakao signin failed: token rejected", nil)
			return nil, "", ErrKakaoUnauthorized
		}
		logger.Error("Kakao user info request failed", err, nil)
		return nil, "", err
	}

	user, err := s.userRepo.FindByKakaoID(info.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}

		kakaoID := info.ID
		user = &model.User{
			Username:        info.Properties.Nickname,
			Email:           info.KakaoAccount.Email,
			ProfileImageURL: info.Properties.ProfileImage,
			KakaoID:         &kakaoID,
		}
		if err := s.userRepo.Create(user); err != nil {
			logger.Error("Failed to create kakao user", err, map[string]interface{}{
				"kakao_id": info.ID,
			})
			return nil, "", err
		}

		logger.Info("Kakao user registered", map[string]interface{}{
			"user_id":  user.ID,
			"kakao_id": info.ID,
		})
	}

	token, err := util.GenerateToken(user.ID, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	return user, token, nil
}

// Signout 토큰을 남은 유효기간 동안 거부 목록에 올린다.
// Redis가 꺼져 있으면 서버 측 무효화 없이 성공으로 처리한다.
func (s *authService) Signout(ctx context.Context, token string) error {
	if !s.redisEnabled {
		logger.Debug("Signout without redis: skipping token blacklist", nil)
		return nil
	}

	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	return redis.BlacklistToken(ctx, token, remaining)
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
