package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/model"
	jwtpkg "github.com/AdarshKhare29/Karban-board/pkg/jwt"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	jwtExpire int
}

func NewAuthService(db *gorm.DB, jwtSecret string, jwtExpire int) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret, jwtExpire: jwtExpire}
}

func (s *AuthService) Register(email, name, password string) (*model.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", time.Time{}, fmt.Errorf("40001:a valid email is required")
	}
	if name == "" {
		return nil, "", time.Time{}, fmt.Errorf("40001:name is required")
	}
	if len(password) < 8 {
		return nil, "", time.Time{}, fmt.Errorf("40001:password must be at least 8 characters")
	}

	var count int64
	s.db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, "", time.Time{}, fmt.Errorf("40005:email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: email, Name: name, PasswordHash: string(hash)}
	if err := s.db.Create(user).Error; err != nil {
		return nil, "", time.Time{}, fmt.Errorf("create user: %w", err)
	}

	token, expireAt, err := jwtpkg.GenerateToken(s.jwtSecret, user.ID, s.jwtExpire)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	return user, token, expireAt, nil
}

func (s *AuthService) Login(email, password string) (*model.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", time.Time{}, fmt.Errorf("40101:invalid email or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, fmt.Errorf("40101:invalid email or password")
	}

	token, expireAt, err := jwtpkg.GenerateToken(s.jwtSecret, user.ID, s.jwtExpire)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	return &user, token, expireAt, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
