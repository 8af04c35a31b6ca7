// Package auth covers registration, login and token verification for
// the backend. Users live in a flat JSON file.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tiffinbox/internal/storage"
)

var (
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Service struct {
	mu       sync.Mutex
	path     string
	users    []User
	byEmail  map[string]int
	secret   []byte
	tokenTTL time.Duration
}

func NewService(path, secret string) (*Service, error) {
	users, err := storage.ReadSlice[User](path)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	s := &Service{
		path:     path,
		users:    users,
		byEmail:  make(map[string]int, len(users)),
		secret:   []byte(secret),
		tokenTTL: 24 * time.Hour,
	}
	for i := range users {
		s.byEmail[strings.ToLower(users[i].Email)] = i
	}
	return s, nil
}

// Register creates a user and returns it with a fresh token.
func (s *Service) Register(name, email, password string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || len(password) < 6 {
		return User{}, "", errors.New("name, email and a password of at least 6 characters are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return User{}, "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}
	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "customer",
		CreatedAt:    time.Now().UTC(),
	}
	s.users = append(s.users, u)
	s.byEmail[email] = len(s.users) - 1
	if err := storage.WriteSlice(s.path, s.users); err != nil {
		return User{}, "", fmt.Errorf("save users: %w", err)
	}

	token, err := s.issueToken(u)
	if err != nil {
		return User{}, "", err
	}
	return u, token, nil
}

func (s *Service) Login(email, password string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	i, ok := s.byEmail[email]
	var u User
	if ok {
		u = s.users[i]
	}
	s.mu.Unlock()
	if !ok {
		return User{}, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, "", ErrInvalidCredentials
	}
	token, err := s.issueToken(u)
	if err != nil {
		return User{}, "", err
	}
	return u, token, nil
}

func (s *Service) issueToken(u User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the user ID a valid token was issued for.
func (s *Service) VerifyToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
