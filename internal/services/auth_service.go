package services

import (
	"database/sql"
	"errors"
	"time"

	"drwheels/internal/domain"
	"drwheels/internal/repos"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl}
}

func (s *AuthService) Register(email, password, name string) (*domain.User, string, error) {
	exists, err := s.Users.EmailExists(email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", conflict("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(hash),
		Role:  domain.RoleUser,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}

	tok, err := s.Token(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login deliberately returns the same error for unknown email and wrong
// password.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.Token(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) Token(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.TTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Verify resolves a bearer token to its user. Expiry is checked by the
// jwt library during Parse.
func (s *AuthService) Verify(tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, &DomainError{Kind: ErrUnauthorized, Message: "Token is not valid"}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &DomainError{Kind: ErrUnauthorized, Message: "Token is not valid"}
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, &DomainError{Kind: ErrUnauthorized, Message: "Token is not valid"}
	}
	u, err := s.Users.ByID(sub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &DomainError{Kind: ErrUnauthorized, Message: "User not found"}
		}
		return nil, err
	}
	return u, nil
}
