// backend/internal/auth/service.go
package auth

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var (
	ErrEmptyStudent = errors.New("auth: student name required")
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrEmptySecret  = errors.New("auth: signing secret must not be empty")
)

// Service is the identity stub: any named student gets a signed token. There
// are no stored accounts or passwords.
type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewService refuses an empty secret: an empty HMAC key lets anyone mint
// tokens for any student.
func NewService(jwtSecret string, ttl time.Duration) (*Service, error) {
	if jwtSecret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

func (s *Service) Login(student string) (string, error) {
	student = strings.TrimSpace(student)
	if student == "" {
		return "", ErrEmptyStudent
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"student": student,
		"exp":     s.now().Add(s.ttl).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return tokenString, nil
}

// Parse validates a token and returns the student it was issued to.
func (s *Service) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", errors.Wrap(ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	student, ok := (*claims)["student"].(string)
	if !ok || student == "" {
		return "", ErrInvalidToken
	}
	return student, nil
}
