package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tech-quiz/internal/quiz"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const maxUsernameLength = 50

type Service struct {
	users quiz.UserDirectory
	cost  int
}

func NewService(users quiz.UserDirectory, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{users: users, cost: cost}
}

func (s *Service) Register(ctx context.Context, username, password string) (quiz.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLength {
		return quiz.User{}, ErrInvalidUsername
	}
	// bcrypt ignores everything past 72 bytes.
	if strings.TrimSpace(password) == "" || len(password) > 72 {
		return quiz.User{}, ErrInvalidPassword
	}

	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return quiz.User{}, quiz.ErrUserExists
	}
	if !errors.Is(err, quiz.ErrUserNotFound) {
		return quiz.User{}, &quiz.StorageError{Op: "find user", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return quiz.User{}, err
	}

	user, err := s.users.CreateUser(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, quiz.ErrUserExists) {
			return quiz.User{}, err
		}
		return quiz.User{}, &quiz.StorageError{Op: "create user", Err: err}
	}
	return user, nil
}

// Login does not reveal whether the username or the password was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (quiz.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return quiz.User{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, quiz.ErrUserNotFound) {
			return quiz.User{}, ErrInvalidCredentials
		}
		return quiz.User{}, &quiz.StorageError{Op: "find user", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return quiz.User{}, ErrInvalidCredentials
	}
	return user, nil
}
