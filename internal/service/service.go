package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Dan9191/content-service/internal/config"
	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/repository"
	"github.com/Dan9191/content-service/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Stores bundles the persistence contracts the service depends on
type Stores struct {
	Users repository.UserStore
	Posts repository.PostStore
	Pages repository.PageStore
	Media repository.MediaStore
}

// Service handles business logic
type Service struct {
	stores  Stores
	log     *logrus.Logger
	config  *config.Config
	allowed map[string]bool

	dummyOnce sync.Once
	dummyHash string
}

// NewService initializes a new service
func NewService(stores Stores, log *logrus.Logger, cfg *config.Config) *Service {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[ext] = true
	}
	return &Service{stores: stores, log: log, config: cfg, allowed: allowed}
}

// CreateUser hashes password and stores a new user
func (s *Service) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
	}
	if err := s.stores.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username, "is_admin": user.IsAdmin}).Info("User created")
	return user, nil
}

// EnsureAdmin creates an administrator named username unless a user with that
// name already exists. created reports whether a new row was written; an
// existing user is returned unchanged, admin flag included.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (user *models.User, created bool, err error) {
	user, err = s.stores.Users.FindByUsername(ctx, username)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}
	user, err = s.CreateUser(ctx, username, password, true)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Authenticate checks a username and password pair. Unknown usernames and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.stores.Users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		// burn the same bcrypt time as a real check
		utils.CheckPassword(s.dummy(), password)
		s.log.Warn("Login rejected: invalid credentials")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		s.log.Warn("Login rejected: invalid credentials")
		return nil, ErrInvalidCredentials
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User logged in")
	return user, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("dummy password for timing")
	})
	return s.dummyHash
}

// Authorize loads the user bound to a session or token and requires the admin
// flag. It reads the store on every call.
func (s *Service) Authorize(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.stores.Users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// IssueToken signs an API token for user
func (s *Service) IssueToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.config.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	tokenString, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates an API token and returns the user id it was issued to
func (s *Service) ParseToken(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.config.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// Counts returns the dashboard totals
func (s *Service) Counts(ctx context.Context) (*models.Counts, error) {
	var c models.Counts
	var err error
	if c.Posts, err = s.stores.Posts.Count(ctx); err != nil {
		return nil, err
	}
	if c.Pages, err = s.stores.Pages.Count(ctx); err != nil {
		return nil, err
	}
	if c.Media, err = s.stores.Media.Count(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}
