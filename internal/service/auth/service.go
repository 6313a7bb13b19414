package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-api/internal/email"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const bcryptCost = 12

type AuthService interface {
	SignUp(ctx context.Context, req *model.SignUpRequest) (*model.TokenResponse, error)
	SignIn(ctx context.Context, req *model.SignInRequest) (*model.TokenResponse, error)
	GetSession(ctx context.Context, token string) (*model.Session, error)
	InvalidateSession(userID uuid.UUID)
}

type Service struct {
	userRepo   repository.UserRepository
	clinicRepo repository.ClinicRepository
	jwtSvc     auth.JWTService
	emailSvc   email.Service
	sessions   *cache.Cache
	logger     *logger.Logger
	cost       int
}

type Option func(*Service)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(
	userRepo repository.UserRepository,
	clinicRepo repository.ClinicRepository,
	jwtSvc auth.JWTService,
	emailSvc email.Service,
	sessions *cache.Cache,
	log *logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		userRepo:   userRepo,
		clinicRepo: clinicRepo,
		jwtSvc:     jwtSvc,
		emailSvc:   emailSvc,
		sessions:   sessions,
		logger:     log.With("auth"),
		cost:       bcryptCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSessionCache builds the cache GetSession keeps resolved sessions in.
func NewSessionCache(ttl, cleanupInterval time.Duration) *cache.Cache {
	return cache.New(ttl, cleanupInterval)
}

func (s *Service) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.TokenResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("email already registered", nil)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		s.logger.Error(err, "failed to send welcome email", "user_id", user.ID.String())
	}

	s.logger.Info("user signed up", "user_id", user.ID.String())
	return s.issueToken(user)
}

func (s *Service) SignIn(ctx context.Context, req *model.SignInRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(ErrInvalidCredentials)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	return s.issueToken(user)
}

// GetSession resolves a bearer token to the caller. Invalid tokens and
// deleted users yield a nil session and no error.
func (s *Service) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		s.logger.Debug("rejected token", "error", err.Error())
		return nil, nil
	}

	key := claims.UserID.String()
	if cached, ok := s.sessions.Get(key); ok {
		return cached.(*model.Session), nil
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	session := &model.Session{User: user}
	clinic, err := s.clinicRepo.FirstForUser(ctx, user.ID)
	switch {
	case err == nil:
		session.Clinic = clinic
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to load session clinic: %w", err)
	}

	s.sessions.SetDefault(key, session)
	return session, nil
}

// InvalidateSession drops the cached session so the next request sees
// clinic changes.
func (s *Service) InvalidateSession(userID uuid.UUID) {
	s.sessions.Delete(userID.String())
}

func (s *Service) issueToken(user *model.User) (*model.TokenResponse, error) {
	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtSvc.Expiry().Seconds()),
		User:        user,
	}, nil
}
