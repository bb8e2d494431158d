package service

import (
	"context"

	"campus-grub-api/apperr"
	"campus-grub-api/models"
	"campus-grub-api/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users *repository.UserRepository
	cache *ProfileCache
	log   *zap.Logger
}

func NewUserService(users *repository.UserRepository, cache *ProfileCache, log *zap.Logger) *UserService {
	return &UserService{users: users, cache: cache, log: log}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
	Phone    string
	Address  string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !models.ValidRole(in.Role) {
		return nil, apperr.New(apperr.Validation,
			"invalid role %q; must be user, restaurant_owner or admin", in.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "hashing password")
	}
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Phone:        in.Phone,
		Address:      in.Address,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, user)
	return user, nil
}

// Authenticate checks credentials and returns the user. Failures are
// deliberately indistinct between unknown email and wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.New(apperr.Forbidden, "invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.New(apperr.Forbidden, "invalid email or password")
	}
	s.cacheProfile(ctx, user)
	return user, nil
}

// GetProfile reads a profile, falling back to the cached last-known profile
// when the store is unavailable. NotFound is authoritative and never served
// from cache.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err == nil {
		s.cacheProfile(ctx, user)
		return user.Profile(), nil
	}
	if apperr.Is(err, apperr.NotFound) {
		return models.Profile{}, err
	}
	if cached, ok := s.cache.Get(ctx, userID); ok {
		s.log.Warn("serving cached profile; store unavailable",
			zap.Uint("user_id", userID), zap.Error(err))
		return cached, nil
	}
	return models.Profile{}, err
}

func (s *UserService) cacheProfile(ctx context.Context, user *models.User) {
	if err := s.cache.Set(ctx, user.Profile()); err != nil {
		s.log.Debug("profile cache write failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}
