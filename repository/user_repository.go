package repository

import (
	"context"
	"errors"

	"campus-grub-api/apperr"
	"campus-grub-api/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "user %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "fetching user %d", id)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "no account for %s", email)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "fetching user by email")
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if IsDuplicate(err) {
			return apperr.New(apperr.Validation, "email already registered")
		}
		return apperr.Wrap(apperr.Persistence, err, "creating user")
	}
	return nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "listing users")
	}
	return users, nil
}
