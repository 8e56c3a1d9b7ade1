// Package repositories wraps GORM queries per model. Every repository is
// built on a *gorm.DB handle, so a service can bind one to a transaction:
//
//	db.Transaction(func(tx *gorm.DB) error {
//	    products := repositories.NewProductRepository(tx)
//	    ...
//	})
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, err
}

// FindByUsername looks up a user by login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return user, err
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.db, &models.User{}, "email = ?", email)
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return exists(ctx, r.db, &models.User{}, "username = ?", username)
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Paginate returns one page of users ordered by id.
func (r *UserRepository) Paginate(ctx context.Context, p orm.Page) ([]models.User, orm.Pagination, error) {
	var users []models.User
	q := r.db.WithContext(ctx).Model(&models.User{}).Order("id")
	pagination, err := orm.Paginate(q, p, &users)
	return users, pagination, err
}

// exists reports whether any row of model matches the condition.
func exists(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&n).Error
	return n > 0, err
}
