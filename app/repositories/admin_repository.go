package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint) (models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).First(&admin, id).Error
	return admin, err
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	return admin, err
}

func (r *AdminRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return exists(ctx, r.db, &models.Admin{}, "username = ?", username)
}

// Count returns the number of admins.
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Count(&n).Error
	return n, err
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}
