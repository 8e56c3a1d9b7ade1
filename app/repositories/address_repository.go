package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
)

// AddressRepository scopes every lookup to the owning user.
type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID uint) ([]models.Address, error) {
	addresses := []models.Address{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&addresses).Error
	return addresses, err
}

// FindForUser returns gorm.ErrRecordNotFound when the address is missing or
// belongs to someone else.
func (r *AddressRepository) FindForUser(ctx context.Context, userID, id uint) (models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	return address, err
}

func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *AddressRepository) Save(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

// Delete soft-deletes the address.
func (r *AddressRepository) Delete(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Delete(address).Error
}
