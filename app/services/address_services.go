package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
)

type AddressInput struct {
	AddressLine1 string `json:"address_line1" validate:"required,max=255"`
	AddressLine2 string `json:"address_line2" validate:"max=255"`
	City         string `json:"city" validate:"required,max=50"`
	State        string `json:"state" validate:"required,max=50"`
	ZipCode      string `json:"zip_code" validate:"required,max=20"`
	Country      string `json:"country" validate:"omitempty,max=50"`
}

// AddressPatch changes only the fields that are set.
type AddressPatch struct {
	AddressLine1 *string `json:"address_line1" validate:"omitempty,min=1,max=255"`
	AddressLine2 *string `json:"address_line2" validate:"omitempty,max=255"`
	City         *string `json:"city" validate:"omitempty,min=1,max=50"`
	State        *string `json:"state" validate:"omitempty,min=1,max=50"`
	ZipCode      *string `json:"zip_code" validate:"omitempty,min=1,max=20"`
	Country      *string `json:"country" validate:"omitempty,min=1,max=50"`
}

func (p AddressPatch) apply(a *models.Address) {
	set(&a.AddressLine1, p.AddressLine1)
	set(&a.AddressLine2, p.AddressLine2)
	set(&a.City, p.City)
	set(&a.State, p.State)
	set(&a.ZipCode, p.ZipCode)
	set(&a.Country, p.Country)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// AddressService keeps every address private to its owner: someone else's
// address is reported as not found.
type AddressService struct {
	db *gorm.DB
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	return repositories.NewAddressRepository(s.db).ListByUser(ctx, userID)
}

func (s *AddressService) Get(ctx context.Context, userID, id uint) (models.Address, error) {
	address, err := repositories.NewAddressRepository(s.db).FindForUser(ctx, userID, id)
	if err != nil {
		return models.Address{}, notFound(err, "Address not found")
	}
	return address, nil
}

func (s *AddressService) Create(ctx context.Context, userID uint, in AddressInput) (models.Address, error) {
	address := models.Address{
		UserID:       userID,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		ZipCode:      in.ZipCode,
		Country:      in.Country,
	}
	if address.Country == "" {
		address.Country = models.DefaultCountry
	}

	if err := repositories.NewAddressRepository(s.db).Create(ctx, &address); err != nil {
		return models.Address{}, err
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id uint, patch AddressPatch) (models.Address, error) {
	addresses := repositories.NewAddressRepository(s.db)

	address, err := addresses.FindForUser(ctx, userID, id)
	if err != nil {
		return models.Address{}, notFound(err, "Address not found")
	}

	patch.apply(&address)
	if err := addresses.Save(ctx, &address); err != nil {
		return models.Address{}, err
	}
	return address, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id uint) error {
	addresses := repositories.NewAddressRepository(s.db)

	address, err := addresses.FindForUser(ctx, userID, id)
	if err != nil {
		return notFound(err, "Address not found")
	}
	return addresses.Delete(ctx, &address)
}
