package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/config"
)

func init() {
	Register("admin", seedAdmin)
}

// seedAdmin creates the FIRST_ADMIN_* account when no admin exists yet.
func seedAdmin(ctx context.Context, db *gorm.DB) error {
	username, password := config.FirstAdmin()
	_, err := services.NewAuthService(db, nil).EnsureFirstAdmin(ctx, username, password)
	return err
}
