package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
)

func newIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	iss, err := auth.NewIssuer("services-test-secret", "HS256", time.Minute)
	require.NoError(t, err)
	return iss
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedUser inserts a user directly, skipping bcrypt.
func seedUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) models.Product {
	t.Helper()
	var cat models.Category
	require.NoError(t, db.Where(models.Category{Name: "Fixtures"}).FirstOrCreate(&cat).Error)

	p := models.Product{Name: name, Price: dec(price), Stock: stock, CategoryID: cat.ID}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}

var bg = context.Background()
