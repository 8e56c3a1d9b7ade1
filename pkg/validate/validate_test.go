package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopfront/pkg/validate"
)

type registerInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	assert.False(t, validate.HasErrors(errs), "%v", errs)
}

func TestRequiredUsesJSONNames(t *testing.T) {
	errs := validate.Struct(registerInput{})

	assert.Equal(t, "The username field is required.", errs["username"])
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestStringLength(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "al", Email: "a@b.co", Password: "short"})

	assert.Equal(t, "The username must be at least 3 characters.", errs["username"])
	assert.Equal(t, "The password must be at least 8 characters.", errs["password"])
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "alice", Email: "nope", Password: "long-enough"})
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
}

type product struct {
	Price decimal.Decimal  `json:"price"  validate:"gt=0"`
	Patch *decimal.Decimal `json:"patch"  validate:"omitempty,gt=0"`
	Stock int              `json:"stock"  validate:"gte=0"`
}

func TestDecimalComparesAsNumber(t *testing.T) {
	neg := decimal.NewFromInt(-1)

	errs := validate.Struct(product{Price: decimal.Zero, Patch: &neg, Stock: -1})
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "patch")
	assert.Contains(t, errs, "stock")

	ok := decimal.RequireFromString("0.01")
	errs = validate.Struct(product{Price: decimal.NewFromInt(10), Patch: &ok})
	assert.Empty(t, errs)

	errs = validate.Struct(product{Price: decimal.NewFromInt(10)})
	assert.Empty(t, errs, "nil patch is skipped")
}

type item struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"min=1"`
}

type order struct {
	Items []item `json:"items" validate:"dive"`
}

func TestDiveReportsIndexedPath(t *testing.T) {
	errs := validate.Struct(order{Items: []item{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 0}}})

	assert.Equal(t, "The items[1].quantity field must be at least 1.", errs["items[1].quantity"])
	assert.Len(t, errs, 1)
}

func TestOneOf(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"oneof=pending completed failed refunded"`
	}
	errs := validate.Struct(in{Status: "lost"})
	assert.Equal(t, "The status must be one of: pending, completed, failed, refunded.", errs["status"])
}
