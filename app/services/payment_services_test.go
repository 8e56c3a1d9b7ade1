package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/testkit"
)

func newOrder(t *testing.T, db *gorm.DB, user models.User, total string) models.Order {
	t.Helper()
	order, err := NewOrderService(db).Place(bg, user.ID, OrderInput{TotalAmount: dec(total)})
	require.NoError(t, err)
	return order
}

func orderStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var o models.Order
	require.NoError(t, db.First(&o, id).Error)
	return o.Status
}

func TestPaymentsPromoteOrderWhenTotalReached(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewPaymentService(db)
	alice := seedUser(t, db, "alice")
	order := newOrder(t, db, alice, "30.00")

	p, err := svc.Pay(bg, alice.ID, PaymentInput{OrderID: order.ID, PaymentMethod: "card", Amount: dec("10.10")})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.Equal(t, models.OrderPending, orderStatus(t, db, order.ID))

	_, err = svc.Pay(bg, alice.ID, PaymentInput{OrderID: order.ID, PaymentMethod: "card", Amount: dec("19.90")})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, orderStatus(t, db, order.ID))

	list, err := svc.List(bg, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPaymentBelowTotalLeavesOrderPending(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewPaymentService(db)
	alice := seedUser(t, db, "alice")
	order := newOrder(t, db, alice, "30")

	_, err := svc.Pay(bg, alice.ID, PaymentInput{OrderID: order.ID, PaymentMethod: "cash", Amount: dec("29.99")})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, orderStatus(t, db, order.ID))
}

func TestPaymentChecks(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewPaymentService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	order := newOrder(t, db, alice, "30")

	_, err := svc.Pay(bg, alice.ID, PaymentInput{OrderID: 999, PaymentMethod: "card", Amount: dec("1")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Pay(bg, bob.ID, PaymentInput{OrderID: order.ID, PaymentMethod: "card", Amount: dec("1")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Pay(bg, alice.ID, PaymentInput{OrderID: order.ID, PaymentMethod: "card", Amount: dec("30.01")})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Pay(bg, alice.ID, PaymentInput{OrderID: order.ID, PaymentMethod: "card", Amount: dec("0")})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	theirs, err := svc.List(bg, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestUpdatePaymentStatus(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewPaymentService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	order := newOrder(t, db, alice, "30")

	p, err := svc.Pay(bg, alice.ID, PaymentInput{OrderID: order.ID, PaymentMethod: "card", Amount: dec("30")})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(bg, alice.ID, 999, models.PaymentRefunded)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateStatus(bg, bob.ID, p.ID, "bogus")
	assert.ErrorIs(t, err, ErrForbidden, "ownership is checked before the status value")

	_, err = svc.UpdateStatus(bg, alice.ID, p.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := svc.UpdateStatus(bg, alice.ID, p.ID, models.PaymentRefunded)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, updated.Status)
	assert.Equal(t, models.OrderPaid, orderStatus(t, db, order.ID), "order status is not recomputed")
}
