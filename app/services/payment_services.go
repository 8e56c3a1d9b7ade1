package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
)

type PaymentInput struct {
	OrderID       uint            `json:"order_id" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=50"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
}

type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// Pay records a completed payment against the caller's order and marks the
// order paid once the sum of its payments reaches the order total. The
// amount is checked against the order total, not the outstanding balance.
func (s *PaymentService) Pay(ctx context.Context, userID uint, in PaymentInput) (models.Payment, error) {
	var (
		payment models.Payment
		paid    bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		payments := repositories.NewPaymentRepository(tx)

		order, err := ownedOrder(ctx, orders, userID, in.OrderID, "Not authorized to pay for this order")
		if err != nil {
			return err
		}

		if !in.Amount.IsPositive() {
			return fail(ErrInvalidAmount, "Payment amount must be greater than zero")
		}
		if in.Amount.GreaterThan(order.TotalAmount) {
			return fail(ErrInvalidAmount, "Payment amount exceeds order total")
		}

		payment = models.Payment{
			OrderID:       order.ID,
			PaymentMethod: in.PaymentMethod,
			Amount:        in.Amount,
			Status:        models.PaymentCompleted,
		}
		if err := payments.Create(ctx, &payment); err != nil {
			return err
		}

		total, err := payments.TotalForOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if total.GreaterThanOrEqual(order.TotalAmount) && order.Status != models.OrderPaid {
			if err := orders.SetStatus(ctx, &order, models.OrderPaid); err != nil {
				return err
			}
			paid = true
		}
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	log := logger.WithCtx(ctx)
	metrics.PaymentsRecorded.WithLabelValues(payment.PaymentMethod).Inc()
	log.Info("payment recorded", "payment_id", payment.ID, "order_id", payment.OrderID, "amount", payment.Amount.String())
	if paid {
		metrics.OrdersPaid.Inc()
		log.Info("order paid", "order_id", payment.OrderID)
	}
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, userID uint) ([]models.Payment, error) {
	return repositories.NewPaymentRepository(s.db).ListByUser(ctx, userID)
}

// UpdateStatus sets a payment's status. It does not revisit the order's
// status.
func (s *PaymentService) UpdateStatus(ctx context.Context, userID, paymentID uint, status string) (models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := repositories.NewPaymentRepository(tx)

		var err error
		payment, err = payments.FindByID(ctx, paymentID)
		if err != nil {
			return notFound(err, "Payment not found")
		}

		if _, err := ownedOrder(ctx, repositories.NewOrderRepository(tx), userID, payment.OrderID, "Not authorized to update this payment"); err != nil {
			return err
		}

		if !models.ValidPaymentStatus(status) {
			return fail(ErrInvalidStatus, "Invalid payment status")
		}

		if err := payments.SetStatus(ctx, &payment, status); err != nil {
			return err
		}
		payment.Status = status
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}
