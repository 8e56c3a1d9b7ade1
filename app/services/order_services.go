package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
)

type OrderItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gte=1"`
	// PriceAtPurchase defaults to the product's current price.
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" validate:"omitempty,gt=0"`
}

type OrderInput struct {
	TotalAmount decimal.Decimal  `json:"total_amount" validate:"gt=0"`
	SaleSource  string           `json:"sale_source" validate:"max=100"`
	Items       []OrderItemInput `json:"items" validate:"dive"`
}

type OrderItemsInput struct {
	Items []OrderItemInput `json:"items" validate:"dive"`
}

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Place creates the order and its items in one transaction. Items are
// applied in request order; the first missing product or short stock
// aborts the whole order and no stock changes are kept.
func (s *OrderService) Place(ctx context.Context, userID uint, in OrderInput) (models.Order, error) {
	if !in.TotalAmount.IsPositive() {
		return models.Order{}, fail(ErrValidation, "Total amount must be greater than zero")
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		order = models.Order{
			UserID:      userID,
			TotalAmount: in.TotalAmount,
			Status:      models.OrderPending,
			SaleSource:  in.SaleSource,
		}
		if err := orders.Create(ctx, &order); err != nil {
			return err
		}

		items, err := applyItems(ctx, tx, order.ID, in.Items)
		if err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("order placed", "order_id", order.ID, "user_id", userID, "items", len(order.Items))
	return order, nil
}

// ReplaceItems swaps the order's item set for a new one. Stock taken by the
// old items is not given back before the new set is applied.
func (s *OrderService) ReplaceItems(ctx context.Context, userID, orderID uint, in OrderItemsInput) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		var err error
		order, err = ownedOrder(ctx, orders, userID, orderID, "Not authorized to modify this order")
		if err != nil {
			return err
		}

		if err := orders.DeleteItems(ctx, order.ID); err != nil {
			return err
		}

		items, err := applyItems(ctx, tx, order.ID, in.Items)
		if err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	logger.WithCtx(ctx).Info("order items replaced", "order_id", order.ID, "items", len(order.Items))
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, userID, orderID uint) (models.Order, error) {
	return ownedOrder(ctx, repositories.NewOrderRepository(s.db), userID, orderID, "Not authorized to view this order")
}

func (s *OrderService) List(ctx context.Context, userID uint) ([]models.Order, error) {
	return repositories.NewOrderRepository(s.db).ListByUser(ctx, userID)
}

// ownedOrder loads the order: ErrNotFound when absent, ErrForbidden when it
// belongs to another user.
func ownedOrder(ctx context.Context, orders *repositories.OrderRepository, userID, orderID uint, forbidden string) (models.Order, error) {
	order, err := orders.FindByID(ctx, orderID)
	if err != nil {
		return models.Order{}, notFound(err, "Order not found")
	}
	if order.UserID != userID {
		return models.Order{}, fail(ErrForbidden, "%s", forbidden)
	}
	return order, nil
}

// applyItems validates, decrements stock and inserts each item on tx.
func applyItems(ctx context.Context, tx *gorm.DB, orderID uint, in []OrderItemInput) ([]models.OrderItem, error) {
	products := repositories.NewProductRepository(tx)
	orders := repositories.NewOrderRepository(tx)

	items := make([]models.OrderItem, 0, len(in))
	for _, it := range in {
		if it.Quantity < 1 {
			return nil, fail(ErrValidation, "Quantity must be at least 1")
		}

		product, err := products.FindByID(ctx, it.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Product %d not found", it.ProductID)
		}
		if err != nil {
			return nil, err
		}

		if product.Stock < it.Quantity {
			return nil, stockRejected(ctx, product, it.Quantity)
		}
		ok, err := products.DecrementStock(ctx, product.ID, it.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, stockRejected(ctx, product, it.Quantity)
		}

		price := it.PriceAtPurchase
		if !price.IsPositive() {
			price = product.Price
		}

		item := models.OrderItem{
			OrderID:         orderID,
			ProductID:       product.ID,
			Quantity:        it.Quantity,
			PriceAtPurchase: price,
		}
		if err := orders.AddItem(ctx, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func stockRejected(ctx context.Context, p models.Product, want int) error {
	metrics.StockRejections.Inc()
	logger.WithCtx(ctx).Info("order rejected: insufficient stock",
		"product_id", p.ID, "requested", want, "available", p.Stock)
	return fail(ErrInsufficientStock, "Insufficient stock for product %s", p.Name)
}
