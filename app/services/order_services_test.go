package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/testkit"
)

type OrderSuite struct {
	suite.Suite
	db     *gorm.DB
	orders *OrderService
	alice  models.User
	bob    models.User
}

func TestOrderSuite(t *testing.T) {
	suite.Run(t, new(OrderSuite))
}

func (s *OrderSuite) SetupTest() {
	s.db = testkit.NewDB(s.T())
	s.orders = NewOrderService(s.db)
	s.alice = seedUser(s.T(), s.db, "alice")
	s.bob = seedUser(s.T(), s.db, "bob")
}

func (s *OrderSuite) place(user models.User, items ...OrderItemInput) (models.Order, error) {
	return s.orders.Place(bg, user.ID, OrderInput{TotalAmount: dec("30"), SaleSource: "web", Items: items})
}

func (s *OrderSuite) TestAtlasExample() {
	atlas := seedProduct(s.T(), s.db, "Atlas", "10", 5)

	order, err := s.place(s.alice, OrderItemInput{ProductID: atlas.ID, Quantity: 3})
	s.Require().NoError(err)
	s.Equal(models.OrderPending, order.Status)
	s.Require().Len(order.Items, 1)
	s.True(dec("10").Equal(order.Items[0].PriceAtPurchase), "price defaults to the product price")
	s.Equal(2, stockOf(s.T(), s.db, atlas.ID))

	_, err = s.place(s.alice, OrderItemInput{ProductID: atlas.ID, Quantity: 3})
	s.ErrorIs(err, ErrInsufficientStock)
	s.Equal(2, stockOf(s.T(), s.db, atlas.ID))

	var n int64
	s.Require().NoError(s.db.Model(&models.Order{}).Count(&n).Error)
	s.Equal(int64(1), n, "the rejected order is not kept")
}

func (s *OrderSuite) TestFailingItemRollsBackEarlierItems() {
	atlas := seedProduct(s.T(), s.db, "Atlas", "10", 5)
	globe := seedProduct(s.T(), s.db, "Globe", "40", 1)

	_, err := s.place(s.alice,
		OrderItemInput{ProductID: atlas.ID, Quantity: 2},
		OrderItemInput{ProductID: globe.ID, Quantity: 2},
	)
	s.ErrorIs(err, ErrInsufficientStock)
	s.Equal(5, stockOf(s.T(), s.db, atlas.ID))
	s.Equal(1, stockOf(s.T(), s.db, globe.ID))

	_, err = s.place(s.alice,
		OrderItemInput{ProductID: atlas.ID, Quantity: 1},
		OrderItemInput{ProductID: 999, Quantity: 1},
	)
	s.ErrorIs(err, ErrNotFound)
	s.Equal(5, stockOf(s.T(), s.db, atlas.ID))

	var items int64
	s.Require().NoError(s.db.Model(&models.OrderItem{}).Count(&items).Error)
	s.Zero(items)
}

func (s *OrderSuite) TestStockDecrementsMatchQuantities() {
	atlas := seedProduct(s.T(), s.db, "Atlas", "10", 10)
	globe := seedProduct(s.T(), s.db, "Globe", "40", 4)

	_, err := s.place(s.alice,
		OrderItemInput{ProductID: atlas.ID, Quantity: 3},
		OrderItemInput{ProductID: globe.ID, Quantity: 4},
		OrderItemInput{ProductID: atlas.ID, Quantity: 2, PriceAtPurchase: dec("9.99")},
	)
	s.Require().NoError(err)
	s.Equal(5, stockOf(s.T(), s.db, atlas.ID))
	s.Equal(0, stockOf(s.T(), s.db, globe.ID))
}

func (s *OrderSuite) TestTotalMustBePositive() {
	_, err := s.orders.Place(bg, s.alice.ID, OrderInput{TotalAmount: dec("0")})
	s.ErrorIs(err, ErrValidation)
}

func (s *OrderSuite) TestOwnership() {
	order, err := s.place(s.alice)
	s.Require().NoError(err)

	got, err := s.orders.Get(bg, s.alice.ID, order.ID)
	s.Require().NoError(err)
	s.Equal(order.ID, got.ID)

	_, err = s.orders.Get(bg, s.bob.ID, order.ID)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.orders.Get(bg, s.alice.ID, 999)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.orders.ReplaceItems(bg, s.bob.ID, order.ID, OrderItemsInput{})
	s.ErrorIs(err, ErrForbidden)

	_, err = s.orders.ReplaceItems(bg, s.bob.ID, 999, OrderItemsInput{})
	s.ErrorIs(err, ErrNotFound)

	mine, err := s.orders.List(bg, s.alice.ID)
	s.Require().NoError(err)
	s.Len(mine, 1)

	theirs, err := s.orders.List(bg, s.bob.ID)
	s.Require().NoError(err)
	s.Empty(theirs)
}

func (s *OrderSuite) TestReplaceItemsDoesNotRestoreStock() {
	atlas := seedProduct(s.T(), s.db, "Atlas", "10", 5)

	order, err := s.place(s.alice, OrderItemInput{ProductID: atlas.ID, Quantity: 3})
	s.Require().NoError(err)

	updated, err := s.orders.ReplaceItems(bg, s.alice.ID, order.ID, OrderItemsInput{
		Items: []OrderItemInput{{ProductID: atlas.ID, Quantity: 1}},
	})
	s.Require().NoError(err)
	s.Require().Len(updated.Items, 1)
	s.Equal(1, updated.Items[0].Quantity)
	s.Equal(1, stockOf(s.T(), s.db, atlas.ID))

	_, err = s.orders.ReplaceItems(bg, s.alice.ID, order.ID, OrderItemsInput{
		Items: []OrderItemInput{{ProductID: atlas.ID, Quantity: 2}},
	})
	s.ErrorIs(err, ErrInsufficientStock)
	s.Equal(1, stockOf(s.T(), s.db, atlas.ID))

	got, err := s.orders.Get(bg, s.alice.ID, order.ID)
	s.Require().NoError(err)
	s.Len(got.Items, 1, "a failed replacement keeps the previous items")
}

func (s *OrderSuite) TestConcurrentOrdersNeverOversell() {
	const stock, buyers = 5, 12
	atlas := seedProduct(s.T(), s.db, "Atlas", "10", stock)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.place(s.alice, OrderItemInput{ProductID: atlas.ID, Quantity: 1})
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	placed := 0
	for _, err := range errs {
		if err == nil {
			placed++
			continue
		}
		s.ErrorIs(err, ErrInsufficientStock)
	}
	s.Equal(stock, placed)
	s.Equal(0, stockOf(s.T(), s.db, atlas.ID))

	var count int64
	s.Require().NoError(s.db.Model(&models.Order{}).Where("user_id = ?", s.alice.ID).Count(&count).Error)
	s.EqualValues(stock, count, "rejected orders are rolled back")
}
