package migrations

import (
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", table(&models.User{}, "users"))
	migration.Register("20260101000001_create_admins_table", table(&models.Admin{}, "admins"))
	migration.Register("20260101000002_create_addresses_table", table(&models.Address{}, "addresses"))
	migration.Register("20260101000003_create_categories_table", table(&models.Category{}, "categories"))
	migration.Register("20260101000004_create_products_table", table(&models.Product{}, "products"))
	migration.Register("20260101000005_create_orders_table", table(&models.Order{}, "orders"))
	migration.Register("20260101000006_create_order_items_table", table(&models.OrderItem{}, "order_items"))
	migration.Register("20260101000007_create_payments_table", table(&models.Payment{}, "payments"))
}

// createTable is the common shape of every migration here: AutoMigrate up,
// drop down.
type createTable struct {
	model any
	name  string
}

func table(model any, name string) *createTable {
	return &createTable{model: model, name: name}
}

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.name)
}
