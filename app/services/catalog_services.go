package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
	"github.com/shashiranjanraj/shopfront/pkg/storage"
)

const (
	categoriesCacheKey = "categories:all"
	categoriesCacheTTL = 5 * time.Minute
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  uint            `json:"category_id" validate:"required"`
}

// ProductPatch has no stock field: stock only moves through orders.
type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	CategoryID  *uint            `json:"category_id" validate:"omitempty,gt=0"`
}

type ProductFilter = repositories.ProductFilter

// CatalogService manages categories and products. The category list is
// cached; product images go to the configured disk.
type CatalogService struct {
	db    *gorm.DB
	cache cache.Store
	disk  storage.Disk
}

// NewCatalogService accepts a nil store (no caching) and a nil disk (image
// upload disabled).
func NewCatalogService(db *gorm.DB, store cache.Store, disk storage.Disk) *CatalogService {
	return &CatalogService{db: db, cache: store, disk: disk}
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return cache.Remember(ctx, s.cache, categoriesCacheKey, categoriesCacheTTL, func() ([]models.Category, error) {
		return repositories.NewCategoryRepository(s.db).All(ctx)
	})
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (models.Category, error) {
	category, err := repositories.NewCategoryRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return models.Category{}, notFound(err, "Category not found")
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	categories := repositories.NewCategoryRepository(s.db)

	taken, err := categories.NameTaken(ctx, in.Name, 0)
	if err != nil {
		return models.Category{}, err
	}
	if taken {
		return models.Category{}, fail(ErrConflict, "Category already exists")
	}

	category := models.Category{Name: in.Name, Description: in.Description}
	if err := categories.Create(ctx, &category); err != nil {
		return models.Category{}, err
	}

	s.forgetCategories(ctx)
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, patch CategoryPatch) (models.Category, error) {
	categories := repositories.NewCategoryRepository(s.db)

	category, err := categories.FindByID(ctx, id)
	if err != nil {
		return models.Category{}, notFound(err, "Category not found")
	}

	if patch.Name != nil {
		taken, err := categories.NameTaken(ctx, *patch.Name, id)
		if err != nil {
			return models.Category{}, err
		}
		if taken {
			return models.Category{}, fail(ErrConflict, "Category name already exists")
		}
	}

	set(&category.Name, patch.Name)
	set(&category.Description, patch.Description)

	if err := categories.Save(ctx, &category); err != nil {
		return models.Category{}, err
	}

	s.forgetCategories(ctx)
	return category, nil
}

func (s *CatalogService) forgetCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache invalidation failed", "error", err)
	}
}

// ─── Products ────────────────────────────────────────────────────────────────

func (s *CatalogService) ListProducts(ctx context.Context, f ProductFilter, p orm.Page) ([]models.Product, orm.Pagination, error) {
	products, pagination, err := repositories.NewProductRepository(s.db).Paginate(ctx, f, p)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	for i := range products {
		s.withImageURL(&products[i])
	}
	return products, pagination, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	product, err := repositories.NewProductRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return models.Product{}, notFound(err, "Product not found")
	}
	s.withImageURL(&product)
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if !in.Price.IsPositive() {
		return models.Product{}, fail(ErrValidation, "Price must be greater than zero")
	}
	if in.Stock < 0 {
		return models.Product{}, fail(ErrValidation, "Stock cannot be negative")
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}
	if err := repositories.NewProductRepository(s.db).Create(ctx, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (models.Product, error) {
	products := repositories.NewProductRepository(s.db)

	product, err := products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, notFound(err, "Product not found")
	}

	if patch.Price != nil && !patch.Price.IsPositive() {
		return models.Product{}, fail(ErrValidation, "Price must be greater than zero")
	}
	if patch.CategoryID != nil {
		if err := s.requireCategory(ctx, *patch.CategoryID); err != nil {
			return models.Product{}, err
		}
	}

	set(&product.Name, patch.Name)
	set(&product.Description, patch.Description)
	set(&product.Price, patch.Price)
	set(&product.CategoryID, patch.CategoryID)

	if err := products.Save(ctx, &product); err != nil {
		return models.Product{}, err
	}
	s.withImageURL(&product)
	return product, nil
}

// UploadImage stores r as the product's image and removes the previous one.
func (s *CatalogService) UploadImage(ctx context.Context, id uint, filename, contentType string, r io.Reader) (models.Product, error) {
	if s.disk == nil {
		return models.Product{}, fmt.Errorf("catalog: no storage disk configured")
	}

	ext := strings.ToLower(path.Ext(filename))
	if !imageExtensions[ext] {
		return models.Product{}, fail(ErrValidation, "Image must be a jpg, png, gif or webp file")
	}

	products := repositories.NewProductRepository(s.db)
	product, err := products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, notFound(err, "Product not found")
	}

	key := fmt.Sprintf("products/%d/%s%s", product.ID, uuid.NewString(), ext)
	if err := s.disk.Put(ctx, key, r, contentType); err != nil {
		return models.Product{}, err
	}

	previous := product.ImagePath
	product.ImagePath = key
	if err := products.Save(ctx, &product); err != nil {
		_ = s.disk.Delete(ctx, key)
		return models.Product{}, err
	}

	if previous != "" {
		if err := s.disk.Delete(ctx, previous); err != nil {
			logger.WithCtx(ctx).Warn("catalog: old image not removed", "path", previous, "error", err)
		}
	}

	s.withImageURL(&product)
	return product, nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id uint) error {
	_, err := repositories.NewCategoryRepository(s.db).FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(ErrValidation, "Category not found")
	}
	return err
}

func (s *CatalogService) withImageURL(p *models.Product) {
	if p.ImagePath != "" && s.disk != nil {
		p.ImageURL = s.disk.URL(p.ImagePath)
	}
}
