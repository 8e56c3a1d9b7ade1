package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
	"github.com/shashiranjanraj/shopfront/pkg/storage"
	"github.com/shashiranjanraj/shopfront/pkg/testkit"
)

func ptr[T any](v T) *T { return &v }

func TestCategoryUniqueness(t *testing.T) {
	svc := NewCatalogService(testkit.NewDB(t), nil, nil)

	books, err := svc.CreateCategory(bg, CategoryInput{Name: "Books"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(bg, CategoryInput{Name: "Books"})
	assert.ErrorIs(t, err, ErrConflict)

	maps, err := svc.CreateCategory(bg, CategoryInput{Name: "Maps", Description: "paper"})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(bg, maps.ID, CategoryPatch{Name: ptr("Books")})
	assert.ErrorIs(t, err, ErrConflict)

	same, err := svc.UpdateCategory(bg, books.ID, CategoryPatch{Name: ptr("Books"), Description: ptr("reading")})
	require.NoError(t, err, "keeping its own name is not a conflict")
	assert.Equal(t, "reading", same.Description)

	_, err = svc.UpdateCategory(bg, 999, CategoryPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryListIsCachedAndInvalidated(t *testing.T) {
	db := testkit.NewDB(t)
	store := cache.NewMemory()
	svc := NewCatalogService(db, store, nil)

	_, err := svc.CreateCategory(bg, CategoryInput{Name: "Books"})
	require.NoError(t, err)

	list, err := svc.ListCategories(bg)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// A row written behind the service's back is hidden by the cache...
	require.NoError(t, db.Exec("INSERT INTO categories (name, description, created_at, updated_at) VALUES ('Toys', '', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)").Error)
	list, err = svc.ListCategories(bg)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// ...until a write through the service clears it.
	_, err = svc.CreateCategory(bg, CategoryInput{Name: "Maps"})
	require.NoError(t, err)
	list, err = svc.ListCategories(bg)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestProductRequiresExistingCategory(t *testing.T) {
	svc := NewCatalogService(testkit.NewDB(t), nil, nil)

	_, err := svc.CreateProduct(bg, ProductInput{Name: "Atlas", Price: dec("10"), Stock: 5, CategoryID: 42})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Category not found")

	_, err = svc.CreateProduct(bg, ProductInput{Name: "Atlas", Price: dec("0"), Stock: 5, CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductPartialUpdate(t *testing.T) {
	svc := NewCatalogService(testkit.NewDB(t), nil, nil)
	books, err := svc.CreateCategory(bg, CategoryInput{Name: "Books"})
	require.NoError(t, err)
	maps, err := svc.CreateCategory(bg, CategoryInput{Name: "Maps"})
	require.NoError(t, err)

	p, err := svc.CreateProduct(bg, ProductInput{Name: "Atlas", Description: "world", Price: dec("10"), Stock: 5, CategoryID: books.ID})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(bg, p.ID, ProductPatch{Price: ptr(dec("12.50"))})
	require.NoError(t, err)
	assert.Equal(t, "Atlas", updated.Name)
	assert.Equal(t, "world", updated.Description)
	assert.True(t, dec("12.5").Equal(updated.Price))
	assert.Equal(t, 5, updated.Stock)

	_, err = svc.UpdateProduct(bg, p.ID, ProductPatch{CategoryID: ptr(uint(999))})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProduct(bg, p.ID, ProductPatch{Price: ptr(dec("-1"))})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProduct(bg, p.ID, ProductPatch{CategoryID: ptr(maps.ID)})
	require.NoError(t, err)

	got, err := svc.GetProduct(bg, p.ID)
	require.NoError(t, err)
	assert.Equal(t, maps.ID, got.CategoryID)
	assert.True(t, dec("12.5").Equal(got.Price))

	list, page, err := svc.ListProducts(bg, ProductFilter{CategoryID: books.ID}, orm.NewPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int64(0), page.Total)

	list, _, err = svc.ListProducts(bg, ProductFilter{CategoryID: maps.ID}, orm.NewPage(1, 10))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetProduct(bg, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadImage(t *testing.T) {
	db := testkit.NewDB(t)
	disk, err := storage.NewLocal(t.TempDir(), "http://cdn.test")
	require.NoError(t, err)
	svc := NewCatalogService(db, nil, disk)

	p := seedProduct(t, db, "Atlas", "10", 5)

	_, err = svc.UploadImage(bg, p.ID, "cover.exe", "application/octet-stream", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrValidation)

	first, err := svc.UploadImage(bg, p.ID, "cover.PNG", "image/png", strings.NewReader("one"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ImagePath, "products/"))
	assert.True(t, strings.HasSuffix(first.ImagePath, ".png"))
	assert.Equal(t, "http://cdn.test/"+first.ImagePath, first.ImageURL)
	assert.True(t, disk.Exists(bg, first.ImagePath))

	second, err := svc.UploadImage(bg, p.ID, "cover.jpg", "image/jpeg", strings.NewReader("two"))
	require.NoError(t, err)
	assert.False(t, disk.Exists(bg, first.ImagePath), "previous image is removed")
	assert.True(t, disk.Exists(bg, second.ImagePath))
	assert.Equal(t, 5, stockOf(t, db, p.ID), "image upload leaves stock alone")

	_, err = svc.UploadImage(bg, 999, "cover.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}
