package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/config"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
)

type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController(service *services.CatalogService) *CatalogController {
	return &CatalogController{service: service}
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (cc *CatalogController) Categories(c *ctx.Context) {
	list, err := cc.service.ListCategories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (cc *CatalogController) ShowCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	category, err := cc.service.GetCategory(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(category)
}

func (cc *CatalogController) StoreCategory(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	category, err := cc.service.CreateCategory(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(category)
}

func (cc *CatalogController) UpdateCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var patch services.CategoryPatch
	if !c.BindJSON(&patch) {
		return
	}
	category, err := cc.service.UpdateCategory(c.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(category)
}

// ─── Products ────────────────────────────────────────────────────────────────

func (cc *CatalogController) Products(c *ctx.Context) {
	var f services.ProductFilter
	categoryID, _, ok := c.QueryUint("category_id")
	if !ok {
		c.ValidationError(map[string]string{"category_id": "The category_id must be a number."})
		return
	}
	f.CategoryID = categoryID

	list, page, err := cc.service.ListProducts(c.Context(), f, c.Page())
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(list, page)
}

func (cc *CatalogController) ShowProduct(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	product, err := cc.service.GetProduct(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

func (cc *CatalogController) StoreProduct(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	product, err := cc.service.CreateProduct(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(product)
}

func (cc *CatalogController) UpdateProduct(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var patch services.ProductPatch
	if !c.BindJSON(&patch) {
		return
	}
	product, err := cc.service.UpdateProduct(c.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

// UploadImage takes a multipart form with one file field named "image".
func (cc *CatalogController) UploadImage(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}

	limit := config.MaxBodyBytes()
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, limit)
	if err := c.R.ParseMultipartForm(limit); err != nil {
		c.Error(http.StatusBadRequest, "Expected a multipart form no larger than the upload limit")
		return
	}

	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.ValidationError(map[string]string{"image": "The image field is required."})
		return
	}
	defer file.Close()

	product, err := cc.service.UploadImage(c.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}
