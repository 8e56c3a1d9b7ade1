// Package gql exposes the catalog as a read-only GraphQL schema.
package gql

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/services"
	gqlhttp "github.com/shashiranjanraj/shopfront/pkg/graphql"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

// Catalog is the part of services.CatalogService the schema reads from.
type Catalog interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (models.Category, error)
	ListProducts(ctx context.Context, f services.ProductFilter, p orm.Page) ([]models.Product, orm.Pagination, error)
	GetProduct(ctx context.Context, id uint) (models.Product, error)
}

// NewSchema builds:
//
//	categories: [Category!]!
//	category(id: Int!): Category
//	products(category_id: Int, page: Int, limit: Int): [Product!]!
//	product(id: Int!): Product
func NewSchema(catalog Catalog) (graphql.Schema, error) {
	category := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	product := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.String), Description: "Decimal, two places."},
			"stock":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"category_id": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"image_url":   &graphql.Field{Type: graphql.String},
			"category": &graphql.Field{
				Type: category,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					src, _ := p.Source.(map[string]any)
					id, _ := src["category_id"].(int)
					return lookup(catalog.GetCategory(p.Context, uint(id)))
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(category))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list, err := catalog.ListCategories(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, c := range list {
						out[i] = categoryFields(c)
					}
					return out, nil
				},
			},
			"category": &graphql.Field{
				Type: category,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return lookup(catalog.GetCategory(p.Context, uint(p.Args["id"].(int))))
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(product))),
				Args: graphql.FieldConfigArgument{
					"category_id": &graphql.ArgumentConfig{Type: graphql.Int},
					"page":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: orm.DefaultLimit},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					var f services.ProductFilter
					if id, ok := p.Args["category_id"].(int); ok && id > 0 {
						f.CategoryID = uint(id)
					}
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)

					list, _, err := catalog.ListProducts(p.Context, f, orm.NewPage(page, limit))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, pr := range list {
						out[i] = productFields(pr)
					}
					return out, nil
				},
			},
			"product": &graphql.Field{
				Type: product,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					pr, err := catalog.GetProduct(p.Context, uint(p.Args["id"].(int)))
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return productFields(pr), nil
				},
			},
		},
	})

	return gqlhttp.NewSchema(query)
}

// lookup turns a missing category into a null result.
func lookup(c models.Category, err error) (any, error) {
	if errors.Is(err, services.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return categoryFields(c), nil
}

func categoryFields(c models.Category) map[string]any {
	return map[string]any{
		"id":          int(c.ID),
		"name":        c.Name,
		"description": c.Description,
	}
}

func productFields(p models.Product) map[string]any {
	return map[string]any{
		"id":          int(p.ID),
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.StringFixed(2),
		"stock":       p.Stock,
		"category_id": int(p.CategoryID),
		"image_url":   p.ImageURL,
	}
}
