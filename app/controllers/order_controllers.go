package controllers

import (
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

func (oc *OrderController) Store(c *ctx.Context) {
	var in services.OrderInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := oc.service.Place(c.Context(), userID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(order)
}

func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.service.List(c.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(orders)
}

func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	order, err := oc.service.Get(c.Context(), userID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}

func (oc *OrderController) UpdateItems(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.OrderItemsInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := oc.service.ReplaceItems(c.Context(), userID(c), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}
