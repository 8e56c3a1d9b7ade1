package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/response"
)

type AddressController struct {
	service *services.AddressService
}

func NewAddressController(service *services.AddressService) *AddressController {
	return &AddressController{service: service}
}

func (ac *AddressController) Index(c *ctx.Context) {
	list, err := ac.service.List(c.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (ac *AddressController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	address, err := ac.service.Get(c.Context(), userID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(address)
}

func (ac *AddressController) Store(c *ctx.Context) {
	var in services.AddressInput
	if !c.BindJSON(&in) {
		return
	}
	address, err := ac.service.Create(c.Context(), userID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(address)
}

func (ac *AddressController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var patch services.AddressPatch
	if !c.BindJSON(&patch) {
		return
	}
	address, err := ac.service.Update(c.Context(), userID(c), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(address)
}

func (ac *AddressController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := ac.service.Delete(c.Context(), userID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Message: "Address deleted successfully"})
}
