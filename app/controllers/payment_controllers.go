package controllers

import (
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
)

type PaymentController struct {
	service *services.PaymentService
}

func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

func (pc *PaymentController) Store(c *ctx.Context) {
	var in services.PaymentInput
	if !c.BindJSON(&in) {
		return
	}
	payment, err := pc.service.Pay(c.Context(), userID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(payment)
}

func (pc *PaymentController) Index(c *ctx.Context) {
	payments, err := pc.service.List(c.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(payments)
}

// UpdateStatus reads the new status from ?status= or a JSON body. The value
// itself is checked by the service, after ownership.
func (pc *PaymentController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}

	status := c.Query("status")
	if status == "" {
		var body struct {
			Status string `json:"status"`
		}
		if !c.BindJSON(&body) {
			return
		}
		status = body.Status
	}

	payment, err := pc.service.UpdateStatus(c.Context(), userID(c), id, status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(payment)
}
