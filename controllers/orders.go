package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant/dataservice"
	"restaurant/models"
)

// CreateOrder is public. Staff placing an order on the floor are recorded
// as its staff member; the staff member is only ever taken from the token.
func (ctl *Controller) CreateOrder(c *gin.Context) {
	var input dataservice.OrderInput
	if !bind(c, &input) {
		return
	}
	input.StaffMember = c.GetString("username")
	ctx, cancel := requestContext(c)
	defer cancel()
	order, res, err := ctl.svc.CreateOrder(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, order, res)
}

func (ctl *Controller) GetOrderByID(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	order, err := ctl.svc.GetOrder(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders takes an optional ?status= filter.
func (ctl *Controller) ListOrders(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	orders, err := ctl.svc.ListOrders(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	if status := models.OrderStatus(c.Query("status")); status != "" {
		filtered := []models.Order{}
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	c.JSON(http.StatusOK, orders)
}

type statusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (ctl *Controller) UpdateOrderStatus(c *gin.Context) {
	var input statusInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	order, res, err := ctl.svc.UpdateOrderStatus(ctx, c.Param("id"), input.Status)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, order, res)
}

func (ctl *Controller) DeleteOrder(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.DeleteOrder(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}
