package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant/dataservice"
)

func (ctl *Controller) ListInventory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := ctl.svc.ListInventory(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ctl *Controller) AddInventoryItem(c *gin.Context) {
	var input dataservice.InventoryInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	item, res, err := ctl.svc.AddInventoryItem(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, item, res)
}

func (ctl *Controller) UpdateInventoryItem(c *gin.Context) {
	var input dataservice.InventoryInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	item, res, err := ctl.svc.UpdateInventoryItem(ctx, c.Param("id"), input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, item, res)
}

func (ctl *Controller) DeleteInventoryItem(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.DeleteInventoryItem(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}

func (ctl *Controller) AdjustStock(c *gin.Context) {
	var input []dataservice.StockUpdate
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.AdjustStock(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}
