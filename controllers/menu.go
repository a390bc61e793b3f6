package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant/dataservice"
)

// GetMenu is the public menu: items switched off in availability are hidden.
func (ctl *Controller) GetMenu(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	menu, err := ctl.svc.AvailableMenu(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (ctl *Controller) ListMenu(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	menu, err := ctl.svc.ListMenu(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (ctl *Controller) AddMenuItem(c *gin.Context) {
	var input dataservice.MenuItemInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	item, res, err := ctl.svc.AddMenuItem(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, item, res)
}

func (ctl *Controller) UpdateMenuItem(c *gin.Context) {
	var input dataservice.MenuItemInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	item, res, err := ctl.svc.UpdateMenuItem(ctx, c.Param("id"), input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, item, res)
}

func (ctl *Controller) DeleteMenuItem(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.DeleteMenuItem(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}

func (ctl *Controller) UpdateMenuPrices(c *gin.Context) {
	var input []dataservice.PriceUpdate
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.UpdateMenuPrices(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}

func (ctl *Controller) GetAvailability(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	avail, err := ctl.svc.GetAvailability(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

// SetAvailability takes {"<menu item id>": true|false, ...}.
func (ctl *Controller) SetAvailability(c *gin.Context) {
	var input map[string]bool
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.SetAvailability(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}
