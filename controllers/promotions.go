package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant/dataservice"
)

func (ctl *Controller) ListCombos(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	combos, err := ctl.svc.ListCombos(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combos)
}

func (ctl *Controller) AddCombo(c *gin.Context) {
	var input dataservice.ComboInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	combo, res, err := ctl.svc.AddCombo(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, combo, res)
}

func (ctl *Controller) UpdateCombo(c *gin.Context) {
	var input dataservice.ComboInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	combo, res, err := ctl.svc.UpdateCombo(ctx, c.Param("id"), input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, combo, res)
}

func (ctl *Controller) DeleteCombo(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.DeleteCombo(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}

// ListOffers returns only the offers running now unless ?all=true.
func (ctl *Controller) ListOffers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	list := ctl.svc.ActiveOffers
	if c.Query("all") == "true" {
		list = ctl.svc.ListOffers
	}
	offers, err := list(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (ctl *Controller) AddOffer(c *gin.Context) {
	var input dataservice.OfferInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	offer, res, err := ctl.svc.AddOffer(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, offer, res)
}

func (ctl *Controller) UpdateOffer(c *gin.Context) {
	var input dataservice.OfferInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	offer, res, err := ctl.svc.UpdateOffer(ctx, c.Param("id"), input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, offer, res)
}

func (ctl *Controller) DeleteOffer(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.DeleteOffer(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}

func (ctl *Controller) ListSpecials(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	specials, err := ctl.svc.ListSpecials(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, specials)
}

func (ctl *Controller) AddSpecial(c *gin.Context) {
	var input dataservice.SpecialInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	special, res, err := ctl.svc.AddSpecial(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, special, res)
}

func (ctl *Controller) UpdateSpecial(c *gin.Context) {
	var input dataservice.SpecialInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	special, res, err := ctl.svc.UpdateSpecial(ctx, c.Param("id"), input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, special, res)
}

func (ctl *Controller) DeleteSpecial(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.DeleteSpecial(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}
