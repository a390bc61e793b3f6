package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant/dataservice"
	"restaurant/fault"
)

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ctl *Controller) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	staff, err := ctl.svc.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		if fault.KindOf(err) == fault.Validation {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		ctl.respondError(c, err)
		return
	}

	token, err := ctl.tokens.Generate(staff.ID, staff.Username, staff.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while generating token"})
		return
	}
	c.SetCookie("token", token, 3600*24, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"staffID":  staff.ID,
		"role":     staff.Role,
		"fullName": staff.FullName,
	})
}

func (ctl *Controller) ListStaff(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	staff, err := ctl.svc.ListStaff(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (ctl *Controller) AddStaff(c *gin.Context) {
	var input dataservice.StaffInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	staff, res, err := ctl.svc.AddStaff(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, staff, res)
}

func (ctl *Controller) DeleteStaff(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	if c.Param("id") == c.GetString("staffID") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}
	res, err := ctl.svc.DeleteStaff(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}
