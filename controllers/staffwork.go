package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant/dataservice"
)

func (ctl *Controller) ListTasks(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	tasks, err := ctl.svc.ListTasks(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (ctl *Controller) AddTask(c *gin.Context) {
	var input dataservice.TaskInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	task, res, err := ctl.svc.AddTask(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, task, res)
}

func (ctl *Controller) UpdateTask(c *gin.Context) {
	var input dataservice.TaskInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	task, res, err := ctl.svc.UpdateTask(ctx, c.Param("id"), input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, task, res)
}

func (ctl *Controller) DeleteTask(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.svc.DeleteTask(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, nil, res)
}
