package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetAnalytics(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	snap, err := ctl.svc.GetAnalytics(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// RecomputeAnalytics always answers 200; a failed store shows up as the
// warning on the result.
func (ctl *Controller) RecomputeAnalytics(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	snap, res := ctl.svc.RecomputeAnalytics(ctx)
	c.JSON(http.StatusOK, gin.H{"result": res, "data": snap})
}

func (ctl *Controller) CacheInfo(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.svc.CacheInfo())
}

// ReadCollection serves any collection by name, along with which backend
// answered.
func (ctl *Controller) ReadCollection(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	data, res, err := ctl.svc.ReadNamed(ctx, c.Param("name"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     data,
		"backend":  res.Backend,
		"fallback": res.Fallback,
	})
}
