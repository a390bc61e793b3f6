package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant/dataservice"
	"restaurant/migration"
)

func (ctl *Controller) ListCustomers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	customers, err := ctl.svc.ListCustomers(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (ctl *Controller) GetCustomer(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	customer, err := ctl.svc.GetCustomer(ctx, c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (ctl *Controller) AddCustomer(c *gin.Context) {
	var input dataservice.CustomerInput
	if !bind(c, &input) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	customer, res, err := ctl.svc.AddCustomer(ctx, input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, customer, res)
}

// MigrationReport is a dry run: it classifies every order without writing.
func (ctl *Controller) MigrationReport(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	report, err := ctl.migrator.GenerateReport(ctx)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// RunMigration executes a report previously fetched from MigrationReport.
// A report that no longer matches the data is refused with 409.
func (ctl *Controller) RunMigration(c *gin.Context) {
	var report migration.Report
	if !bind(c, &report) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := ctl.migrator.MigrateAll(ctx, report)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	status := http.StatusOK
	if res.Errors > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{"result": res})
}
