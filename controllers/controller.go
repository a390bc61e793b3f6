package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restaurant/dataservice"
	"restaurant/fault"
	"restaurant/migration"
	"restaurant/utils"
)

const requestTimeout = 10 * time.Second

// Controller holds what the handlers need. Handlers only translate HTTP to
// façade calls and back.
type Controller struct {
	svc      *dataservice.Service
	migrator *migration.Migrator
	tokens   *utils.Tokens
	log      *slog.Logger
}

func New(svc *dataservice.Service, migrator *migration.Migrator, tokens *utils.Tokens, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{svc: svc, migrator: migrator, tokens: tokens, log: logger}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

var statusByKind = map[fault.Kind]int{
	fault.Validation:        http.StatusBadRequest,
	fault.NotFound:          http.StatusNotFound,
	fault.DuplicateConflict: http.StatusConflict,
	fault.StaleReport:       http.StatusConflict,
	fault.Persistence:       http.StatusServiceUnavailable,
}

// respondError maps a façade error to its status and a {"error", "kind"} body.
func (ctl *Controller) respondError(c *gin.Context, err error) {
	kind := fault.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
	}
	if status >= http.StatusInternalServerError {
		ctl.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// respondWrite answers a write. A batch where some records were skipped is
// a 207 tagged partial_batch.
func respondWrite(c *gin.Context, status int, data any, res dataservice.WriteResult) {
	body := gin.H{"result": res}
	if data != nil {
		body["data"] = data
	}
	if res.Partial() {
		status = http.StatusMultiStatus
		body["kind"] = fault.PartialBatch
	}
	c.JSON(status, body)
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": fault.Validation})
		return false
	}
	return true
}
