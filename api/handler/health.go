package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/prioplan/backend/internal/infrastructure/snapshot"
	"github.com/prioplan/backend/pkg/httpcontext"
	"github.com/prioplan/backend/usecase/scheduler"
)

type HealthHandler struct {
	baseHandler
	engine *scheduler.Engine
	store  *snapshot.Store
}

func NewHealthHandler(engine *scheduler.Engine, store *snapshot.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
		store:       store,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	all, err := h.engine.ListTasks(stdCtx, false)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	active, err := h.engine.ListTasks(stdCtx, true)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	snapshots := 0
	snapshotOK := h.store != nil
	if h.store != nil {
		if n, err := h.store.Size(); err == nil {
			snapshots = n
		} else {
			snapshotOK = false
		}
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"tasks": map[string]int{
			"total":  len(all),
			"active": len(active),
		},
		"snapshot_store": map[string]interface{}{
			"online":  snapshotOK,
			"entries": snapshots,
		},
	})
}
