package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/prioplan/backend/pkg/httpcontext"
	"github.com/prioplan/backend/usecase/scheduler"
)

// SnapshotHandler exposes the export/import contract over HTTP. Export
// returns the raw snapshot payload so it can be saved to a file; import
// replaces the store contents wholesale.
type SnapshotHandler struct {
	baseHandler
	engine *scheduler.Engine
}

func NewSnapshotHandler(engine *scheduler.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

// @Summary Export all tasks
// @Tags snapshot
// @Router /api/v1/snapshot [get]
func (h *SnapshotHandler) Export(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payload, err := h.engine.ExportSnapshot(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(payload)
}

// @Summary Import tasks, replacing the store
// @Tags snapshot
// @Router /api/v1/snapshot [put]
func (h *SnapshotHandler) Import(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.engine.ImportSnapshot(stdCtx, ctx.PostBody()); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}
