package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/prioplan/backend/api/transport"
	"github.com/prioplan/backend/pkg/httpcontext"
	"github.com/prioplan/backend/usecase/scheduler"
)

// ScheduleHandler serves the "what next" queries and the global re-ranking.
type ScheduleHandler struct {
	baseHandler
	engine *scheduler.Engine
}

func NewScheduleHandler(engine *scheduler.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

// @Summary Peek the most urgent task
// @Tags schedule
// @Router /api/v1/tasks/next [get]
func (h *ScheduleHandler) NextTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.engine.PeekNext(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if task == nil {
		h.respondSuccess(ctx, http.StatusNoContent, nil)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Claim the most urgent task
// @Tags schedule
// @Router /api/v1/tasks/next/claim [post]
func (h *ScheduleHandler) ClaimNextTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.engine.PopNext(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if task == nil {
		h.respondSuccess(ctx, http.StatusNoContent, nil)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Suggested global working order
// @Tags schedule
// @Router /api/v1/schedule [get]
func (h *ScheduleHandler) GlobalSchedule(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, err := h.engine.GlobalSchedule(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	tasks, err := h.engine.ListTasks(stdCtx, false)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}

	h.respondSuccess(ctx, http.StatusOK, transport.ScheduleResponse{
		Order:  order,
		Titles: titles,
	})
}
