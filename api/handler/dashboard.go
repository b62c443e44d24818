package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskboard/backend/pkg/httpcontext"
	dashboardUC "github.com/taskboard/backend/usecase/dashboard"
)

type DashboardHandler struct {
	baseHandler
	uc *dashboardUC.UseCase
}

func NewDashboardHandler(uc *dashboardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Task counts for the dashboard cards
// @Tags dashboard
// @Router /api/v1/dashboard/summary [get]
func (h *DashboardHandler) Summary(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Summary(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

// @Summary Created-vs-completed trend for the dashboard chart
// @Tags dashboard
// @Router /api/v1/dashboard/trend [get]
func (h *DashboardHandler) Trend(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	days := parseInt(string(ctx.QueryArgs().Peek("days")), 7)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	trend, err := h.uc.CompletionTrend(stdCtx, userID, days)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, trend)
}
