package handler

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskboard/backend/api/transport"
	"github.com/taskboard/backend/internal/tasksync"
	"github.com/taskboard/backend/pkg/httpcontext"
)

// StreamHandler serves live task snapshots over server-sent events. Each
// connection mounts its own synchronizer, so the subscription lifecycle
// follows the connection: open on attach, torn down when the client goes
// away.
type StreamHandler struct {
	baseHandler
	store     tasksync.SubscribeStore
	heartbeat time.Duration
}

func NewStreamHandler(store tasksync.SubscribeStore, adapter *httpcontext.Adapter, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
		heartbeat:   15 * time.Second,
	}
}

type streamEvent struct {
	State string               `json:"state"`
	Tasks []transport.TaskView `json:"tasks"`
	Error string               `json:"error,omitempty"`
}

// @Summary Stream live task snapshots
// @Tags tasks
// @Router /api/v1/tasks/stream [get]
func (h *StreamHandler) Stream(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	ctx.Response.Header.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")

	logger := h.logger
	store := h.store
	heartbeat := h.heartbeat

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		events := make(chan tasksync.View, 8)

		sync := tasksync.NewSynchronizer(store, logger, tasksync.WithOnChange(func(view tasksync.View) {
			select {
			case events <- view:
			default:
				// a slow client drops intermediate snapshots; the next
				// one fully supersedes them anyway
			}
		}))
		sync.SetIdentity(userID)
		defer sync.Unmount()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case view := <-events:
				if err := writeEvent(w, view); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}

func writeEvent(w *bufio.Writer, view tasksync.View) error {
	payload, err := json.Marshal(streamEvent{
		State: view.State.String(),
		Tasks: transport.NewTaskViews(view.Tasks),
		Error: view.Err,
	})
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: snapshot\ndata: "); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
