package handler

import (
	"context"

	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/reply"
	"github.com/c360/signalctl/retrans"
	"github.com/c360/signalctl/session"
)

// Retrans accepts retransmission requests for historical runtime data.
// Token required. The task runs asynchronously; the response reports the
// accepted task, and the replayed data arrives as pushes.
type Retrans struct {
	manager *retrans.Manager
}

// NewRetrans creates the retransmission handler.
func NewRetrans(manager *retrans.Manager) *Retrans {
	return &Retrans{manager: manager}
}

// Name implements dispatch.SessionHandler.
func (*Retrans) Name() string { return "retrans" }

// Supports matches Set requests carrying a report control command.
func (*Retrans) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.CrossReportCtrl](msg, protocol.OpSet)
}

// HandleSession implements dispatch.SessionHandler.
func (h *Retrans) HandleSession(_ context.Context, msg protocol.Message, _ *session.Session) (protocol.Message, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return protocol.Message{}, err
	}
	cmd := obj.(*model.CrossReportCtrl)

	task, err := h.manager.Create(*cmd)
	if err != nil {
		return protocol.Message{}, err
	}
	result := h.manager.Result(task)
	return reply.Response(msg, &result), nil
}
