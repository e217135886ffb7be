package handler

import (
	"context"

	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/query"
	"github.com/c360/signalctl/reply"
	"github.com/c360/signalctl/session"
)

// ObjectQuery answers Get requests carrying a TSCCmd by routing the command
// through the query router. Token required.
type ObjectQuery struct {
	router *query.Router
}

// NewObjectQuery creates the object query handler.
func NewObjectQuery(router *query.Router) *ObjectQuery {
	return &ObjectQuery{router: router}
}

// Name implements dispatch.SessionHandler.
func (*ObjectQuery) Name() string { return "object-query" }

// Supports matches Get requests carrying an object query command.
func (*ObjectQuery) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.TSCCmd](msg, protocol.OpGet)
}

// HandleSession implements dispatch.SessionHandler.
func (h *ObjectQuery) HandleSession(ctx context.Context, msg protocol.Message, _ *session.Session) (protocol.Message, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return protocol.Message{}, err
	}
	cmd := obj.(*model.TSCCmd)

	results, err := h.router.Resolve(ctx, *cmd)
	if err != nil {
		return protocol.Message{}, err
	}
	return reply.Response(msg, results...), nil
}
