// Package handler provides the concrete protocol handlers wired into the
// dispatcher: authentication, object queries, control commands,
// retransmission, subscriptions and inbound push recording.
package handler

import (
	"context"

	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/reply"
	"github.com/c360/signalctl/session"
)

// Login authenticates the caller and issues a session token. It is the only
// request handler reachable without a token.
type Login struct {
	sessions *session.Manager
}

// NewLogin creates the login handler.
func NewLogin(sessions *session.Manager) *Login {
	return &Login{sessions: sessions}
}

// Name implements dispatch.Handler.
func (*Login) Name() string { return "login" }

// Supports matches Login requests carrying credentials.
func (*Login) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.UserInfo](msg, protocol.OpLogin)
}

// Handle implements dispatch.Handler.
func (h *Login) Handle(ctx context.Context, msg protocol.Message) (protocol.Message, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return protocol.Message{}, err
	}
	creds := obj.(*model.UserInfo)

	sess, err := h.sessions.Login(ctx, msg.From, *creds, msg.From.System)
	if err != nil {
		return protocol.Message{}, err
	}
	return reply.Response(msg, &model.LoginResult{
		UserName: sess.UserName,
		Token:    sess.Token,
	}), nil
}

// Logout ends the caller's session. It does not use the token-required
// wrapper: logging out an already-invalid token succeeds.
type Logout struct {
	sessions      *session.Manager
	subscriptions *SubscriptionTable
}

// NewLogout creates the logout handler.
func NewLogout(sessions *session.Manager, subscriptions *SubscriptionTable) *Logout {
	return &Logout{sessions: sessions, subscriptions: subscriptions}
}

// Name implements dispatch.Handler.
func (*Logout) Name() string { return "logout" }

// Supports matches Logout requests.
func (*Logout) Supports(msg protocol.Message) bool {
	return msg.IsRequest() && msg.OperationName() == protocol.OpLogout
}

// Handle implements dispatch.Handler.
func (h *Logout) Handle(_ context.Context, msg protocol.Message) (protocol.Message, error) {
	h.sessions.Logout(msg.Token)
	h.subscriptions.DropSession(msg.Token)
	return reply.Response(msg), nil
}
