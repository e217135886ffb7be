// Package dispatch implements the handler-chain routing engine. Handlers
// declare a predicate over inbound messages; the dispatcher selects the
// first match, wraps execution in the shared error-translation template and
// guarantees every request yields exactly one terminal reply.
//
// Predicate contract for handler authors: predicates of registered handlers
// must be mutually exclusive for any well-formed message. The dispatcher
// routes first-match-wins in registration order, and verifies exclusivity at
// registration time against a probe corpus (see WithProbes); two handlers
// matching the same probe reject the registration.
package dispatch

import (
	"context"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/reply"
	"github.com/c360/signalctl/session"
)

// Handler processes one class of inbound messages.
type Handler interface {
	// Name identifies the handler in logs and metrics.
	Name() string
	// Supports reports whether this handler processes msg. Predicates are
	// pure and built from message type, operation name and payload type.
	Supports(msg protocol.Message) bool
	// Handle processes msg and returns the reply payload source. A returned
	// error is translated to an ERROR reply by the dispatcher; handlers
	// never build error envelopes themselves.
	Handle(ctx context.Context, msg protocol.Message) (protocol.Message, error)
}

// SessionHandler is a handler needing the caller's resolved session.
type SessionHandler interface {
	Name() string
	Supports(msg protocol.Message) bool
	HandleSession(ctx context.Context, msg protocol.Message, sess *session.Session) (protocol.Message, error)
}

// tokenHandler adapts a SessionHandler into a Handler by resolving the
// message token first. Resolution failure short-circuits to an
// authentication ERROR; business errors from the wrapped handler pass
// through untouched.
type tokenHandler struct {
	sessions *session.Manager
	inner    SessionHandler
}

// RequireToken wraps h so its business logic always receives a validated
// session.
func RequireToken(sessions *session.Manager, h SessionHandler) Handler {
	return &tokenHandler{sessions: sessions, inner: h}
}

func (t *tokenHandler) Name() string { return t.inner.Name() }

func (t *tokenHandler) Supports(msg protocol.Message) bool { return t.inner.Supports(msg) }

func (t *tokenHandler) Handle(ctx context.Context, msg protocol.Message) (protocol.Message, error) {
	sess, err := t.sessions.Validate(msg.Token)
	if err != nil {
		return protocol.Message{}, err
	}
	return t.inner.HandleSession(ctx, msg, sess)
}

// FirstObjectIs reports whether the first payload object of msg is of type
// T. It is the building block of payload-shape predicates.
func FirstObjectIs[T protocol.Object](msg protocol.Message) bool {
	obj, err := msg.FirstObject()
	if err != nil {
		return false
	}
	_, ok := obj.(T)
	return ok
}

// IsRequestOf reports whether msg is a REQUEST with the given operation
// name carrying a first payload object of type T.
func IsRequestOf[T protocol.Object](msg protocol.Message, name protocol.OpName) bool {
	return msg.IsRequest() && msg.OperationName() == name && FirstObjectIs[T](msg)
}

// IsPushOf reports whether msg is a PUSH carrying a first payload object of
// type T.
func IsPushOf[T protocol.Object](msg protocol.Message) bool {
	return msg.IsPush() && FirstObjectIs[T](msg)
}

// errorReply builds the terminal ERROR envelope for a failed request.
func errorReply(msg protocol.Message, err error) protocol.Message {
	return reply.Error(msg, err)
}

// unsupportedReply is the dispatcher's fallback when no handler matches.
func unsupportedReply(msg protocol.Message) protocol.Message {
	return reply.Error(msg, errors.Protocol(errors.ErrUnsupportedMessage,
		"unsupported operation "+string(msg.OperationName())))
}
