package handler

import (
	"context"
	"sync"

	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/reply"
	"github.com/c360/signalctl/session"
)

// SubscriptionTable records which object kinds each session wants pushed.
// The push path filters server-originated pushes through it.
type SubscriptionTable struct {
	mu   sync.RWMutex
	subs map[string]map[string]struct{} // token -> object kind set
}

// NewSubscriptionTable creates an empty table.
func NewSubscriptionTable() *SubscriptionTable {
	return &SubscriptionTable{subs: make(map[string]map[string]struct{})}
}

// Add records interest of the session in an object kind.
func (t *SubscriptionTable) Add(token, objName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.subs[token]
	if !ok {
		set = make(map[string]struct{})
		t.subs[token] = set
	}
	set[objName] = struct{}{}
}

// Remove drops interest of the session in an object kind. Removing an
// absent subscription is not an error.
func (t *SubscriptionTable) Remove(token, objName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if set, ok := t.subs[token]; ok {
		delete(set, objName)
		if len(set) == 0 {
			delete(t.subs, token)
		}
	}
}

// Wants reports whether the session subscribed to the object kind.
func (t *SubscriptionTable) Wants(token, objName string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.subs[token][objName]
	return ok
}

// DropSession removes all subscriptions of a session.
func (t *SubscriptionTable) DropSession(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.subs, token)
}

// Tokens returns the sessions subscribed to the object kind.
func (t *SubscriptionTable) Tokens(objName string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var tokens []string
	for token, set := range t.subs {
		if _, ok := set[objName]; ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Subscribe registers push interest for the caller's session. Token
// required.
type Subscribe struct {
	table *SubscriptionTable
}

// NewSubscribe creates the subscribe handler.
func NewSubscribe(table *SubscriptionTable) *Subscribe {
	return &Subscribe{table: table}
}

// Name implements dispatch.SessionHandler.
func (*Subscribe) Name() string { return "subscribe" }

// Supports matches Subscribe requests carrying a subscription object.
func (*Subscribe) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.Subscription](msg, protocol.OpSubscribe)
}

// HandleSession implements dispatch.SessionHandler.
func (h *Subscribe) HandleSession(_ context.Context, msg protocol.Message, sess *session.Session) (protocol.Message, error) {
	sub, err := subscription(msg)
	if err != nil {
		return protocol.Message{}, err
	}
	h.table.Add(sess.Token, sub.ObjName)
	return reply.Response(msg, sub), nil
}

// Unsubscribe removes push interest for the caller's session. Token
// required.
type Unsubscribe struct {
	table *SubscriptionTable
}

// NewUnsubscribe creates the unsubscribe handler.
func NewUnsubscribe(table *SubscriptionTable) *Unsubscribe {
	return &Unsubscribe{table: table}
}

// Name implements dispatch.SessionHandler.
func (*Unsubscribe) Name() string { return "unsubscribe" }

// Supports matches Unsubscribe requests carrying a subscription object.
func (*Unsubscribe) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.Subscription](msg, protocol.OpUnsubscribe)
}

// HandleSession implements dispatch.SessionHandler.
func (h *Unsubscribe) HandleSession(_ context.Context, msg protocol.Message, sess *session.Session) (protocol.Message, error) {
	sub, err := subscription(msg)
	if err != nil {
		return protocol.Message{}, err
	}
	h.table.Remove(sess.Token, sub.ObjName)
	return reply.Response(msg, sub), nil
}

func subscription(msg protocol.Message) (*model.Subscription, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return nil, err
	}
	sub := obj.(*model.Subscription)
	if sub.ObjName == "" {
		return nil, errors.Validation("objName", "must not be empty")
	}
	return sub, nil
}
