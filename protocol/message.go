// Package protocol defines the envelope model for the signalctl message
// protocol: the Message/Body/Operation/Address value types, the closed
// vocabularies of message types and operation names, and the stateless
// helpers the dispatch layer builds on (sequence generation, identifier
// validation, address reversal, protocol time formats).
//
// Design principles:
//   - Envelopes are plain value types with no routing or transport logic
//   - Operation payloads are typed Objects from a closed vocabulary,
//     never runtime-probed blobs
//   - Helpers are pure; the only stateful type is SequenceGenerator
package protocol

import (
	"github.com/c360/signalctl/errors"
)

// Version is the protocol version carried by every envelope.
const Version = "2.0"

// MessageType classifies an envelope. Every REQUEST yields exactly one
// RESPONSE or ERROR with the same Seq and reversed addressing; PUSH is
// fire-and-forget.
type MessageType string

// The four envelope classes of the protocol.
const (
	TypeRequest  MessageType = "REQUEST"
	TypeResponse MessageType = "RESPONSE"
	TypePush     MessageType = "PUSH"
	TypeError    MessageType = "ERROR"
)

// OpName identifies an operation within a message body. The vocabulary is
// closed; handlers match on it.
type OpName string

// The operation vocabulary.
const (
	OpLogin       OpName = "Login"
	OpLogout      OpName = "Logout"
	OpSubscribe   OpName = "Subscribe"
	OpUnsubscribe OpName = "Unsubscribe"
	OpGet         OpName = "Get"
	OpSet         OpName = "Set"
	OpNotify      OpName = "Notify"
)

// Known logical system identifiers for envelope addressing.
const (
	SystemCenter = "TICP" // traffic information control platform
	SystemUTCS   = "UTCS" // urban traffic control system (signal subsystem)
)

// Address identifies a logical protocol endpoint, not a transport socket.
// SubSystem and Instance are optional.
type Address struct {
	System    string `json:"sys" xml:"Sys"`
	SubSystem string `json:"subsys,omitempty" xml:"SubSys,omitempty"`
	Instance  string `json:"instance,omitempty" xml:"Instance,omitempty"`
}

// Object is a payload object from the closed protocol vocabulary. Every
// command, query and runtime data struct carried inside an Operation
// implements it; ObjectName returns the wire element name used for codec
// round trips and kind matching.
type Object interface {
	ObjectName() string
}

// Operation is one unit of work inside a message body. Objects holds the
// payload; the wire format allows a single object or an ordered list, and the
// codec normalizes both shapes into this slice.
type Operation struct {
	Order   int      `json:"order" xml:"order,attr"`
	Name    OpName   `json:"name" xml:"name,attr"`
	Objects []Object `json:"-" xml:"-"`
}

// Body holds the ordered operations of a message.
type Body struct {
	Operations []Operation `json:"operations" xml:"Operation"`
}

// Message is the protocol envelope. Token is empty only for Login requests
// and server-originated pushes.
type Message struct {
	Version string      `json:"version" xml:"Version"`
	Token   string      `json:"token,omitempty" xml:"Token,omitempty"`
	Type    MessageType `json:"type" xml:"Type"`
	Seq     string      `json:"seq" xml:"Seq"`
	From    Address     `json:"from" xml:"From"`
	To      Address     `json:"to" xml:"To"`
	Body    Body        `json:"body" xml:"Body"`
}

// IsRequest reports whether m is a REQUEST envelope.
func (m Message) IsRequest() bool { return m.Type == TypeRequest }

// IsResponse reports whether m is a RESPONSE envelope.
func (m Message) IsResponse() bool { return m.Type == TypeResponse }

// IsPush reports whether m is a PUSH envelope.
func (m Message) IsPush() bool { return m.Type == TypePush }

// IsError reports whether m is an ERROR envelope.
func (m Message) IsError() bool { return m.Type == TypeError }

// FirstOperation returns the first operation of the body. Protocol messages
// produced by this stack carry exactly one operation; multi-operation bodies
// are dispatched per operation by the transport layer.
func (m Message) FirstOperation() (Operation, error) {
	if len(m.Body.Operations) == 0 {
		return Operation{}, errors.Protocol(errors.ErrEmptyBody, "message body carries no operation")
	}
	return m.Body.Operations[0], nil
}

// OperationName returns the name of the first operation, or the empty string
// for an empty body.
func (m Message) OperationName() OpName {
	if len(m.Body.Operations) == 0 {
		return ""
	}
	return m.Body.Operations[0].Name
}

// Objects returns the payload objects of the first operation as a uniform
// list, regardless of whether the wire form carried a single object or a
// list. An empty body yields an empty slice.
func (m Message) Objects() []Object {
	if len(m.Body.Operations) == 0 {
		return nil
	}
	return m.Body.Operations[0].Objects
}

// FirstObject returns the first payload object of the first operation.
func (m Message) FirstObject() (Object, error) {
	objs := m.Objects()
	if len(objs) == 0 {
		return nil, errors.Protocol(errors.ErrMissingPayload, "operation carries no payload object")
	}
	return objs[0], nil
}

// Validate performs structural validation of the envelope: version, type,
// sequence and addressing must be present, Login is the only request allowed
// without a token.
func (m Message) Validate() error {
	if m.Version == "" {
		return errors.Validation("version", "must not be empty")
	}
	switch m.Type {
	case TypeRequest, TypeResponse, TypePush, TypeError:
	default:
		return errors.Validation("type", "unknown message type %q", string(m.Type))
	}
	if m.Seq == "" {
		return errors.Validation("seq", "must not be empty")
	}
	if m.From.System == "" {
		return errors.Validation("from.sys", "must not be empty")
	}
	if m.To.System == "" {
		return errors.Validation("to.sys", "must not be empty")
	}
	if m.IsRequest() && m.Token == "" && m.OperationName() != OpLogin {
		return errors.Validation("token", "required for %s requests", string(m.OperationName()))
	}
	return nil
}

// NewRequest builds a REQUEST envelope carrying a single operation.
func NewRequest(seq, token string, from, to Address, name OpName, objects ...Object) Message {
	return newMessage(TypeRequest, seq, token, from, to, name, objects)
}

// NewPush builds a PUSH envelope carrying a single Notify operation.
func NewPush(seq string, from, to Address, objects ...Object) Message {
	return newMessage(TypePush, seq, "", from, to, OpNotify, objects)
}

func newMessage(t MessageType, seq, token string, from, to Address, name OpName, objects []Object) Message {
	return Message{
		Version: Version,
		Token:   token,
		Type:    t,
		Seq:     seq,
		From:    from,
		To:      to,
		Body: Body{Operations: []Operation{{
			Order:   1,
			Name:    name,
			Objects: objects,
		}}},
	}
}

// ReverseAddress returns the from/to pair a reply to m must carry: the
// original addresses swapped. Applying it twice is the identity.
func ReverseAddress(m Message) (from, to Address) {
	return m.To, m.From
}
