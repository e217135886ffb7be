// Package reply builds outbound envelopes: responses and error responses to
// requests, and pushes. A reply always reuses the request's sequence and
// reverses its addressing.
package reply

import (
	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
)

// Response builds the RESPONSE to req. Result normalization follows the
// wire contract: no objects is a payload-less success, one object is placed
// directly as the operation payload, several objects use the protocol's
// native multi-object shape in order.
func Response(req protocol.Message, results ...protocol.Object) protocol.Message {
	from, to := protocol.ReverseAddress(req)
	return protocol.Message{
		Version: protocol.Version,
		Token:   req.Token,
		Type:    protocol.TypeResponse,
		Seq:     req.Seq,
		From:    from,
		To:      to,
		Body: protocol.Body{Operations: []protocol.Operation{{
			Order:   1,
			Name:    req.OperationName(),
			Objects: results,
		}}},
	}
}

// Error builds the ERROR reply to req carrying the stable wire code and
// human-readable description derived from err.
func Error(req protocol.Message, err error) protocol.Message {
	return ErrorWithObject(req, errors.CodeOf(err), err.Error(), contextObject(req))
}

// ErrorWithObject builds an ERROR reply with an explicit code, description
// and offending object name.
func ErrorWithObject(req protocol.Message, code, desc, errObj string) protocol.Message {
	from, to := protocol.ReverseAddress(req)
	return protocol.Message{
		Version: protocol.Version,
		Token:   req.Token,
		Type:    protocol.TypeError,
		Seq:     req.Seq,
		From:    from,
		To:      to,
		Body: protocol.Body{Operations: []protocol.Operation{{
			Order: 1,
			Name:  req.OperationName(),
			Objects: []protocol.Object{&model.ErrorInfo{
				ErrObj:  errObj,
				ErrCode: code,
				ErrDesc: desc,
			}},
		}}},
	}
}

// Push builds a PUSH envelope from from to to with the same payload
// normalization rule as Response. Pushes are fire-and-forget; no reply is
// expected.
func Push(seq string, from, to protocol.Address, data ...protocol.Object) protocol.Message {
	return protocol.NewPush(seq, from, to, data...)
}

// contextObject names the payload object a failed request carried, for the
// ErrObj field of the error payload.
func contextObject(req protocol.Message) string {
	if obj, err := req.FirstObject(); err == nil {
		return obj.ObjectName()
	}
	return ""
}
