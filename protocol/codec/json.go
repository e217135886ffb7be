package codec

import (
	"encoding/json"
	"fmt"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/protocol"
)

// JSON wire structures. Payload objects carry an explicit type tag because
// JSON has no element names; the tag is the same wire name the XML form
// uses.
type jsonObject struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type jsonOperation struct {
	Order   int          `json:"order"`
	Name    string       `json:"name"`
	Objects []jsonObject `json:"objects,omitempty"`
}

type jsonMessage struct {
	Version string           `json:"version"`
	Token   string           `json:"token,omitempty"`
	Type    string           `json:"type"`
	Seq     string           `json:"seq"`
	From    protocol.Address `json:"from"`
	To      protocol.Address `json:"to"`
	Ops     []jsonOperation  `json:"operations"`
}

// DecodeJSON parses a JSON envelope, recreating typed payload objects
// through the registry.
func (c *Codec) DecodeJSON(data []byte) (protocol.Message, error) {
	var wire jsonMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return protocol.Message{}, errors.Protocol(err, "malformed JSON envelope")
	}

	msg := protocol.Message{
		Version: wire.Version,
		Token:   wire.Token,
		Type:    protocol.MessageType(wire.Type),
		Seq:     wire.Seq,
		From:    wire.From,
		To:      wire.To,
	}
	for _, op := range wire.Ops {
		decoded := protocol.Operation{Order: op.Order, Name: protocol.OpName(op.Name)}
		for _, raw := range op.Objects {
			obj, ok := c.registry.New(raw.Type)
			if !ok {
				return protocol.Message{}, errors.Protocol(errors.ErrUnknownObjectKind,
					fmt.Sprintf("unknown payload type %q", raw.Type))
			}
			if err := json.Unmarshal(raw.Data, obj); err != nil {
				return protocol.Message{}, errors.Protocol(err,
					fmt.Sprintf("malformed %q payload", raw.Type))
			}
			decoded.Objects = append(decoded.Objects, obj)
		}
		msg.Body.Operations = append(msg.Body.Operations, decoded)
	}
	return msg, nil
}

// EncodeJSON renders an envelope in the JSON wire form.
func (c *Codec) EncodeJSON(m protocol.Message) ([]byte, error) {
	wire := jsonMessage{
		Version: m.Version,
		Token:   m.Token,
		Type:    string(m.Type),
		Seq:     m.Seq,
		From:    m.From,
		To:      m.To,
	}
	for _, op := range m.Body.Operations {
		encoded := jsonOperation{Order: op.Order, Name: string(op.Name)}
		for _, obj := range op.Objects {
			data, err := json.Marshal(obj)
			if err != nil {
				return nil, errors.Wrap(err, "Codec", "EncodeJSON", "payload object")
			}
			encoded.Objects = append(encoded.Objects, jsonObject{
				Type: obj.ObjectName(),
				Data: data,
			})
		}
		wire.Ops = append(wire.Ops, encoded)
	}
	return json.Marshal(wire)
}
