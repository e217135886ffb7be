package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/protocol"
)

// Codec serializes envelopes using a payload registry to recreate typed
// operation objects.
type Codec struct {
	registry *Registry
}

// New creates a codec over the given registry.
func New(registry *Registry) *Codec {
	return &Codec{registry: registry}
}

// Wire structures. The operation element carries either a single payload
// element or an ordered list of payload elements; decoding normalizes both
// shapes into the Objects slice.
type xmlAddress struct {
	System    string `xml:"Sys"`
	SubSystem string `xml:"SubSys,omitempty"`
	Instance  string `xml:"Instance,omitempty"`
}

type xmlRawObject struct {
	XMLName xml.Name
	Inner   []byte `xml:",innerxml"`
}

type xmlOperation struct {
	Order   int            `xml:"order,attr"`
	Name    string         `xml:"name,attr"`
	Objects []xmlRawObject `xml:",any"`
}

type xmlMessage struct {
	XMLName xml.Name       `xml:"Message"`
	Version string         `xml:"Version"`
	Token   string         `xml:"Token,omitempty"`
	Type    string         `xml:"Type"`
	Seq     string         `xml:"Seq"`
	From    xmlAddress     `xml:"From"`
	To      xmlAddress     `xml:"To"`
	Ops     []xmlOperation `xml:"Body>Operation"`
}

// DecodeXML parses an XML envelope, recreating typed payload objects through
// the registry. An object element outside the vocabulary is a protocol
// error.
func (c *Codec) DecodeXML(data []byte) (protocol.Message, error) {
	var wire xmlMessage
	if err := xml.Unmarshal(data, &wire); err != nil {
		return protocol.Message{}, errors.Protocol(err, "malformed XML envelope")
	}

	msg := protocol.Message{
		Version: wire.Version,
		Token:   wire.Token,
		Type:    protocol.MessageType(wire.Type),
		Seq:     wire.Seq,
		From:    protocol.Address(wire.From),
		To:      protocol.Address(wire.To),
	}

	for _, op := range wire.Ops {
		decoded := protocol.Operation{
			Order: op.Order,
			Name:  protocol.OpName(op.Name),
		}
		for _, raw := range op.Objects {
			obj, err := c.decodeObject(raw)
			if err != nil {
				return protocol.Message{}, err
			}
			decoded.Objects = append(decoded.Objects, obj)
		}
		msg.Body.Operations = append(msg.Body.Operations, decoded)
	}
	return msg, nil
}

func (c *Codec) decodeObject(raw xmlRawObject) (protocol.Object, error) {
	obj, ok := c.registry.New(raw.XMLName.Local)
	if !ok {
		return nil, errors.Protocol(errors.ErrUnknownObjectKind,
			fmt.Sprintf("unknown payload element %q", raw.XMLName.Local))
	}

	// Re-wrap the inner XML so the typed struct decodes against its own
	// element name.
	var buf bytes.Buffer
	buf.WriteString("<" + raw.XMLName.Local + ">")
	buf.Write(raw.Inner)
	buf.WriteString("</" + raw.XMLName.Local + ">")
	if err := xml.Unmarshal(buf.Bytes(), obj); err != nil {
		return nil, errors.Protocol(err,
			fmt.Sprintf("malformed %q payload", raw.XMLName.Local))
	}
	return obj, nil
}

// EncodeXML renders an envelope in the XML wire form. Payload objects are
// written under their wire element names.
func (c *Codec) EncodeXML(m protocol.Message) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	start := xml.StartElement{Name: xml.Name{Local: "Message"}}
	if err := enc.EncodeToken(start); err != nil {
		return nil, errors.Wrap(err, "Codec", "EncodeXML", "message open")
	}

	type simple struct {
		name  string
		value string
	}
	for _, el := range []simple{
		{"Version", m.Version},
		{"Token", m.Token},
		{"Type", string(m.Type)},
		{"Seq", m.Seq},
	} {
		if el.name == "Token" && el.value == "" {
			continue
		}
		if err := enc.EncodeElement(el.value, xml.StartElement{Name: xml.Name{Local: el.name}}); err != nil {
			return nil, errors.Wrap(err, "Codec", "EncodeXML", el.name)
		}
	}
	if err := enc.EncodeElement(xmlAddress(m.From), xml.StartElement{Name: xml.Name{Local: "From"}}); err != nil {
		return nil, errors.Wrap(err, "Codec", "EncodeXML", "from address")
	}
	if err := enc.EncodeElement(xmlAddress(m.To), xml.StartElement{Name: xml.Name{Local: "To"}}); err != nil {
		return nil, errors.Wrap(err, "Codec", "EncodeXML", "to address")
	}

	body := xml.StartElement{Name: xml.Name{Local: "Body"}}
	if err := enc.EncodeToken(body); err != nil {
		return nil, errors.Wrap(err, "Codec", "EncodeXML", "body open")
	}
	for _, op := range m.Body.Operations {
		opStart := xml.StartElement{
			Name: xml.Name{Local: "Operation"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "order"}, Value: fmt.Sprintf("%d", op.Order)},
				{Name: xml.Name{Local: "name"}, Value: string(op.Name)},
			},
		}
		if err := enc.EncodeToken(opStart); err != nil {
			return nil, errors.Wrap(err, "Codec", "EncodeXML", "operation open")
		}
		for _, obj := range op.Objects {
			el := xml.StartElement{Name: xml.Name{Local: obj.ObjectName()}}
			if err := enc.EncodeElement(obj, el); err != nil {
				return nil, errors.Wrap(err, "Codec", "EncodeXML", "payload object")
			}
		}
		if err := enc.EncodeToken(opStart.End()); err != nil {
			return nil, errors.Wrap(err, "Codec", "EncodeXML", "operation close")
		}
	}
	if err := enc.EncodeToken(body.End()); err != nil {
		return nil, errors.Wrap(err, "Codec", "EncodeXML", "body close")
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return nil, errors.Wrap(err, "Codec", "EncodeXML", "message close")
	}
	if err := enc.Flush(); err != nil {
		return nil, errors.Wrap(err, "Codec", "EncodeXML", "flush")
	}
	return buf.Bytes(), nil
}
