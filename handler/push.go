package handler

import (
	"context"

	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/service"
)

// DoorStatusPush records controller cabinet door events pushed by the field
// side. Pushes are fire-and-forget; failures are logged by the dispatcher,
// never replied.
type DoorStatusPush struct {
	doorStatus service.DoorStatusService
}

// NewDoorStatusPush creates the door status push handler.
func NewDoorStatusPush(doorStatus service.DoorStatusService) *DoorStatusPush {
	return &DoorStatusPush{doorStatus: doorStatus}
}

// Name implements dispatch.Handler.
func (*DoorStatusPush) Name() string { return "door-status-push" }

// Supports matches pushes carrying door status reports.
func (*DoorStatusPush) Supports(msg protocol.Message) bool {
	return dispatch.IsPushOf[*model.SCDoorStatus](msg)
}

// Handle implements dispatch.Handler. Every object of the push is recorded;
// the first failure aborts.
func (h *DoorStatusPush) Handle(ctx context.Context, msg protocol.Message) (protocol.Message, error) {
	for _, obj := range msg.Objects() {
		status, ok := obj.(*model.SCDoorStatus)
		if !ok {
			return protocol.Message{}, errors.Protocol(errors.ErrUnknownObjectKind,
				"mixed payload in door status push")
		}
		if err := protocol.CheckSignalControllerID(status.SignalControllerID); err != nil {
			return protocol.Message{}, err
		}
		if err := h.doorStatus.Record(ctx, *status); err != nil {
			return protocol.Message{}, errors.Business(err, "door status record failed")
		}
	}
	return protocol.Message{}, nil
}

// TrafficDataPush records periodic traffic data pushed by the field side.
type TrafficDataPush struct {
	trafficData service.TrafficDataService
}

// NewTrafficDataPush creates the traffic data push handler.
func NewTrafficDataPush(trafficData service.TrafficDataService) *TrafficDataPush {
	return &TrafficDataPush{trafficData: trafficData}
}

// Name implements dispatch.Handler.
func (*TrafficDataPush) Name() string { return "traffic-data-push" }

// Supports matches pushes carrying traffic data reports.
func (*TrafficDataPush) Supports(msg protocol.Message) bool {
	return dispatch.IsPushOf[*model.CrossTrafficData](msg)
}

// Handle implements dispatch.Handler.
func (h *TrafficDataPush) Handle(ctx context.Context, msg protocol.Message) (protocol.Message, error) {
	for _, obj := range msg.Objects() {
		data, ok := obj.(*model.CrossTrafficData)
		if !ok {
			return protocol.Message{}, errors.Protocol(errors.ErrUnknownObjectKind,
				"mixed payload in traffic data push")
		}
		if err := protocol.CheckCrossID(data.CrossID); err != nil {
			return protocol.Message{}, err
		}
		if err := h.trafficData.Record(ctx, *data); err != nil {
			return protocol.Message{}, errors.Business(err, "traffic data record failed")
		}
	}
	return protocol.Message{}, nil
}
