// Package codec serializes protocol envelopes to and from their wire forms.
// XML is the primary wire form; JSON is supported for fixtures and the
// monitor feed. Payload objects are recreated through a closed Registry of
// typed factories keyed by wire element name, so decoding never produces
// loosely-typed maps.
package codec

import (
	"fmt"
	"sync"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
)

// Factory creates an empty payload object ready for decoding. Factories
// return pointers; decoded messages therefore carry pointer objects, and
// handlers match on pointer types.
type Factory func() protocol.Object

// Registry manages payload factories for envelope decoding. It provides
// thread-safe registration and lookup by wire element name.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty payload registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given wire element name. Registering the
// same name twice is an error; the payload vocabulary is closed and each
// name maps to exactly one type.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return errors.Protocol(errors.ErrPayloadTypeConflict, "payload registration requires name and factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Protocol(errors.ErrPayloadTypeConflict,
			fmt.Sprintf("payload type %q already registered", name))
	}
	r.factories[name] = factory
	return nil
}

// New creates an empty payload object for the given wire element name.
// The second return is false for names outside the vocabulary.
func (r *Registry) New(name string) (protocol.Object, bool) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Names returns the registered wire element names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// NewDefaultRegistry creates a registry covering the full model vocabulary:
// every configuration object, runtime object, command and result DTO the
// protocol carries.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for name, factory := range map[string]Factory{
		string(model.KindSysInfo):           func() protocol.Object { return &model.SysInfo{} },
		string(model.KindRegionParam):       func() protocol.Object { return &model.RegionParam{} },
		string(model.KindSubRegionParam):    func() protocol.Object { return &model.SubRegionParam{} },
		string(model.KindRouteParam):        func() protocol.Object { return &model.RouteParam{} },
		string(model.KindCrossParam):        func() protocol.Object { return &model.CrossParam{} },
		string(model.KindSignalController):  func() protocol.Object { return &model.SignalController{} },
		string(model.KindLaneParam):         func() protocol.Object { return &model.LaneParam{} },
		string(model.KindDetectorParam):     func() protocol.Object { return &model.DetectorParam{} },
		string(model.KindSignalGroupParam):  func() protocol.Object { return &model.SignalGroupParam{} },
		string(model.KindStageParam):        func() protocol.Object { return &model.StageParam{} },
		string(model.KindPlanParam):         func() protocol.Object { return &model.PlanParam{} },
		string(model.KindDayPlanParam):      func() protocol.Object { return &model.DayPlanParam{} },
		string(model.KindScheduleParam):     func() protocol.Object { return &model.ScheduleParam{} },
		string(model.KindCrossState):        func() protocol.Object { return &model.CrossState{} },
		string(model.KindCrossModePlan):     func() protocol.Object { return &model.CrossModePlan{} },
		string(model.KindCrossCycle):        func() protocol.Object { return &model.CrossCycle{} },
		string(model.KindCrossStage):        func() protocol.Object { return &model.CrossStage{} },
		string(model.KindSignalGroupStatus): func() protocol.Object { return &model.SignalGroupStatus{} },
		string(model.KindCrossTrafficData):  func() protocol.Object { return &model.CrossTrafficData{} },
		string(model.KindVarLaneStatus):     func() protocol.Object { return &model.VarLaneStatus{} },
		string(model.KindRouteControlMode):  func() protocol.Object { return &model.RouteControlMode{} },
		string(model.KindRouteSpeed):        func() protocol.Object { return &model.RouteSpeed{} },
		string(model.KindSCDoorStatus):      func() protocol.Object { return &model.SCDoorStatus{} },
		model.NameUserInfo:                  func() protocol.Object { return &model.UserInfo{} },
		model.NameTSCCmd:                    func() protocol.Object { return &model.TSCCmd{} },
		model.NameCrossCtrlInfo:             func() protocol.Object { return &model.CrossCtrlInfo{} },
		model.NameLockFlowDirection:         func() protocol.Object { return &model.LockFlowDirection{} },
		model.NameUnlockFlowDirection:       func() protocol.Object { return &model.UnlockFlowDirection{} },
		model.NameAdjustStage:               func() protocol.Object { return &model.AdjustStage{} },
		model.NameCtrlVarLane:               func() protocol.Object { return &model.CtrlVarLane{} },
		model.NameCrossReportCtrl:           func() protocol.Object { return &model.CrossReportCtrl{} },
		model.NameSubscription:              func() protocol.Object { return &model.Subscription{} },
		model.NameLoginResult:               func() protocol.Object { return &model.LoginResult{} },
		model.NameCommandAck:                func() protocol.Object { return &model.CommandAck{} },
		model.NameRetransResult:             func() protocol.Object { return &model.RetransResult{} },
		model.NameErrorInfo:                 func() protocol.Object { return &model.ErrorInfo{} },
	} {
		// Names are compile-time unique; Register cannot fail here.
		_ = r.Register(name, factory)
	}
	return r
}
