// Package service defines the downstream service contracts the protocol
// stack calls into. Implementations live outside this module (persistence,
// field communication); the stack depends only on these interfaces and
// propagates their declared business errors unchanged.
//
// All methods take a context; downstream calls may be slow and callers
// apply a timeout at the dispatch boundary.
package service

import (
	"context"
	"time"

	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
)

// Authenticator validates login credentials.
type Authenticator interface {
	// Authenticate returns nil when the user/password pair is valid.
	Authenticate(ctx context.Context, userName, password string) error
}

// SysInfoService reports the platform identity.
type SysInfoService interface {
	Get(ctx context.Context) (model.SysInfo, error)
}

// RegionService reads region configuration.
type RegionService interface {
	List(ctx context.Context) ([]model.RegionParam, error)
	Get(ctx context.Context, regionID string) (model.RegionParam, error)
}

// SubRegionService reads sub-region configuration.
type SubRegionService interface {
	List(ctx context.Context) ([]model.SubRegionParam, error)
	Get(ctx context.Context, subRegionID string) (model.SubRegionParam, error)
}

// RouteService reads route configuration.
type RouteService interface {
	List(ctx context.Context) ([]model.RouteParam, error)
	Get(ctx context.Context, routeID string) (model.RouteParam, error)
}

// CrossService reads intersection configuration.
type CrossService interface {
	List(ctx context.Context) ([]model.CrossParam, error)
	Get(ctx context.Context, crossID string) (model.CrossParam, error)
	Exists(ctx context.Context, crossID string) (bool, error)
}

// SignalControllerService reads field controller configuration.
type SignalControllerService interface {
	List(ctx context.Context) ([]model.SignalController, error)
	Get(ctx context.Context, signalControllerID string) (model.SignalController, error)
}

// LaneService reads lane configuration within an intersection.
type LaneService interface {
	ListByCross(ctx context.Context, crossID string) ([]model.LaneParam, error)
	Get(ctx context.Context, crossID string, laneNo int) (model.LaneParam, error)
}

// DetectorService reads detector configuration within an intersection.
type DetectorService interface {
	ListByCross(ctx context.Context, crossID string) ([]model.DetectorParam, error)
	Get(ctx context.Context, crossID string, detectorNo int) (model.DetectorParam, error)
}

// SignalGroupService reads signal group configuration within an intersection.
type SignalGroupService interface {
	ListByCross(ctx context.Context, crossID string) ([]model.SignalGroupParam, error)
	Get(ctx context.Context, crossID string, signalGroupNo int) (model.SignalGroupParam, error)
}

// StageService reads stage configuration within an intersection.
type StageService interface {
	ListByCross(ctx context.Context, crossID string) ([]model.StageParam, error)
	Get(ctx context.Context, crossID string, stageNo int) (model.StageParam, error)
}

// PlanService reads timing plan configuration within an intersection.
type PlanService interface {
	ListByCross(ctx context.Context, crossID string) ([]model.PlanParam, error)
	Get(ctx context.Context, crossID string, planNo int) (model.PlanParam, error)
	Exists(ctx context.Context, crossID string, planNo int) (bool, error)
}

// DayPlanService reads day plan configuration within an intersection.
type DayPlanService interface {
	ListByCross(ctx context.Context, crossID string) ([]model.DayPlanParam, error)
	Get(ctx context.Context, crossID string, dayPlanNo int) (model.DayPlanParam, error)
}

// ScheduleService reads schedule configuration within an intersection.
type ScheduleService interface {
	ListByCross(ctx context.Context, crossID string) ([]model.ScheduleParam, error)
	Get(ctx context.Context, crossID string, scheduleNo int) (model.ScheduleParam, error)
}

// RuntimeService reads live intersection state reported by the field layer.
type RuntimeService interface {
	State(ctx context.Context, crossID string) (model.CrossState, error)
	Cycle(ctx context.Context, crossID string) (model.CrossCycle, error)
	Stage(ctx context.Context, crossID string) (model.CrossStage, error)
	SignalGroupStatus(ctx context.Context, crossID string) (model.SignalGroupStatus, error)
	VarLaneStatusList(ctx context.Context, crossID string) ([]model.VarLaneStatus, error)
}

// ControlModeService reads and records the running mode-plan of an
// intersection.
type ControlModeService interface {
	Current(ctx context.Context, crossID string) (model.CrossModePlan, error)
	Set(ctx context.Context, modePlan model.CrossModePlan) error
}

// ControlService executes control commands against the field layer. The
// hardware-level effect is the implementation's concern; the orchestrator
// sequences validation, side effect and persistence.
type ControlService interface {
	SetControlMode(ctx context.Context, cmd model.CrossCtrlInfo) error
	EmergencyControl(ctx context.Context, crossID string, mode model.ControlMode) error
	LockFlowDirection(ctx context.Context, cmd model.LockFlowDirection) error
	UnlockFlowDirection(ctx context.Context, cmd model.UnlockFlowDirection) error
	StageIntervention(ctx context.Context, cmd model.AdjustStage) error
	CtrlVarLane(ctx context.Context, cmd model.CtrlVarLane) error
}

// RouteControlService reads route coordination state.
type RouteControlService interface {
	ControlMode(ctx context.Context, routeID string) (model.RouteControlMode, error)
	Speed(ctx context.Context, routeID string) (model.RouteSpeed, error)
}

// TrafficDataService records and reads periodic traffic data.
type TrafficDataService interface {
	Record(ctx context.Context, data model.CrossTrafficData) error
	Latest(ctx context.Context, crossID string) (model.CrossTrafficData, error)
}

// RunInfoRetransService reads historical runtime data for retransmission.
type RunInfoRetransService interface {
	// History returns stored runtime objects of the given kind for the
	// intersections and time range, in chronological order.
	History(ctx context.Context, objName string, crossIDs []string, start, end time.Time) ([]protocol.Object, error)
}

// DoorStatusService records controller cabinet door events.
type DoorStatusService interface {
	Record(ctx context.Context, status model.SCDoorStatus) error
}

// Registry groups the downstream services handler construction needs. It is
// assembled once at startup and injected; nothing reads it as ambient global
// state.
type Registry struct {
	Auth             Authenticator
	SysInfo          SysInfoService
	Region           RegionService
	SubRegion        SubRegionService
	Route            RouteService
	Cross            CrossService
	SignalController SignalControllerService
	Lane             LaneService
	Detector         DetectorService
	SignalGroup      SignalGroupService
	Stage            StageService
	Plan             PlanService
	DayPlan          DayPlanService
	Schedule         ScheduleService
	Runtime          RuntimeService
	ControlMode      ControlModeService
	Control          ControlService
	RouteControl     RouteControlService
	TrafficData      TrafficDataService
	RunInfoRetrans   RunInfoRetransService
	DoorStatus       DoorStatusService
}
