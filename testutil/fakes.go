// Package testutil provides in-memory service fakes and message builders
// shared by the package tests. The fakes keep all state in maps and record
// the commands handed to them so tests can assert on side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/service"
)

// Canonical identifiers used across fixtures and tests.
const (
	RegionID     = "110100000"
	SubRegionID  = "11010000001"
	RouteID      = "110100001"
	CrossID      = "11010000100001"
	CrossID2     = "11010000100002"
	ControllerID = "110100000000000001"

	UserName = "operator"
	Password = "secret"
)

// FakeAuth authenticates a fixed user table.
type FakeAuth struct {
	Users map[string]string
}

// Authenticate implements service.Authenticator.
func (f *FakeAuth) Authenticate(_ context.Context, userName, password string) error {
	if pw, ok := f.Users[userName]; ok && pw == password {
		return nil
	}
	return errors.Authentication(errors.ErrBadCredentials, "unknown user or wrong password")
}

// FakeSysInfo serves a fixed platform identity.
type FakeSysInfo struct {
	Info model.SysInfo
}

// Get implements service.SysInfoService.
func (f *FakeSysInfo) Get(_ context.Context) (model.SysInfo, error) {
	return f.Info, nil
}

// FakeRegions serves region configuration from a slice.
type FakeRegions struct {
	Items []model.RegionParam
}

// List implements service.RegionService.
func (f *FakeRegions) List(_ context.Context) ([]model.RegionParam, error) {
	return f.Items, nil
}

// Get implements service.RegionService.
func (f *FakeRegions) Get(_ context.Context, regionID string) (model.RegionParam, error) {
	for _, r := range f.Items {
		if r.RegionID == regionID {
			return r, nil
		}
	}
	return model.RegionParam{}, errors.NotFound("region", regionID)
}

// FakeSubRegions serves sub-region configuration from a slice.
type FakeSubRegions struct {
	Items []model.SubRegionParam
}

// List implements service.SubRegionService.
func (f *FakeSubRegions) List(_ context.Context) ([]model.SubRegionParam, error) {
	return f.Items, nil
}

// Get implements service.SubRegionService.
func (f *FakeSubRegions) Get(_ context.Context, subRegionID string) (model.SubRegionParam, error) {
	for _, r := range f.Items {
		if r.SubRegionID == subRegionID {
			return r, nil
		}
	}
	return model.SubRegionParam{}, errors.NotFound("sub-region", subRegionID)
}

// FakeRoutes serves route configuration from a slice.
type FakeRoutes struct {
	Items []model.RouteParam
}

// List implements service.RouteService.
func (f *FakeRoutes) List(_ context.Context) ([]model.RouteParam, error) {
	return f.Items, nil
}

// Get implements service.RouteService.
func (f *FakeRoutes) Get(_ context.Context, routeID string) (model.RouteParam, error) {
	for _, r := range f.Items {
		if r.RouteID == routeID {
			return r, nil
		}
	}
	return model.RouteParam{}, errors.NotFound("route", routeID)
}

// FakeCrosses serves intersection configuration from a slice.
type FakeCrosses struct {
	Items []model.CrossParam
}

// List implements service.CrossService.
func (f *FakeCrosses) List(_ context.Context) ([]model.CrossParam, error) {
	return f.Items, nil
}

// Get implements service.CrossService.
func (f *FakeCrosses) Get(_ context.Context, crossID string) (model.CrossParam, error) {
	for _, c := range f.Items {
		if c.CrossID == crossID {
			return c, nil
		}
	}
	return model.CrossParam{}, errors.NotFound("cross", crossID)
}

// Exists implements service.CrossService.
func (f *FakeCrosses) Exists(_ context.Context, crossID string) (bool, error) {
	for _, c := range f.Items {
		if c.CrossID == crossID {
			return true, nil
		}
	}
	return false, nil
}

// FakeControllers serves field controller configuration from a slice.
type FakeControllers struct {
	Items []model.SignalController
}

// List implements service.SignalControllerService.
func (f *FakeControllers) List(_ context.Context) ([]model.SignalController, error) {
	return f.Items, nil
}

// Get implements service.SignalControllerService.
func (f *FakeControllers) Get(_ context.Context, id string) (model.SignalController, error) {
	for _, c := range f.Items {
		if c.SignalControllerID == id {
			return c, nil
		}
	}
	return model.SignalController{}, errors.NotFound("signal controller", id)
}

// FakeLanes serves lane configuration keyed by cross.
type FakeLanes struct {
	Items map[string][]model.LaneParam
}

// ListByCross implements service.LaneService.
func (f *FakeLanes) ListByCross(_ context.Context, crossID string) ([]model.LaneParam, error) {
	return f.Items[crossID], nil
}

// Get implements service.LaneService.
func (f *FakeLanes) Get(_ context.Context, crossID string, laneNo int) (model.LaneParam, error) {
	for _, l := range f.Items[crossID] {
		if l.LaneNo == laneNo {
			return l, nil
		}
	}
	return model.LaneParam{}, errors.NotFoundf("lane %d of cross %s not found", laneNo, crossID)
}

// FakeDetectors serves detector configuration keyed by cross.
type FakeDetectors struct {
	Items map[string][]model.DetectorParam
}

// ListByCross implements service.DetectorService.
func (f *FakeDetectors) ListByCross(_ context.Context, crossID string) ([]model.DetectorParam, error) {
	return f.Items[crossID], nil
}

// Get implements service.DetectorService.
func (f *FakeDetectors) Get(_ context.Context, crossID string, detectorNo int) (model.DetectorParam, error) {
	for _, d := range f.Items[crossID] {
		if d.DetectorNo == detectorNo {
			return d, nil
		}
	}
	return model.DetectorParam{}, errors.NotFoundf("detector %d of cross %s not found", detectorNo, crossID)
}

// FakeSignalGroups serves signal group configuration keyed by cross.
type FakeSignalGroups struct {
	Items map[string][]model.SignalGroupParam
}

// ListByCross implements service.SignalGroupService.
func (f *FakeSignalGroups) ListByCross(_ context.Context, crossID string) ([]model.SignalGroupParam, error) {
	return f.Items[crossID], nil
}

// Get implements service.SignalGroupService.
func (f *FakeSignalGroups) Get(_ context.Context, crossID string, no int) (model.SignalGroupParam, error) {
	for _, g := range f.Items[crossID] {
		if g.SignalGroupNo == no {
			return g, nil
		}
	}
	return model.SignalGroupParam{}, errors.NotFoundf("signal group %d of cross %s not found", no, crossID)
}

// FakeStages serves stage configuration keyed by cross.
type FakeStages struct {
	Items map[string][]model.StageParam
}

// ListByCross implements service.StageService.
func (f *FakeStages) ListByCross(_ context.Context, crossID string) ([]model.StageParam, error) {
	return f.Items[crossID], nil
}

// Get implements service.StageService.
func (f *FakeStages) Get(_ context.Context, crossID string, stageNo int) (model.StageParam, error) {
	for _, s := range f.Items[crossID] {
		if s.StageNo == stageNo {
			return s, nil
		}
	}
	return model.StageParam{}, errors.NotFoundf("stage %d of cross %s not found", stageNo, crossID)
}

// FakePlans serves timing plan configuration keyed by cross.
type FakePlans struct {
	Items map[string][]model.PlanParam
}

// ListByCross implements service.PlanService.
func (f *FakePlans) ListByCross(_ context.Context, crossID string) ([]model.PlanParam, error) {
	return f.Items[crossID], nil
}

// Get implements service.PlanService.
func (f *FakePlans) Get(_ context.Context, crossID string, planNo int) (model.PlanParam, error) {
	for _, p := range f.Items[crossID] {
		if p.PlanNo == planNo {
			return p, nil
		}
	}
	return model.PlanParam{}, errors.NotFoundf("plan %d of cross %s not found", planNo, crossID)
}

// Exists implements service.PlanService.
func (f *FakePlans) Exists(_ context.Context, crossID string, planNo int) (bool, error) {
	for _, p := range f.Items[crossID] {
		if p.PlanNo == planNo {
			return true, nil
		}
	}
	return false, nil
}

// FakeDayPlans serves day plan configuration keyed by cross.
type FakeDayPlans struct {
	Items map[string][]model.DayPlanParam
}

// ListByCross implements service.DayPlanService.
func (f *FakeDayPlans) ListByCross(_ context.Context, crossID string) ([]model.DayPlanParam, error) {
	return f.Items[crossID], nil
}

// Get implements service.DayPlanService.
func (f *FakeDayPlans) Get(_ context.Context, crossID string, dayPlanNo int) (model.DayPlanParam, error) {
	for _, d := range f.Items[crossID] {
		if d.DayPlanNo == dayPlanNo {
			return d, nil
		}
	}
	return model.DayPlanParam{}, errors.NotFoundf("day plan %d of cross %s not found", dayPlanNo, crossID)
}

// FakeSchedules serves schedule configuration keyed by cross.
type FakeSchedules struct {
	Items map[string][]model.ScheduleParam
}

// ListByCross implements service.ScheduleService.
func (f *FakeSchedules) ListByCross(_ context.Context, crossID string) ([]model.ScheduleParam, error) {
	return f.Items[crossID], nil
}

// Get implements service.ScheduleService.
func (f *FakeSchedules) Get(_ context.Context, crossID string, scheduleNo int) (model.ScheduleParam, error) {
	for _, s := range f.Items[crossID] {
		if s.ScheduleNo == scheduleNo {
			return s, nil
		}
	}
	return model.ScheduleParam{}, errors.NotFoundf("schedule %d of cross %s not found", scheduleNo, crossID)
}

// FakeRuntime serves live state keyed by cross.
type FakeRuntime struct {
	States      map[string]model.CrossState
	Cycles      map[string]model.CrossCycle
	Stages      map[string]model.CrossStage
	GroupStatus map[string]model.SignalGroupStatus
	VarLanes    map[string][]model.VarLaneStatus
}

// State implements service.RuntimeService.
func (f *FakeRuntime) State(_ context.Context, crossID string) (model.CrossState, error) {
	if s, ok := f.States[crossID]; ok {
		return s, nil
	}
	return model.CrossState{}, errors.NotFound("cross state", crossID)
}

// Cycle implements service.RuntimeService.
func (f *FakeRuntime) Cycle(_ context.Context, crossID string) (model.CrossCycle, error) {
	if c, ok := f.Cycles[crossID]; ok {
		return c, nil
	}
	return model.CrossCycle{}, errors.NotFound("cross cycle", crossID)
}

// Stage implements service.RuntimeService.
func (f *FakeRuntime) Stage(_ context.Context, crossID string) (model.CrossStage, error) {
	if s, ok := f.Stages[crossID]; ok {
		return s, nil
	}
	return model.CrossStage{}, errors.NotFound("cross stage", crossID)
}

// SignalGroupStatus implements service.RuntimeService.
func (f *FakeRuntime) SignalGroupStatus(_ context.Context, crossID string) (model.SignalGroupStatus, error) {
	if s, ok := f.GroupStatus[crossID]; ok {
		return s, nil
	}
	return model.SignalGroupStatus{}, errors.NotFound("signal group status", crossID)
}

// VarLaneStatusList implements service.RuntimeService.
func (f *FakeRuntime) VarLaneStatusList(_ context.Context, crossID string) ([]model.VarLaneStatus, error) {
	return f.VarLanes[crossID], nil
}

// FakeControlMode stores mode-plans and records Set calls.
type FakeControlMode struct {
	mu       sync.Mutex
	Modes    map[string]model.CrossModePlan
	SetCalls []model.CrossModePlan
}

// Current implements service.ControlModeService.
func (f *FakeControlMode) Current(_ context.Context, crossID string) (model.CrossModePlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.Modes[crossID]; ok {
		return m, nil
	}
	return model.CrossModePlan{}, errors.NotFound("cross mode plan", crossID)
}

// Set implements service.ControlModeService.
func (f *FakeControlMode) Set(_ context.Context, modePlan model.CrossModePlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Modes == nil {
		f.Modes = make(map[string]model.CrossModePlan)
	}
	f.Modes[modePlan.CrossID] = modePlan
	f.SetCalls = append(f.SetCalls, modePlan)
	return nil
}

// FakeControl records control commands; Err, when set, fails every call.
type FakeControl struct {
	mu  sync.Mutex
	Err error

	ModeCmds       []model.CrossCtrlInfo
	EmergencyCalls []model.ControlMode
	LockCmds       []model.LockFlowDirection
	UnlockCmds     []model.UnlockFlowDirection
	StageCmds      []model.AdjustStage
	VarLaneCmds    []model.CtrlVarLane
}

// SetControlMode implements service.ControlService.
func (f *FakeControl) SetControlMode(_ context.Context, cmd model.CrossCtrlInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.ModeCmds = append(f.ModeCmds, cmd)
	return nil
}

// EmergencyControl implements service.ControlService.
func (f *FakeControl) EmergencyControl(_ context.Context, _ string, mode model.ControlMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.EmergencyCalls = append(f.EmergencyCalls, mode)
	return nil
}

// LockFlowDirection implements service.ControlService.
func (f *FakeControl) LockFlowDirection(_ context.Context, cmd model.LockFlowDirection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.LockCmds = append(f.LockCmds, cmd)
	return nil
}

// UnlockFlowDirection implements service.ControlService.
func (f *FakeControl) UnlockFlowDirection(_ context.Context, cmd model.UnlockFlowDirection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.UnlockCmds = append(f.UnlockCmds, cmd)
	return nil
}

// StageIntervention implements service.ControlService.
func (f *FakeControl) StageIntervention(_ context.Context, cmd model.AdjustStage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.StageCmds = append(f.StageCmds, cmd)
	return nil
}

// CtrlVarLane implements service.ControlService.
func (f *FakeControl) CtrlVarLane(_ context.Context, cmd model.CtrlVarLane) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.VarLaneCmds = append(f.VarLaneCmds, cmd)
	return nil
}

// FakeRouteControl serves route coordination state.
type FakeRouteControl struct {
	Modes  map[string]model.RouteControlMode
	Speeds map[string]model.RouteSpeed
}

// ControlMode implements service.RouteControlService.
func (f *FakeRouteControl) ControlMode(_ context.Context, routeID string) (model.RouteControlMode, error) {
	if m, ok := f.Modes[routeID]; ok {
		return m, nil
	}
	return model.RouteControlMode{}, errors.NotFound("route control mode", routeID)
}

// Speed implements service.RouteControlService.
func (f *FakeRouteControl) Speed(_ context.Context, routeID string) (model.RouteSpeed, error) {
	if s, ok := f.Speeds[routeID]; ok {
		return s, nil
	}
	return model.RouteSpeed{}, errors.NotFound("route speed", routeID)
}

// FakeTrafficData records traffic reports and serves the latest per cross.
type FakeTrafficData struct {
	mu       sync.Mutex
	Recorded []model.CrossTrafficData
	Current  map[string]model.CrossTrafficData
}

// Record implements service.TrafficDataService.
func (f *FakeTrafficData) Record(_ context.Context, data model.CrossTrafficData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Current == nil {
		f.Current = make(map[string]model.CrossTrafficData)
	}
	f.Recorded = append(f.Recorded, data)
	f.Current[data.CrossID] = data
	return nil
}

// Latest implements service.TrafficDataService.
func (f *FakeTrafficData) Latest(_ context.Context, crossID string) (model.CrossTrafficData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.Current[crossID]; ok {
		return d, nil
	}
	return model.CrossTrafficData{}, errors.NotFound("traffic data", crossID)
}

// Count returns the number of recorded reports.
func (f *FakeTrafficData) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Recorded)
}

// FakeHistory serves a fixed object slice as retransmittable history.
type FakeHistory struct {
	Objects []protocol.Object
	Err     error

	mu    sync.Mutex
	calls int
}

// History implements service.RunInfoRetransService.
func (f *FakeHistory) History(
	_ context.Context, _ string, _ []string, _, _ time.Time,
) ([]protocol.Object, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Objects, nil
}

// Calls returns how many times History was invoked.
func (f *FakeHistory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FakeDoorStatus records cabinet door events.
type FakeDoorStatus struct {
	mu       sync.Mutex
	Recorded []model.SCDoorStatus
}

// Record implements service.DoorStatusService.
func (f *FakeDoorStatus) Record(_ context.Context, status model.SCDoorStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Recorded = append(f.Recorded, status)
	return nil
}

// Count returns the number of recorded events.
func (f *FakeDoorStatus) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Recorded)
}

// Fixture bundles one fake per service with seeded data. Tests mutate the
// exported fakes directly before building handlers.
type Fixture struct {
	Auth         *FakeAuth
	SysInfo      *FakeSysInfo
	Regions      *FakeRegions
	SubRegions   *FakeSubRegions
	Routes       *FakeRoutes
	Crosses      *FakeCrosses
	Controllers  *FakeControllers
	Lanes        *FakeLanes
	Detectors    *FakeDetectors
	SignalGroups *FakeSignalGroups
	Stages       *FakeStages
	Plans        *FakePlans
	DayPlans     *FakeDayPlans
	Schedules    *FakeSchedules
	Runtime      *FakeRuntime
	ControlMode  *FakeControlMode
	Control      *FakeControl
	RouteControl *FakeRouteControl
	TrafficData  *FakeTrafficData
	History      *FakeHistory
	DoorStatus   *FakeDoorStatus
}

// NewFixture seeds a fixture with one region, one route and two
// intersections worth of configuration and runtime state.
func NewFixture() *Fixture {
	return &Fixture{
		Auth: &FakeAuth{Users: map[string]string{UserName: Password}},
		SysInfo: &FakeSysInfo{Info: model.SysInfo{
			SysName:    "signalctl",
			SysVersion: "1.0",
			Supplier:   "c360",
		}},
		Regions: &FakeRegions{Items: []model.RegionParam{{
			RegionID:     RegionID,
			RegionName:   "Central",
			SubRegionIDs: []string{SubRegionID},
			CrossIDs:     []string{CrossID, CrossID2},
		}}},
		SubRegions: &FakeSubRegions{Items: []model.SubRegionParam{{
			SubRegionID:   SubRegionID,
			SubRegionName: "Central North",
			CrossIDs:      []string{CrossID, CrossID2},
			KeyCrossIDs:   []string{CrossID},
		}}},
		Routes: &FakeRoutes{Items: []model.RouteParam{{
			RouteID:   RouteID,
			RouteName: "Main Street",
			Type:      1,
			CrossIDs:  []string{CrossID, CrossID2},
		}}},
		Crosses: &FakeCrosses{Items: []model.CrossParam{
			{CrossID: CrossID, CrossName: "1st & Main", Feature: 40, Grade: "1"},
			{CrossID: CrossID2, CrossName: "2nd & Main", Feature: 40, Grade: "2"},
		}},
		Controllers: &FakeControllers{Items: []model.SignalController{{
			SignalControllerID: ControllerID,
			Supplier:           "c360",
			Type:               "TSC-2",
			IP:                 "10.0.0.11",
			Port:               7100,
			CrossIDs:           []string{CrossID},
		}}},
		Lanes: &FakeLanes{Items: map[string][]model.LaneParam{
			CrossID: {
				{CrossID: CrossID, LaneNo: 1, Direction: 1, Movement: model.MovementStraight},
				{
					CrossID:      CrossID,
					LaneNo:       2,
					Direction:    1,
					Movement:     model.MovementLeft,
					VarMovements: []model.LaneMovement{model.MovementLeft, model.MovementStraight},
				},
			},
		}},
		Detectors: &FakeDetectors{Items: map[string][]model.DetectorParam{
			CrossID: {
				{CrossID: CrossID, DetectorNo: 1, Type: 1, Position: 1, Direction: 1, LaneNos: []int{1}},
				{CrossID: CrossID, DetectorNo: 2, Type: 1, Position: 1, Direction: 5, LaneNos: []int{2}},
			},
		}},
		SignalGroups: &FakeSignalGroups{Items: map[string][]model.SignalGroupParam{
			CrossID: {
				{CrossID: CrossID, SignalGroupNo: 1, Name: "NS straight", MinGreen: 10, MaxGreen: 60},
				{CrossID: CrossID, SignalGroupNo: 2, Name: "EW straight", MinGreen: 10, MaxGreen: 60},
			},
		}},
		Stages: &FakeStages{Items: map[string][]model.StageParam{
			CrossID: {
				{CrossID: CrossID, StageNo: 1, StageName: "NS", SignalGroups: []int{1}},
				{CrossID: CrossID, StageNo: 2, StageName: "EW", SignalGroups: []int{2}},
			},
		}},
		Plans: &FakePlans{Items: map[string][]model.PlanParam{
			CrossID: {
				{CrossID: CrossID, PlanNo: 1, PlanName: "peak", CycleLen: 120, Stages: []model.StageTiming{
					{StageNo: 1, Green: 50, Yellow: 3, AllRed: 2},
					{StageNo: 2, Green: 60, Yellow: 3, AllRed: 2},
				}},
				{CrossID: CrossID, PlanNo: 2, PlanName: "off-peak", CycleLen: 90},
			},
		}},
		DayPlans: &FakeDayPlans{Items: map[string][]model.DayPlanParam{
			CrossID: {{
				CrossID:   CrossID,
				DayPlanNo: 1,
				Periods: []model.DayPlanPeriod{
					{StartTime: "07:00", PlanNo: 1, CtrlMode: model.ModeAdaptive},
					{StartTime: "20:00", PlanNo: 2, CtrlMode: model.ModeLocalFixed},
				},
			}},
		}},
		Schedules: &FakeSchedules{Items: map[string][]model.ScheduleParam{
			CrossID: {{CrossID: CrossID, ScheduleNo: 1, Type: 3, StartDay: "01-01", EndDay: "12-31", DayPlanNo: 1}},
		}},
		Runtime: &FakeRuntime{
			States: map[string]model.CrossState{
				CrossID: {CrossID: CrossID, Value: "Online"},
			},
			Cycles: map[string]model.CrossCycle{
				CrossID: {CrossID: CrossID, StartTime: "2026-08-28 08:00:00", CycleLen: 120},
			},
			Stages: map[string]model.CrossStage{
				CrossID: {CrossID: CrossID, StageNo: 1, StartTime: "2026-08-28 08:00:00", StageLen: 55},
			},
			GroupStatus: map[string]model.SignalGroupStatus{
				CrossID: {
					CrossID: CrossID,
					Time:    "2026-08-28 08:00:30",
					LampStatus: []model.LampStatus{
						{SignalGroupNo: 1, Status: "331"},
						{SignalGroupNo: 2, Status: "313"},
					},
				},
			},
			VarLanes: map[string][]model.VarLaneStatus{
				CrossID: {{CrossID: CrossID, LaneNo: 2, Movement: model.MovementLeft, Mode: 1}},
			},
		},
		ControlMode: &FakeControlMode{Modes: map[string]model.CrossModePlan{
			CrossID: {CrossID: CrossID, Mode: model.ModeLocalFixed, PlanNo: 1},
		}},
		Control:      &FakeControl{},
		RouteControl: &FakeRouteControl{
			Modes:  map[string]model.RouteControlMode{RouteID: {RouteID: RouteID, Value: "GreenWave"}},
			Speeds: map[string]model.RouteSpeed{RouteID: {RouteID: RouteID, Speed: 45}},
		},
		TrafficData: &FakeTrafficData{},
		History:     &FakeHistory{},
		DoorStatus:  &FakeDoorStatus{},
	}
}

// Registry assembles the fixture into the service registry the handler
// chain consumes.
func (f *Fixture) Registry() *service.Registry {
	return &service.Registry{
		Auth:             f.Auth,
		SysInfo:          f.SysInfo,
		Region:           f.Regions,
		SubRegion:        f.SubRegions,
		Route:            f.Routes,
		Cross:            f.Crosses,
		SignalController: f.Controllers,
		Lane:             f.Lanes,
		Detector:         f.Detectors,
		SignalGroup:      f.SignalGroups,
		Stage:            f.Stages,
		Plan:             f.Plans,
		DayPlan:          f.DayPlans,
		Schedule:         f.Schedules,
		Runtime:          f.Runtime,
		ControlMode:      f.ControlMode,
		Control:          f.Control,
		RouteControl:     f.RouteControl,
		TrafficData:      f.TrafficData,
		RunInfoRetrans:   f.History,
		DoorStatus:       f.DoorStatus,
	}
}
