package model

// ObjectKind names a queryable object kind. The vocabulary is closed and
// versioned with the protocol; the query router keys its resolver table on it.
type ObjectKind string

// Configuration object kinds.
const (
	KindSysInfo          ObjectKind = "SysInfo"
	KindRegionParam      ObjectKind = "RegionParam"
	KindSubRegionParam   ObjectKind = "SubRegionParam"
	KindRouteParam       ObjectKind = "RouteParam"
	KindCrossParam       ObjectKind = "CrossParam"
	KindSignalController ObjectKind = "SignalController"
	KindLaneParam        ObjectKind = "LaneParam"
	KindDetectorParam    ObjectKind = "DetectorParam"
	KindSignalGroupParam ObjectKind = "SignalGroupParam"
	KindStageParam       ObjectKind = "StageParam"
	KindPlanParam        ObjectKind = "PlanParam"
	KindDayPlanParam     ObjectKind = "DayPlanParam"
	KindScheduleParam    ObjectKind = "ScheduleParam"
)

// Runtime object kinds.
const (
	KindCrossState        ObjectKind = "CrossState"
	KindCrossModePlan     ObjectKind = "CrossModePlan"
	KindCrossCycle        ObjectKind = "CrossCycle"
	KindCrossStage        ObjectKind = "CrossStage"
	KindSignalGroupStatus ObjectKind = "SignalGroupStatus"
	KindCrossTrafficData  ObjectKind = "CrossTrafficData"
	KindVarLaneStatus     ObjectKind = "VarLaneStatus"
	KindRouteControlMode  ObjectKind = "RouteControlMode"
	KindRouteSpeed        ObjectKind = "RouteSpeed"
	KindSCDoorStatus      ObjectKind = "SCDoorStatus"
)

// SysInfo is the platform identity object returned by Get(SysInfo).
type SysInfo struct {
	SysName    string `json:"sysName" xml:"SysName"`
	SysVersion string `json:"sysVersion" xml:"SysVersion"`
	Supplier   string `json:"supplier" xml:"Supplier"`
}

// ObjectName implements protocol.Object.
func (SysInfo) ObjectName() string { return string(KindSysInfo) }

// RegionParam describes a control region and the sub-regions and routes it
// contains.
type RegionParam struct {
	RegionID     string   `json:"regionId" xml:"RegionID"`
	RegionName   string   `json:"regionName" xml:"RegionName"`
	SubRegionIDs []string `json:"subRegionIdList,omitempty" xml:"SubRegionIDList>SubRegionID"`
	CrossIDs     []string `json:"crossIdList,omitempty" xml:"CrossIDList>CrossID"`
}

// ObjectName implements protocol.Object.
func (RegionParam) ObjectName() string { return string(KindRegionParam) }

// SubRegionParam describes a coordination sub-region.
type SubRegionParam struct {
	SubRegionID   string   `json:"subRegionId" xml:"SubRegionID"`
	SubRegionName string   `json:"subRegionName" xml:"SubRegionName"`
	CrossIDs      []string `json:"crossIdList,omitempty" xml:"CrossIDList>CrossID"`
	KeyCrossIDs   []string `json:"keyCrossIdList,omitempty" xml:"KeyCrossIDList>CrossID"`
}

// ObjectName implements protocol.Object.
func (SubRegionParam) ObjectName() string { return string(KindSubRegionParam) }

// RouteParam describes a coordinated route: the ordered intersections a
// green wave runs through.
type RouteParam struct {
	RouteID   string   `json:"routeId" xml:"RouteID"`
	RouteName string   `json:"routeName" xml:"RouteName"`
	Type      int      `json:"type" xml:"Type"`
	CrossIDs  []string `json:"crossIdList,omitempty" xml:"CrossIDList>CrossID"`
}

// ObjectName implements protocol.Object.
func (RouteParam) ObjectName() string { return string(KindRouteParam) }

// CrossParam describes a signal-controlled intersection.
type CrossParam struct {
	CrossID       string  `json:"crossId" xml:"CrossID"`
	CrossName     string  `json:"crossName" xml:"CrossName"`
	Feature       int     `json:"feature" xml:"Feature"` // junction geometry code
	Grade         string  `json:"grade" xml:"Grade"`
	Longitude     float64 `json:"longitude,omitempty" xml:"Longitude,omitempty"`
	Latitude      float64 `json:"latitude,omitempty" xml:"Latitude,omitempty"`
	Altitude      int     `json:"altitude,omitempty" xml:"Altitude,omitempty"`
	GreenConflict bool    `json:"greenConflict,omitempty" xml:"GreenConflict,omitempty"`
}

// ObjectName implements protocol.Object.
func (CrossParam) ObjectName() string { return string(KindCrossParam) }

// SignalController describes a field signal controller cabinet.
type SignalController struct {
	SignalControllerID string   `json:"signalControllerId" xml:"SignalControllerID"`
	Supplier           string   `json:"supplier" xml:"Supplier"`
	Type               string   `json:"type" xml:"Type"`
	IP                 string   `json:"ip,omitempty" xml:"IP,omitempty"`
	Port               int      `json:"port,omitempty" xml:"Port,omitempty"`
	CrossIDs           []string `json:"crossIdList,omitempty" xml:"CrossIDList>CrossID"`
}

// ObjectName implements protocol.Object.
func (SignalController) ObjectName() string { return string(KindSignalController) }

// LaneParam describes one lane of an intersection approach. A non-empty
// VarMovements set marks the lane as variable.
type LaneParam struct {
	CrossID      string         `json:"crossId" xml:"CrossID"`
	LaneNo       int            `json:"laneNo" xml:"LaneNo"`
	Direction    Direction      `json:"direction" xml:"Direction"`
	Attribute    int            `json:"attribute" xml:"Attribute"`
	Movement     LaneMovement   `json:"movement" xml:"Movement"`
	Feature      int            `json:"feature" xml:"Feature"`
	VarMovements []LaneMovement `json:"varMovementList,omitempty" xml:"VarMovementList>Movement"`
}

// ObjectName implements protocol.Object.
func (LaneParam) ObjectName() string { return string(KindLaneParam) }

// IsVariable reports whether the lane is configured as a variable lane.
func (l LaneParam) IsVariable() bool { return len(l.VarMovements) > 0 }

// AllowsMovement reports whether the requested movement is in the lane's
// allowed variable movement set.
func (l LaneParam) AllowsMovement(m LaneMovement) bool {
	for _, allowed := range l.VarMovements {
		if allowed == m {
			return true
		}
	}
	return false
}

// DetectorParam describes a vehicle detector within an intersection.
type DetectorParam struct {
	CrossID    string    `json:"crossId" xml:"CrossID"`
	DetectorNo int       `json:"detectorNo" xml:"DetectorNo"`
	Type       int       `json:"type" xml:"Type"`
	Position   int       `json:"position" xml:"Position"`
	Target     string    `json:"target" xml:"Target"`
	Direction  Direction `json:"direction" xml:"Direction"`
	LaneNos    []int     `json:"laneNoList,omitempty" xml:"LaneNoList>LaneNo"`
}

// ObjectName implements protocol.Object.
func (DetectorParam) ObjectName() string { return string(KindDetectorParam) }

// SignalGroupParam describes a signal group: the lamp groups switched
// together.
type SignalGroupParam struct {
	CrossID       string `json:"crossId" xml:"CrossID"`
	SignalGroupNo int    `json:"signalGroupNo" xml:"SignalGroupNo"`
	Name          string `json:"name" xml:"Name"`
	GreenFlashLen int    `json:"greenFlashLen" xml:"GreenFlashLen"`
	MaxGreen      int    `json:"maxGreen" xml:"MaxGreen"`
	MinGreen      int    `json:"minGreen" xml:"MinGreen"`
}

// ObjectName implements protocol.Object.
func (SignalGroupParam) ObjectName() string { return string(KindSignalGroupParam) }

// StageParam describes one stage of the signal cycle.
type StageParam struct {
	CrossID      string `json:"crossId" xml:"CrossID"`
	StageNo      int    `json:"stageNo" xml:"StageNo"`
	StageName    string `json:"stageName" xml:"StageName"`
	Attribute    int    `json:"attribute" xml:"Attribute"`
	SignalGroups []int  `json:"signalGroupNoList,omitempty" xml:"SignalGroupNoList>SignalGroupNo"`
}

// ObjectName implements protocol.Object.
func (StageParam) ObjectName() string { return string(KindStageParam) }

// StageTiming is one timed stage entry inside a plan.
type StageTiming struct {
	StageNo  int `json:"stageNo" xml:"StageNo"`
	Green    int `json:"green" xml:"Green"`
	Yellow   int `json:"yellow" xml:"Yellow"`
	AllRed   int `json:"allRed" xml:"AllRed"`
	MaxGreen int `json:"maxGreen,omitempty" xml:"MaxGreen,omitempty"`
	MinGreen int `json:"minGreen,omitempty" xml:"MinGreen,omitempty"`
}

// PlanParam is a timing plan an intersection can run under a non-special
// control mode.
type PlanParam struct {
	CrossID      string        `json:"crossId" xml:"CrossID"`
	PlanNo       int           `json:"planNo" xml:"PlanNo"`
	PlanName     string        `json:"planName" xml:"PlanName"`
	CycleLen     int           `json:"cycleLen" xml:"CycleLen"`
	CoordStageNo int           `json:"coordStageNo,omitempty" xml:"CoordStageNo,omitempty"`
	Offset       int           `json:"offset" xml:"Offset"`
	Stages       []StageTiming `json:"stageTimingList,omitempty" xml:"StageTimingList>StageTiming"`
}

// ObjectName implements protocol.Object.
func (PlanParam) ObjectName() string { return string(KindPlanParam) }

// DayPlanPeriod schedules a plan from a start time within a day.
type DayPlanPeriod struct {
	StartTime string      `json:"startTime" xml:"StartTime"` // "HH:mm"
	PlanNo    int         `json:"planNo" xml:"PlanNo"`
	CtrlMode  ControlMode `json:"ctrlMode" xml:"CtrlMode"`
}

// DayPlanParam is a full-day schedule of timing plans.
type DayPlanParam struct {
	CrossID   string          `json:"crossId" xml:"CrossID"`
	DayPlanNo int             `json:"dayPlanNo" xml:"DayPlanNo"`
	Periods   []DayPlanPeriod `json:"periodList,omitempty" xml:"PeriodList>Period"`
}

// ObjectName implements protocol.Object.
func (DayPlanParam) ObjectName() string { return string(KindDayPlanParam) }

// ScheduleParam binds day plans to dates.
type ScheduleParam struct {
	CrossID    string `json:"crossId" xml:"CrossID"`
	ScheduleNo int    `json:"scheduleNo" xml:"ScheduleNo"`
	Type       int    `json:"type" xml:"Type"`         // special day, week day, date span
	StartDay   string `json:"startDay" xml:"StartDay"` // "MM-dd"
	EndDay     string `json:"endDay" xml:"EndDay"`
	WeekDay    int    `json:"weekDay,omitempty" xml:"WeekDay,omitempty"`
	DayPlanNo  int    `json:"dayPlanNo" xml:"DayPlanNo"`
}

// ObjectName implements protocol.Object.
func (ScheduleParam) ObjectName() string { return string(KindScheduleParam) }

// CrossState is the availability state of an intersection.
type CrossState struct {
	CrossID string `json:"crossId" xml:"CrossID"`
	Value   string `json:"value" xml:"Value"` // Online, Offline, Error
}

// ObjectName implements protocol.Object.
func (CrossState) ObjectName() string { return string(KindCrossState) }

// CrossModePlan is the currently running control mode and plan of an
// intersection.
type CrossModePlan struct {
	CrossID string      `json:"crossId" xml:"CrossID"`
	Mode    ControlMode `json:"controlMode" xml:"ControlMode"`
	PlanNo  int         `json:"planNo" xml:"PlanNo"`
}

// ObjectName implements protocol.Object.
func (CrossModePlan) ObjectName() string { return string(KindCrossModePlan) }

// CrossCycle reports the most recently completed cycle length.
type CrossCycle struct {
	CrossID   string `json:"crossId" xml:"CrossID"`
	StartTime string `json:"startTime" xml:"StartTime"`
	CycleLen  int    `json:"lastCycleLen" xml:"LastCycleLen"`
}

// ObjectName implements protocol.Object.
func (CrossCycle) ObjectName() string { return string(KindCrossCycle) }

// CrossStage reports the running stage.
type CrossStage struct {
	CrossID      string `json:"crossId" xml:"CrossID"`
	StageNo      int    `json:"curStageNo" xml:"CurStageNo"`
	StartTime    string `json:"curStageStartTime" xml:"CurStageStartTime"`
	StageLen     int    `json:"curStageLen" xml:"CurStageLen"`
	PrevStageNo  int    `json:"lastStageNo,omitempty" xml:"LastStageNo,omitempty"`
	PrevStageLen int    `json:"lastStageLen,omitempty" xml:"LastStageLen,omitempty"`
}

// ObjectName implements protocol.Object.
func (CrossStage) ObjectName() string { return string(KindCrossStage) }

// LampStatus is the lamp state of one signal group.
type LampStatus struct {
	SignalGroupNo int    `json:"signalGroupNo" xml:"SignalGroupNo"`
	Status        string `json:"status" xml:"Status"` // lamp state code
}

// SignalGroupStatus reports lamp states of all signal groups of an
// intersection.
type SignalGroupStatus struct {
	CrossID    string       `json:"crossId" xml:"CrossID"`
	LampStatus []LampStatus `json:"lampStatusList,omitempty" xml:"LampStatusList>LampStatus"`
	Time       string       `json:"lampStatusTime" xml:"LampStatusTime"`
}

// ObjectName implements protocol.Object.
func (SignalGroupStatus) ObjectName() string { return string(KindSignalGroupStatus) }

// TrafficFlowData is per-lane measured traffic data.
type TrafficFlowData struct {
	LaneNo     int `json:"laneNo" xml:"LaneNo"`
	Volume     int `json:"volume" xml:"Volume"`
	AvgVehLen  int `json:"avgVehLen,omitempty" xml:"AvgVehLen,omitempty"`
	Speed      int `json:"speed,omitempty" xml:"Speed,omitempty"`
	Occupancy  int `json:"occupancy,omitempty" xml:"Occupancy,omitempty"`
	Saturation int `json:"saturation,omitempty" xml:"Saturation,omitempty"`
	Density    int `json:"density,omitempty" xml:"Density,omitempty"`
	QueueLen   int `json:"queueLen,omitempty" xml:"QueueLen,omitempty"`
}

// CrossTrafficData is a periodic traffic data report for an intersection.
type CrossTrafficData struct {
	CrossID  string            `json:"crossId" xml:"CrossID"`
	EndTime  string            `json:"endTime" xml:"EndTime"`
	Interval int               `json:"interval" xml:"Interval"` // seconds
	Data     []TrafficFlowData `json:"dataList,omitempty" xml:"DataList>Data"`
}

// ObjectName implements protocol.Object.
func (CrossTrafficData) ObjectName() string { return string(KindCrossTrafficData) }

// VarLaneStatus reports the movement a variable lane currently serves.
type VarLaneStatus struct {
	CrossID  string       `json:"crossId" xml:"CrossID"`
	LaneNo   int          `json:"laneNo" xml:"LaneNo"`
	Movement LaneMovement `json:"curMovement" xml:"CurMovement"`
	Mode     int          `json:"curMode" xml:"CurMode"`
}

// ObjectName implements protocol.Object.
func (VarLaneStatus) ObjectName() string { return string(KindVarLaneStatus) }

// RouteControlMode is the coordination mode a route currently runs under.
type RouteControlMode struct {
	RouteID string `json:"routeId" xml:"RouteID"`
	Value   string `json:"value" xml:"Value"`
}

// ObjectName implements protocol.Object.
func (RouteControlMode) ObjectName() string { return string(KindRouteControlMode) }

// RouteSpeed is the recommended green-wave speed of a route.
type RouteSpeed struct {
	RouteID string `json:"routeId" xml:"RouteID"`
	Speed   int    `json:"recommendSpeed" xml:"RecommendSpeed"` // km/h
}

// ObjectName implements protocol.Object.
func (RouteSpeed) ObjectName() string { return string(KindRouteSpeed) }

// SCDoorStatus reports a controller cabinet door event.
type SCDoorStatus struct {
	SignalControllerID string `json:"signalControllerId" xml:"SignalControllerID"`
	DoorNo             int    `json:"doorNo" xml:"DoorNo"`
	Status             int    `json:"status" xml:"Status"` // 0 closed, 1 open
	Time               string `json:"time" xml:"Time"`
}

// ObjectName implements protocol.Object.
func (SCDoorStatus) ObjectName() string { return string(KindSCDoorStatus) }
