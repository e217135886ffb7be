package model

// Command object names. Commands are payload objects too; they share the
// codec registry with the queryable kinds above.
const (
	NameUserInfo            = "UserInfo"
	NameTSCCmd              = "TSCCmd"
	NameCrossCtrlInfo       = "CrossCtrlInfo"
	NameLockFlowDirection   = "LockFlowDirection"
	NameUnlockFlowDirection = "UnlockFlowDirection"
	NameAdjustStage         = "AdjustStage"
	NameCtrlVarLane         = "CtrlVarLane"
	NameCrossReportCtrl     = "CrossReportCtrl"
	NameSubscription        = "Subscription"
	NameLoginResult         = "LoginResult"
	NameCommandAck          = "CommandAck"
	NameRetransResult       = "RetransResult"
	NameErrorInfo           = "SDO_Error"
)

// UserInfo is the typed Login/Logout credential payload. The transport
// decoding layer produces it; nothing in the stack inspects loosely-typed
// maps.
type UserInfo struct {
	UserName string `json:"userName" xml:"UserName"`
	Password string `json:"password,omitempty" xml:"Password,omitempty"`
}

// ObjectName implements protocol.Object.
func (UserInfo) ObjectName() string { return NameUserInfo }

// TSCCmd is the generic object query command: fetch objects of ObjName,
// optionally narrowed by ID (region/route/cross/controller id) and No
// (secondary key such as a plan or detector number).
type TSCCmd struct {
	ObjName string `json:"objName" xml:"ObjName"`
	ID      string `json:"id,omitempty" xml:"ID,omitempty"`
	No      int    `json:"no,omitempty" xml:"No,omitempty"`
}

// ObjectName implements protocol.Object.
func (TSCCmd) ObjectName() string { return NameTSCCmd }

// CrossCtrlInfo assigns a control mode (and plan) to an intersection.
// Special modes require PlanNo 0; every other mode requires a positive
// PlanNo referencing an existing plan.
type CrossCtrlInfo struct {
	CrossID string      `json:"crossId" xml:"CrossID"`
	Mode    ControlMode `json:"controlMode" xml:"ControlMode"`
	PlanNo  int         `json:"planNo" xml:"PlanNo"`
}

// ObjectName implements protocol.Object.
func (CrossCtrlInfo) ObjectName() string { return NameCrossCtrlInfo }

// LockFlowDirection forces or forbids a specific entrance→exit movement for
// a bounded duration.
type LockFlowDirection struct {
	CrossID     string    `json:"crossId" xml:"CrossID"`
	FlowType    FlowType  `json:"type" xml:"Type"`
	Entrance    Direction `json:"entrance" xml:"Entrance"`
	Exit        Direction `json:"exit" xml:"Exit"`
	LockType    LockType  `json:"lockType" xml:"LockType"`
	LockStageNo int       `json:"lockStageNo,omitempty" xml:"LockStageNo,omitempty"`
	Duration    int       `json:"duration" xml:"Duration"` // seconds
}

// ObjectName implements protocol.Object.
func (LockFlowDirection) ObjectName() string { return NameLockFlowDirection }

// UnlockFlowDirection removes the lock matching the compound key.
type UnlockFlowDirection struct {
	CrossID  string    `json:"crossId" xml:"CrossID"`
	FlowType FlowType  `json:"type" xml:"Type"`
	Entrance Direction `json:"entrance" xml:"Entrance"`
	Exit     Direction `json:"exit" xml:"Exit"`
}

// ObjectName implements protocol.Object.
func (UnlockFlowDirection) ObjectName() string { return NameUnlockFlowDirection }

// AdjustStage is a transient stage intervention: extend, shorten or force
// the next stage.
type AdjustStage struct {
	CrossID string           `json:"crossId" xml:"CrossID"`
	StageNo int              `json:"stageNo" xml:"StageNo"`
	Type    InterventionType `json:"type" xml:"Type"`
	Len     int              `json:"len" xml:"Len"` // seconds
}

// ObjectName implements protocol.Object.
func (AdjustStage) ObjectName() string { return NameAdjustStage }

// CtrlVarLane reassigns the movement of a variable lane, optionally bounded
// to a time window in the human-readable protocol form.
type CtrlVarLane struct {
	CrossID   string       `json:"crossId" xml:"CrossID"`
	LaneNo    int          `json:"laneNo" xml:"LaneNo"`
	Movement  LaneMovement `json:"movement" xml:"Movement"`
	Mode      int          `json:"ctrlMode" xml:"CtrlMode"`
	StartTime string       `json:"startTime,omitempty" xml:"StartTime,omitempty"`
	EndTime   string       `json:"endTime,omitempty" xml:"EndTime,omitempty"`
}

// ObjectName implements protocol.Object.
func (CtrlVarLane) ObjectName() string { return NameCtrlVarLane }

// CrossReportCtrl requests retransmission of historical runtime data for a
// set of intersections over a bounded time range (compact form timestamps).
type CrossReportCtrl struct {
	ObjName   string   `json:"objName" xml:"ObjName"` // runtime kind to retransmit
	StartTime string   `json:"startTime" xml:"StartTime"`
	EndTime   string   `json:"endTime" xml:"EndTime"`
	CrossIDs  []string `json:"crossIdList,omitempty" xml:"CrossIDList>CrossID"`
}

// ObjectName implements protocol.Object.
func (CrossReportCtrl) ObjectName() string { return NameCrossReportCtrl }

// Subscription registers or removes interest in pushed object kinds for the
// caller's session.
type Subscription struct {
	ObjName string `json:"objName" xml:"ObjName"`
}

// ObjectName implements protocol.Object.
func (Subscription) ObjectName() string { return NameSubscription }

// LoginResult is the response payload of a successful Login.
type LoginResult struct {
	UserName string `json:"userName" xml:"UserName"`
	Token    string `json:"token" xml:"Token"`
}

// ObjectName implements protocol.Object.
func (LoginResult) ObjectName() string { return NameLoginResult }

// CommandAck acknowledges an accepted control command by echoing its key.
type CommandAck struct {
	CrossID string `json:"crossId" xml:"CrossID"`
	Command string `json:"command" xml:"Command"`
	Detail  string `json:"detail,omitempty" xml:"Detail,omitempty"`
}

// ObjectName implements protocol.Object.
func (CommandAck) ObjectName() string { return NameCommandAck }

// RetransResult reports the task created for an accepted retransmission
// request.
type RetransResult struct {
	TaskID  string `json:"taskId" xml:"TaskID"`
	ObjName string `json:"objName" xml:"ObjName"`
	Status  string `json:"status" xml:"Status"`
}

// ObjectName implements protocol.Object.
func (RetransResult) ObjectName() string { return NameRetransResult }

// ErrorInfo is the payload of an ERROR envelope: the stable error code, a
// human-readable description and the name of the object that caused it.
type ErrorInfo struct {
	ErrObj  string `json:"errObj,omitempty" xml:"ErrObj,omitempty"`
	ErrCode string `json:"errType" xml:"ErrType"`
	ErrDesc string `json:"errDesc" xml:"ErrDesc"`
}

// ObjectName implements protocol.Object.
func (ErrorInfo) ObjectName() string { return NameErrorInfo }
