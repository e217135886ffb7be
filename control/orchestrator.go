package control

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/service"
)

// Orchestrator sequences control commands: validation first, then the field
// side effect, then persistence of the resulting state. It owns no hardware
// behavior; that is the ControlService implementation's concern.
type Orchestrator struct {
	cross       service.CrossService
	plan        service.PlanService
	dayPlan     service.DayPlanService
	lane        service.LaneService
	control     service.ControlService
	controlMode service.ControlModeService
	locks       *LockStore
	logger      *slog.Logger

	// requireActivePlan additionally demands that a targeted plan is bound
	// by one of the intersection's day plans, not merely defined.
	requireActivePlan bool

	commands *prometheus.CounterVec
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithRequireActivePlan enables the stricter plan policy: a non-special
// control mode may only target a plan scheduled by a day plan.
func WithRequireActivePlan() Option {
	return func(o *Orchestrator) { o.requireActivePlan = true }
}

// WithMetrics registers the control command counter.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *Orchestrator) {
		o.commands = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalctl_control_commands_total",
			Help: "Control commands by kind and outcome",
		}, []string{"command", "outcome"})
		reg.MustRegister(o.commands)
	}
}

// NewOrchestrator creates the control orchestrator over the given services
// and lock store.
func NewOrchestrator(svc *service.Registry, locks *LockStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cross:       svc.Cross,
		plan:        svc.Plan,
		dayPlan:     svc.DayPlan,
		lane:        svc.Lane,
		control:     svc.Control,
		controlMode: svc.ControlMode,
		locks:       locks,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Locks exposes the live lock store for queries.
func (o *Orchestrator) Locks() *LockStore {
	return o.locks
}

func (o *Orchestrator) count(command string, err error) {
	if o.commands == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = errors.KindOf(err).String()
	}
	o.commands.WithLabelValues(command, outcome).Inc()
}

// SetControlMode validates and applies a control-mode assignment. Special
// modes forbid a plan and trigger the emergency control effect; every other
// mode requires a positive plan number referencing an existing plan.
func (o *Orchestrator) SetControlMode(ctx context.Context, cmd model.CrossCtrlInfo) (err error) {
	defer func() { o.count("set_control_mode", err) }()

	if err = o.validateControlMode(ctx, cmd); err != nil {
		return err
	}

	if err = o.control.SetControlMode(ctx, cmd); err != nil {
		return errors.Business(err, "control service rejected mode assignment: "+err.Error())
	}
	if cmd.Mode.IsSpecial() {
		if err = o.control.EmergencyControl(ctx, cmd.CrossID, cmd.Mode); err != nil {
			return errors.Business(err, "emergency control failed: "+err.Error())
		}
	}
	if err = o.controlMode.Set(ctx, model.CrossModePlan{
		CrossID: cmd.CrossID,
		Mode:    cmd.Mode,
		PlanNo:  cmd.PlanNo,
	}); err != nil {
		return errors.Business(err, "mode-plan persistence failed: "+err.Error())
	}

	o.logger.Info("control mode set",
		"cross_id", cmd.CrossID,
		"mode", string(cmd.Mode),
		"plan_no", cmd.PlanNo)
	return nil
}

func (o *Orchestrator) validateControlMode(ctx context.Context, cmd model.CrossCtrlInfo) error {
	if err := protocol.CheckCrossID(cmd.CrossID); err != nil {
		return err
	}
	if !cmd.Mode.Valid() {
		return errors.Validation("controlMode", "unknown control mode %q", string(cmd.Mode))
	}
	if cmd.Mode.IsSpecial() {
		if cmd.PlanNo != 0 {
			return errors.Validation("planNo", "must be 0 for special mode %q, got %d", string(cmd.Mode), cmd.PlanNo)
		}
	} else if cmd.PlanNo <= 0 {
		return errors.Validation("planNo", "must be positive for mode %q, got %d", string(cmd.Mode), cmd.PlanNo)
	}

	if err := o.checkCrossExists(ctx, cmd.CrossID); err != nil {
		return err
	}

	if cmd.Mode.IsSpecial() {
		return nil
	}
	exists, err := o.plan.Exists(ctx, cmd.CrossID, cmd.PlanNo)
	if err != nil {
		return errors.Business(err, "plan lookup failed: "+err.Error())
	}
	if !exists {
		return errors.NotFoundf("plan %d not found for cross %q", cmd.PlanNo, cmd.CrossID)
	}
	if o.requireActivePlan {
		return o.checkPlanScheduled(ctx, cmd.CrossID, cmd.PlanNo)
	}
	return nil
}

func (o *Orchestrator) checkPlanScheduled(ctx context.Context, crossID string, planNo int) error {
	dayPlans, err := o.dayPlan.ListByCross(ctx, crossID)
	if err != nil {
		return errors.Business(err, "day plan lookup failed: "+err.Error())
	}
	for _, dp := range dayPlans {
		for _, period := range dp.Periods {
			if period.PlanNo == planNo {
				return nil
			}
		}
	}
	return errors.Validation("planNo", "plan %d is not scheduled by any day plan of cross %q", planNo, crossID)
}

// LockFlowDirection validates and applies a flow lock. The lock is recorded
// with EndTime = now + duration; duration 0 holds until unlocked.
func (o *Orchestrator) LockFlowDirection(ctx context.Context, cmd model.LockFlowDirection) (lock FlowLock, err error) {
	defer func() { o.count("lock_flow", err) }()

	if err = protocol.CheckCrossID(cmd.CrossID); err != nil {
		return FlowLock{}, err
	}
	if !cmd.FlowType.Valid() {
		return FlowLock{}, errors.Validation("type", "unknown flow type %d", int(cmd.FlowType))
	}
	if err = model.CheckDirection("entrance", cmd.Entrance); err != nil {
		return FlowLock{}, err
	}
	if err = model.CheckDirection("exit", cmd.Exit); err != nil {
		return FlowLock{}, err
	}
	if !cmd.LockType.Valid() {
		return FlowLock{}, errors.Validation("lockType", "unknown lock type %d", int(cmd.LockType))
	}
	if cmd.LockType == model.LockSingleEntry && cmd.LockStageNo <= 0 {
		return FlowLock{}, errors.Validation("lockStageNo", "required for single-entry lock")
	}
	if cmd.Duration < 0 {
		return FlowLock{}, errors.Validation("duration", "must not be negative, got %d", cmd.Duration)
	}
	if err = o.checkCrossExists(ctx, cmd.CrossID); err != nil {
		return FlowLock{}, err
	}

	if err = o.control.LockFlowDirection(ctx, cmd); err != nil {
		return FlowLock{}, errors.Business(err, "control service rejected flow lock: "+err.Error())
	}

	now := time.Now()
	lock = FlowLock{
		CrossID:     cmd.CrossID,
		FlowType:    cmd.FlowType,
		Entrance:    cmd.Entrance,
		Exit:        cmd.Exit,
		LockType:    cmd.LockType,
		LockStageNo: cmd.LockStageNo,
		Duration:    cmd.Duration,
		StartTime:   now,
	}
	if cmd.Duration > 0 {
		lock.EndTime = now.Add(time.Duration(cmd.Duration) * time.Second)
	}
	o.locks.Put(lock)

	o.logger.Info("flow direction locked",
		"cross_id", cmd.CrossID,
		"entrance", int(cmd.Entrance),
		"exit", int(cmd.Exit),
		"duration_s", cmd.Duration)
	return lock, nil
}

// UnlockFlowDirection removes the lock matching the compound key. Unlocking
// a non-existent lock is not an error.
func (o *Orchestrator) UnlockFlowDirection(ctx context.Context, cmd model.UnlockFlowDirection) (err error) {
	defer func() { o.count("unlock_flow", err) }()

	if err = protocol.CheckCrossID(cmd.CrossID); err != nil {
		return err
	}
	if !cmd.FlowType.Valid() {
		return errors.Validation("type", "unknown flow type %d", int(cmd.FlowType))
	}
	if err = model.CheckDirection("entrance", cmd.Entrance); err != nil {
		return err
	}
	if err = model.CheckDirection("exit", cmd.Exit); err != nil {
		return err
	}

	// The field layer unlock is idempotent too; always forward so a lock
	// surviving from a previous process generation is still released.
	if err = o.control.UnlockFlowDirection(ctx, cmd); err != nil {
		return errors.Business(err, "control service rejected flow unlock: "+err.Error())
	}
	removed := o.locks.Remove(cmd.CrossID, cmd.FlowType, cmd.Entrance, cmd.Exit)

	o.logger.Info("flow direction unlocked",
		"cross_id", cmd.CrossID,
		"entrance", int(cmd.Entrance),
		"exit", int(cmd.Exit),
		"had_lock", removed)
	return nil
}

// StageIntervention validates and forwards a transient stage intervention.
// Interventions are commands, not persisted entities; no local state is
// kept.
func (o *Orchestrator) StageIntervention(ctx context.Context, cmd model.AdjustStage) (err error) {
	defer func() { o.count("stage_intervention", err) }()

	if err = protocol.CheckCrossID(cmd.CrossID); err != nil {
		return err
	}
	if cmd.StageNo <= 0 {
		return errors.Validation("stageNo", "must be positive, got %d", cmd.StageNo)
	}
	if !cmd.Type.Valid() {
		return errors.Validation("type", "unknown intervention type %d", int(cmd.Type))
	}
	if cmd.Len <= 0 {
		return errors.Validation("len", "must be positive, got %d", cmd.Len)
	}
	if err = o.checkCrossExists(ctx, cmd.CrossID); err != nil {
		return err
	}

	if err = o.control.StageIntervention(ctx, cmd); err != nil {
		return errors.Business(err, "control service rejected stage intervention: "+err.Error())
	}
	o.logger.Info("stage intervention",
		"cross_id", cmd.CrossID,
		"stage_no", cmd.StageNo,
		"type", int(cmd.Type),
		"len_s", cmd.Len)
	return nil
}

// CtrlVarLane validates and forwards a variable-lane reassignment. The lane
// must be configured as variable and the requested movement must be in its
// allowed set; an optional time window must be chronological.
func (o *Orchestrator) CtrlVarLane(ctx context.Context, cmd model.CtrlVarLane) (err error) {
	defer func() { o.count("ctrl_var_lane", err) }()

	if err = protocol.CheckCrossID(cmd.CrossID); err != nil {
		return err
	}
	if cmd.LaneNo <= 0 {
		return errors.Validation("laneNo", "must be positive, got %d", cmd.LaneNo)
	}
	if cmd.Movement == "" {
		return errors.Validation("movement", "must not be empty")
	}
	if err = checkWindow(cmd.StartTime, cmd.EndTime); err != nil {
		return err
	}

	laneParam, err := o.lane.Get(ctx, cmd.CrossID, cmd.LaneNo)
	if err != nil {
		return err
	}
	if !laneParam.IsVariable() {
		return errors.Validation("laneNo", "lane %d of cross %q is not variable", cmd.LaneNo, cmd.CrossID)
	}
	if !laneParam.AllowsMovement(cmd.Movement) {
		return errors.Validation("movement", "movement %q not allowed for lane %d", string(cmd.Movement), cmd.LaneNo)
	}

	if err = o.control.CtrlVarLane(ctx, cmd); err != nil {
		return errors.Business(err, "control service rejected lane reassignment: "+err.Error())
	}
	o.logger.Info("variable lane reassigned",
		"cross_id", cmd.CrossID,
		"lane_no", cmd.LaneNo,
		"movement", string(cmd.Movement))
	return nil
}

func checkWindow(start, end string) error {
	if start == "" || end == "" {
		return nil
	}
	s, err := protocol.ParseTime(start)
	if err != nil {
		return errors.Validation("startTime", "not in %q form: %q", protocol.LayoutHuman, start)
	}
	e, err := protocol.ParseTime(end)
	if err != nil {
		return errors.Validation("endTime", "not in %q form: %q", protocol.LayoutHuman, end)
	}
	if !e.After(s) {
		return errors.Validation("endTime", "must be after startTime")
	}
	return nil
}

func (o *Orchestrator) checkCrossExists(ctx context.Context, crossID string) error {
	exists, err := o.cross.Exists(ctx, crossID)
	if err != nil {
		return errors.Business(err, "cross lookup failed: "+err.Error())
	}
	if !exists {
		return errors.NotFound("cross", crossID)
	}
	return nil
}
