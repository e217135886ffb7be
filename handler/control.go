package handler

import (
	"context"
	"fmt"

	"github.com/c360/signalctl/control"
	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/reply"
	"github.com/c360/signalctl/session"
)

// ControlMode applies control-mode assignments. Token required.
type ControlMode struct {
	orchestrator *control.Orchestrator
}

// NewControlMode creates the control-mode handler.
func NewControlMode(orchestrator *control.Orchestrator) *ControlMode {
	return &ControlMode{orchestrator: orchestrator}
}

// Name implements dispatch.SessionHandler.
func (*ControlMode) Name() string { return "control-mode" }

// Supports matches Set requests carrying a control-mode assignment.
func (*ControlMode) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.CrossCtrlInfo](msg, protocol.OpSet)
}

// HandleSession implements dispatch.SessionHandler.
func (h *ControlMode) HandleSession(ctx context.Context, msg protocol.Message, _ *session.Session) (protocol.Message, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return protocol.Message{}, err
	}
	cmd := obj.(*model.CrossCtrlInfo)

	if err := h.orchestrator.SetControlMode(ctx, *cmd); err != nil {
		return protocol.Message{}, err
	}
	return reply.Response(msg, &model.CommandAck{
		CrossID: cmd.CrossID,
		Command: model.NameCrossCtrlInfo,
		Detail:  fmt.Sprintf("mode %s plan %d", cmd.Mode, cmd.PlanNo),
	}), nil
}

// LockFlow applies flow-direction locks. Token required.
type LockFlow struct {
	orchestrator *control.Orchestrator
}

// NewLockFlow creates the flow lock handler.
func NewLockFlow(orchestrator *control.Orchestrator) *LockFlow {
	return &LockFlow{orchestrator: orchestrator}
}

// Name implements dispatch.SessionHandler.
func (*LockFlow) Name() string { return "lock-flow" }

// Supports matches Set requests carrying a flow lock command.
func (*LockFlow) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.LockFlowDirection](msg, protocol.OpSet)
}

// HandleSession implements dispatch.SessionHandler.
func (h *LockFlow) HandleSession(ctx context.Context, msg protocol.Message, _ *session.Session) (protocol.Message, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return protocol.Message{}, err
	}
	cmd := obj.(*model.LockFlowDirection)

	lock, err := h.orchestrator.LockFlowDirection(ctx, *cmd)
	if err != nil {
		return protocol.Message{}, err
	}
	return reply.Response(msg, &model.CommandAck{
		CrossID: cmd.CrossID,
		Command: model.NameLockFlowDirection,
		Detail:  fmt.Sprintf("entrance %d exit %d until %s", cmd.Entrance, cmd.Exit, protocol.FormatTime(lock.EndTime)),
	}), nil
}

// UnlockFlow removes flow-direction locks. Token required.
type UnlockFlow struct {
	orchestrator *control.Orchestrator
}

// NewUnlockFlow creates the flow unlock handler.
func NewUnlockFlow(orchestrator *control.Orchestrator) *UnlockFlow {
	return &UnlockFlow{orchestrator: orchestrator}
}

// Name implements dispatch.SessionHandler.
func (*UnlockFlow) Name() string { return "unlock-flow" }

// Supports matches Set requests carrying a flow unlock command.
func (*UnlockFlow) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.UnlockFlowDirection](msg, protocol.OpSet)
}

// HandleSession implements dispatch.SessionHandler.
func (h *UnlockFlow) HandleSession(ctx context.Context, msg protocol.Message, _ *session.Session) (protocol.Message, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return protocol.Message{}, err
	}
	cmd := obj.(*model.UnlockFlowDirection)

	if err := h.orchestrator.UnlockFlowDirection(ctx, *cmd); err != nil {
		return protocol.Message{}, err
	}
	return reply.Response(msg, &model.CommandAck{
		CrossID: cmd.CrossID,
		Command: model.NameUnlockFlowDirection,
	}), nil
}

// StageIntervention forwards transient stage interventions. Token required.
type StageIntervention struct {
	orchestrator *control.Orchestrator
}

// NewStageIntervention creates the stage intervention handler.
func NewStageIntervention(orchestrator *control.Orchestrator) *StageIntervention {
	return &StageIntervention{orchestrator: orchestrator}
}

// Name implements dispatch.SessionHandler.
func (*StageIntervention) Name() string { return "stage-intervention" }

// Supports matches Set requests carrying a stage adjustment.
func (*StageIntervention) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.AdjustStage](msg, protocol.OpSet)
}

// HandleSession implements dispatch.SessionHandler.
func (h *StageIntervention) HandleSession(ctx context.Context, msg protocol.Message, _ *session.Session) (protocol.Message, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return protocol.Message{}, err
	}
	cmd := obj.(*model.AdjustStage)

	if err := h.orchestrator.StageIntervention(ctx, *cmd); err != nil {
		return protocol.Message{}, err
	}
	return reply.Response(msg, &model.CommandAck{
		CrossID: cmd.CrossID,
		Command: model.NameAdjustStage,
		Detail:  fmt.Sprintf("stage %d type %d len %ds", cmd.StageNo, cmd.Type, cmd.Len),
	}), nil
}

// VarLane reassigns variable lane movements. Token required.
type VarLane struct {
	orchestrator *control.Orchestrator
}

// NewVarLane creates the variable lane handler.
func NewVarLane(orchestrator *control.Orchestrator) *VarLane {
	return &VarLane{orchestrator: orchestrator}
}

// Name implements dispatch.SessionHandler.
func (*VarLane) Name() string { return "var-lane" }

// Supports matches Set requests carrying a lane reassignment.
func (*VarLane) Supports(msg protocol.Message) bool {
	return dispatch.IsRequestOf[*model.CtrlVarLane](msg, protocol.OpSet)
}

// HandleSession implements dispatch.SessionHandler.
func (h *VarLane) HandleSession(ctx context.Context, msg protocol.Message, _ *session.Session) (protocol.Message, error) {
	obj, err := msg.FirstObject()
	if err != nil {
		return protocol.Message{}, err
	}
	cmd := obj.(*model.CtrlVarLane)

	if err := h.orchestrator.CtrlVarLane(ctx, *cmd); err != nil {
		return protocol.Message{}, err
	}
	return reply.Response(msg, &model.CommandAck{
		CrossID: cmd.CrossID,
		Command: model.NameCtrlVarLane,
		Detail:  fmt.Sprintf("lane %d movement %s", cmd.LaneNo, cmd.Movement),
	}), nil
}
