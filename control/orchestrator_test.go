package control

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/testutil"
)

func newOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *testutil.Fixture) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fix := testutil.NewFixture()
	locks := NewLockStore(ctx)
	t.Cleanup(locks.Close)

	opts = append([]Option{WithLogger(testutil.Logger())}, opts...)
	return NewOrchestrator(fix.Registry(), locks, opts...), fix
}

func TestSetControlModeWithPlan(t *testing.T) {
	o, fix := newOrchestrator(t)

	err := o.SetControlMode(context.Background(), model.CrossCtrlInfo{
		CrossID: testutil.CrossID,
		Mode:    model.ModeAdaptive,
		PlanNo:  1,
	})
	require.NoError(t, err)

	require.Len(t, fix.Control.ModeCmds, 1)
	assert.Empty(t, fix.Control.EmergencyCalls)

	current, err := fix.ControlMode.Current(context.Background(), testutil.CrossID)
	require.NoError(t, err)
	assert.Equal(t, model.ModeAdaptive, current.Mode)
	assert.Equal(t, 1, current.PlanNo)
}

func TestSetControlModeSpecialTriggersEmergency(t *testing.T) {
	o, fix := newOrchestrator(t)

	err := o.SetControlMode(context.Background(), model.CrossCtrlInfo{
		CrossID: testutil.CrossID,
		Mode:    model.ModeAllRed,
	})
	require.NoError(t, err)

	require.Len(t, fix.Control.EmergencyCalls, 1)
	assert.Equal(t, model.ModeAllRed, fix.Control.EmergencyCalls[0])
}

func TestSetControlModeValidation(t *testing.T) {
	o, fix := newOrchestrator(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  model.CrossCtrlInfo
		kind errors.Kind
	}{
		{"bad cross id", model.CrossCtrlInfo{CrossID: "123", Mode: model.ModeLocalFixed, PlanNo: 1}, errors.KindValidation},
		{"unknown mode", model.CrossCtrlInfo{CrossID: testutil.CrossID, Mode: "99", PlanNo: 1}, errors.KindValidation},
		{"special mode with plan", model.CrossCtrlInfo{CrossID: testutil.CrossID, Mode: model.ModeAllRed, PlanNo: 1}, errors.KindValidation},
		{"regular mode without plan", model.CrossCtrlInfo{CrossID: testutil.CrossID, Mode: model.ModeLocalFixed}, errors.KindValidation},
		{"unknown cross", model.CrossCtrlInfo{CrossID: "99999999999999", Mode: model.ModeLocalFixed, PlanNo: 1}, errors.KindNotFound},
		{"unknown plan", model.CrossCtrlInfo{CrossID: testutil.CrossID, Mode: model.ModeLocalFixed, PlanNo: 9}, errors.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := o.SetControlMode(ctx, tt.cmd)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
		})
	}

	// No side effect reached the control service.
	assert.Empty(t, fix.Control.ModeCmds)
}

func TestSetControlModeRequireActivePlan(t *testing.T) {
	o, _ := newOrchestrator(t, WithRequireActivePlan())
	ctx := context.Background()

	// Plan 1 is bound by the seeded day plan.
	require.NoError(t, o.SetControlMode(ctx, model.CrossCtrlInfo{
		CrossID: testutil.CrossID,
		Mode:    model.ModeAdaptive,
		PlanNo:  1,
	}))

	// Plan 3 exists nowhere in a day plan period.
	err := o.SetControlMode(ctx, model.CrossCtrlInfo{
		CrossID: testutil.CrossID,
		Mode:    model.ModeAdaptive,
		PlanNo:  3,
	})
	require.Error(t, err)
}

func TestSetControlModeServiceFailure(t *testing.T) {
	o, fix := newOrchestrator(t)
	fix.Control.Err = assert.AnError

	err := o.SetControlMode(context.Background(), model.CrossCtrlInfo{
		CrossID: testutil.CrossID,
		Mode:    model.ModeLocalFixed,
		PlanNo:  1,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindBusiness, errors.KindOf(err))
}

func TestLockFlowDirection(t *testing.T) {
	o, fix := newOrchestrator(t)

	lock, err := o.LockFlowDirection(context.Background(), model.LockFlowDirection{
		CrossID:  testutil.CrossID,
		FlowType: model.FlowVehicle,
		Entrance: model.DirNorth,
		Exit:     model.DirSouth,
		LockType: model.LockCurrentPlan,
		Duration: 300,
	})
	require.NoError(t, err)
	require.Len(t, fix.Control.LockCmds, 1)
	assert.False(t, lock.EndTime.IsZero())
	assert.True(t, lock.EndTime.After(lock.StartTime))

	got, ok := o.Locks().Get(testutil.CrossID, model.FlowVehicle, model.DirNorth, model.DirSouth)
	require.True(t, ok)
	assert.Equal(t, lock.Key(), got.Key())
}

func TestLockFlowDirectionIndefinite(t *testing.T) {
	o, _ := newOrchestrator(t)

	lock, err := o.LockFlowDirection(context.Background(), model.LockFlowDirection{
		CrossID:  testutil.CrossID,
		FlowType: model.FlowVehicle,
		Entrance: model.DirEast,
		Exit:     model.DirWest,
		LockType: model.LockSignalGroup,
	})
	require.NoError(t, err)
	assert.True(t, lock.EndTime.IsZero())
}

func TestLockFlowDirectionValidation(t *testing.T) {
	o, _ := newOrchestrator(t)
	ctx := context.Background()
	base := model.LockFlowDirection{
		CrossID:  testutil.CrossID,
		FlowType: model.FlowVehicle,
		Entrance: model.DirNorth,
		Exit:     model.DirSouth,
		LockType: model.LockCurrentPlan,
		Duration: 60,
	}

	tests := []struct {
		name   string
		mutate func(*model.LockFlowDirection)
	}{
		{"bad flow type", func(c *model.LockFlowDirection) { c.FlowType = 9 }},
		{"bad entrance", func(c *model.LockFlowDirection) { c.Entrance = 0 }},
		{"bad exit", func(c *model.LockFlowDirection) { c.Exit = 12 }},
		{"bad lock type", func(c *model.LockFlowDirection) { c.LockType = 0 }},
		{"single entry without stage", func(c *model.LockFlowDirection) { c.LockType = model.LockSingleEntry }},
		{"negative duration", func(c *model.LockFlowDirection) { c.Duration = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := base
			tt.mutate(&cmd)
			_, err := o.LockFlowDirection(ctx, cmd)
			require.Error(t, err)
			assert.Equal(t, errors.KindValidation, errors.KindOf(err))
		})
	}
}

func TestUnlockFlowDirection(t *testing.T) {
	o, fix := newOrchestrator(t)
	ctx := context.Background()

	_, err := o.LockFlowDirection(ctx, model.LockFlowDirection{
		CrossID:  testutil.CrossID,
		FlowType: model.FlowVehicle,
		Entrance: model.DirNorth,
		Exit:     model.DirSouth,
		LockType: model.LockCurrentPlan,
		Duration: 300,
	})
	require.NoError(t, err)

	unlock := model.UnlockFlowDirection{
		CrossID:  testutil.CrossID,
		FlowType: model.FlowVehicle,
		Entrance: model.DirNorth,
		Exit:     model.DirSouth,
	}
	require.NoError(t, o.UnlockFlowDirection(ctx, unlock))
	require.Len(t, fix.Control.UnlockCmds, 1)

	_, ok := o.Locks().Get(testutil.CrossID, model.FlowVehicle, model.DirNorth, model.DirSouth)
	assert.False(t, ok)

	// Unlocking again is idempotent and still reaches the field layer.
	require.NoError(t, o.UnlockFlowDirection(ctx, unlock))
	assert.Len(t, fix.Control.UnlockCmds, 2)
}

func TestStageIntervention(t *testing.T) {
	o, fix := newOrchestrator(t)
	ctx := context.Background()

	require.NoError(t, o.StageIntervention(ctx, model.AdjustStage{
		CrossID: testutil.CrossID,
		StageNo: 1,
		Type:    model.InterventionExtend,
		Len:     15,
	}))
	require.Len(t, fix.Control.StageCmds, 1)

	tests := []struct {
		name string
		cmd  model.AdjustStage
	}{
		{"zero stage", model.AdjustStage{CrossID: testutil.CrossID, Type: model.InterventionExtend, Len: 15}},
		{"bad type", model.AdjustStage{CrossID: testutil.CrossID, StageNo: 1, Type: 9, Len: 15}},
		{"zero length", model.AdjustStage{CrossID: testutil.CrossID, StageNo: 1, Type: model.InterventionShorten}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := o.StageIntervention(ctx, tt.cmd)
			require.Error(t, err)
			assert.Equal(t, errors.KindValidation, errors.KindOf(err))
		})
	}
}

func TestCtrlVarLane(t *testing.T) {
	o, fix := newOrchestrator(t)
	ctx := context.Background()

	// Lane 2 is seeded variable with movements L and S.
	require.NoError(t, o.CtrlVarLane(ctx, model.CtrlVarLane{
		CrossID:  testutil.CrossID,
		LaneNo:   2,
		Movement: model.MovementLeft,
	}))
	require.Len(t, fix.Control.VarLaneCmds, 1)
}

func TestCtrlVarLaneRejections(t *testing.T) {
	o, _ := newOrchestrator(t)
	ctx := context.Background()

	// Lane 1 is not variable.
	err := o.CtrlVarLane(ctx, model.CtrlVarLane{
		CrossID:  testutil.CrossID,
		LaneNo:   1,
		Movement: model.MovementLeft,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	// Right turn is outside lane 2's allowed set.
	err = o.CtrlVarLane(ctx, model.CtrlVarLane{
		CrossID:  testutil.CrossID,
		LaneNo:   2,
		Movement: model.MovementRight,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	// Unknown lane surfaces the service miss.
	err = o.CtrlVarLane(ctx, model.CtrlVarLane{
		CrossID:  testutil.CrossID,
		LaneNo:   7,
		Movement: model.MovementLeft,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestCtrlVarLaneWindow(t *testing.T) {
	o, _ := newOrchestrator(t)
	ctx := context.Background()

	start := time.Now().Format("2006-01-02 15:04:05")
	end := time.Now().Add(time.Hour).Format("2006-01-02 15:04:05")

	require.NoError(t, o.CtrlVarLane(ctx, model.CtrlVarLane{
		CrossID:   testutil.CrossID,
		LaneNo:    2,
		Movement:  model.MovementStraight,
		StartTime: start,
		EndTime:   end,
	}))

	// A reversed window is rejected before any lookup.
	err := o.CtrlVarLane(ctx, model.CtrlVarLane{
		CrossID:   testutil.CrossID,
		LaneNo:    2,
		Movement:  model.MovementStraight,
		StartTime: end,
		EndTime:   start,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	err = o.CtrlVarLane(ctx, model.CtrlVarLane{
		CrossID:   testutil.CrossID,
		LaneNo:    2,
		Movement:  model.MovementStraight,
		StartTime: "not a time",
		EndTime:   end,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}
