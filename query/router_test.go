package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/testutil"
)

func newRouter(t *testing.T) *Router {
	t.Helper()
	return NewRouter(testutil.NewFixture().Registry())
}

func TestResolveSysInfo(t *testing.T) {
	r := newRouter(t)

	objs, err := r.Resolve(context.Background(), model.TSCCmd{ObjName: string(model.KindSysInfo)})
	require.NoError(t, err)
	require.Len(t, objs, 1)

	info, ok := objs[0].(model.SysInfo)
	require.True(t, ok)
	assert.NotEmpty(t, info.SysName)
}

func TestResolveUnknownKind(t *testing.T) {
	r := newRouter(t)

	_, err := r.Resolve(context.Background(), model.TSCCmd{ObjName: "NoSuchKind"})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestResolveTopLevelListAndItem(t *testing.T) {
	r := newRouter(t)
	ctx := context.Background()

	// No id lists the collection.
	objs, err := r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindCrossParam)})
	require.NoError(t, err)
	assert.Len(t, objs, 2)

	// An id narrows to the item.
	objs, err = r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindCrossParam), ID: testutil.CrossID})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, testutil.CrossID, objs[0].(model.CrossParam).CrossID)

	// A malformed id fails validation before the lookup.
	_, err = r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindCrossParam), ID: "123"})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestResolveCrossScoped(t *testing.T) {
	r := newRouter(t)
	ctx := context.Background()

	// Scoped listing returns every lane of the intersection.
	objs, err := r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindLaneParam), ID: testutil.CrossID})
	require.NoError(t, err)
	assert.Len(t, objs, 2)

	// Secondary number narrows to one lane.
	objs, err = r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindLaneParam), ID: testutil.CrossID, No: 2})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, 2, objs[0].(model.LaneParam).LaneNo)

	// Missing intersection id is a validation failure.
	_, err = r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindLaneParam)})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	// A number with no backing item is NotFound.
	_, err = r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindLaneParam), ID: testutil.CrossID, No: 99})
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestResolveRuntimeItem(t *testing.T) {
	r := newRouter(t)
	ctx := context.Background()

	objs, err := r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindCrossState), ID: testutil.CrossID})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, testutil.CrossID, objs[0].(model.CrossState).CrossID)

	// The second seeded intersection carries no runtime state.
	_, err = r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindCrossState), ID: testutil.CrossID2})
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestResolveVarLaneStatus(t *testing.T) {
	r := newRouter(t)
	ctx := context.Background()

	objs, err := r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindVarLaneStatus), ID: testutil.CrossID})
	require.NoError(t, err)
	require.NotEmpty(t, objs)

	status := objs[0].(model.VarLaneStatus)
	objs, err = r.Resolve(ctx, model.TSCCmd{
		ObjName: string(model.KindVarLaneStatus),
		ID:      testutil.CrossID,
		No:      status.LaneNo,
	})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, status.LaneNo, objs[0].(model.VarLaneStatus).LaneNo)

	_, err = r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindVarLaneStatus), ID: testutil.CrossID, No: 42})
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestResolveRouteControlMode(t *testing.T) {
	r := newRouter(t)
	ctx := context.Background()

	objs, err := r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindRouteControlMode), ID: testutil.RouteID})
	require.NoError(t, err)
	require.Len(t, objs, 1)

	_, err = r.Resolve(ctx, model.TSCCmd{ObjName: string(model.KindRouteControlMode)})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestRegisterRejectsDuplicateKind(t *testing.T) {
	r := newRouter(t)

	err := r.Register(model.KindCrossParam, func(context.Context, model.TSCCmd) ([]protocol.Object, error) {
		return nil, nil
	})
	require.Error(t, err)

	custom := model.ObjectKind("CustomKind")
	require.NoError(t, r.Register(custom, func(context.Context, model.TSCCmd) ([]protocol.Object, error) {
		return []protocol.Object{&model.SysInfo{SysName: "custom"}}, nil
	}))

	objs, err := r.Resolve(context.Background(), model.TSCCmd{ObjName: string(custom)})
	require.NoError(t, err)
	assert.Len(t, objs, 1)
	assert.Contains(t, r.Kinds(), custom)
}
