// Package query routes the generic object query command to the read
// operation matching its object kind. The router is a flat resolver table
// keyed by kind; new kinds register without touching existing cases.
package query

import (
	"context"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/service"
)

// Resolver answers a query for one object kind. It returns the matched
// objects in wire form: one element for item lookups, the collection for
// bulk and scoped listings.
type Resolver func(ctx context.Context, cmd model.TSCCmd) ([]protocol.Object, error)

// Router dispatches TSCCmd queries through its resolver table.
type Router struct {
	resolvers map[model.ObjectKind]Resolver
}

// NewRouter creates a router covering the full queryable vocabulary backed
// by the given services.
func NewRouter(svc *service.Registry) *Router {
	r := &Router{resolvers: make(map[model.ObjectKind]Resolver)}

	r.resolvers[model.KindSysInfo] = func(ctx context.Context, _ model.TSCCmd) ([]protocol.Object, error) {
		info, err := svc.SysInfo.Get(ctx)
		if err != nil {
			return nil, err
		}
		return []protocol.Object{info}, nil
	}

	r.resolvers[model.KindRegionParam] = listOrGet(
		svc.Region.List, svc.Region.Get, protocol.CheckRegionID)
	r.resolvers[model.KindSubRegionParam] = listOrGet(
		svc.SubRegion.List, svc.SubRegion.Get, protocol.CheckSubRegionID)
	r.resolvers[model.KindRouteParam] = listOrGet(
		svc.Route.List, svc.Route.Get, protocol.CheckRouteID)
	r.resolvers[model.KindCrossParam] = listOrGet(
		svc.Cross.List, svc.Cross.Get, protocol.CheckCrossID)
	r.resolvers[model.KindSignalController] = listOrGet(
		svc.SignalController.List, svc.SignalController.Get, protocol.CheckSignalControllerID)

	r.resolvers[model.KindLaneParam] = crossScoped(svc.Lane.ListByCross, svc.Lane.Get)
	r.resolvers[model.KindDetectorParam] = crossScoped(svc.Detector.ListByCross, svc.Detector.Get)
	r.resolvers[model.KindSignalGroupParam] = crossScoped(svc.SignalGroup.ListByCross, svc.SignalGroup.Get)
	r.resolvers[model.KindStageParam] = crossScoped(svc.Stage.ListByCross, svc.Stage.Get)
	r.resolvers[model.KindPlanParam] = crossScoped(svc.Plan.ListByCross, svc.Plan.Get)
	r.resolvers[model.KindDayPlanParam] = crossScoped(svc.DayPlan.ListByCross, svc.DayPlan.Get)
	r.resolvers[model.KindScheduleParam] = crossScoped(svc.Schedule.ListByCross, svc.Schedule.Get)

	r.resolvers[model.KindCrossState] = crossItem(svc.Runtime.State)
	r.resolvers[model.KindCrossModePlan] = crossItem(svc.ControlMode.Current)
	r.resolvers[model.KindCrossCycle] = crossItem(svc.Runtime.Cycle)
	r.resolvers[model.KindCrossStage] = crossItem(svc.Runtime.Stage)
	r.resolvers[model.KindSignalGroupStatus] = crossItem(svc.Runtime.SignalGroupStatus)
	r.resolvers[model.KindCrossTrafficData] = crossItem(svc.TrafficData.Latest)

	r.resolvers[model.KindVarLaneStatus] = func(ctx context.Context, cmd model.TSCCmd) ([]protocol.Object, error) {
		if err := requireCrossID(cmd); err != nil {
			return nil, err
		}
		statuses, err := svc.Runtime.VarLaneStatusList(ctx, cmd.ID)
		if err != nil {
			return nil, err
		}
		if cmd.No == 0 {
			return asObjects(statuses), nil
		}
		for _, status := range statuses {
			if status.LaneNo == cmd.No {
				return []protocol.Object{status}, nil
			}
		}
		return nil, errors.NotFoundf("variable lane %d not found for cross %q", cmd.No, cmd.ID)
	}

	r.resolvers[model.KindRouteControlMode] = routeItem(svc.RouteControl.ControlMode)
	r.resolvers[model.KindRouteSpeed] = routeItem(svc.RouteControl.Speed)

	return r
}

// Register adds a resolver for a new object kind. Registering an existing
// kind is an error; resolvers never shadow each other.
func (r *Router) Register(kind model.ObjectKind, resolver Resolver) error {
	if _, exists := r.resolvers[kind]; exists {
		return errors.Protocol(errors.ErrUnknownObjectKind,
			"resolver for kind "+string(kind)+" already registered")
	}
	r.resolvers[kind] = resolver
	return nil
}

// Resolve answers cmd. An unknown kind is a validation failure; a missing
// backing item surfaces the resolver's NotFound error.
func (r *Router) Resolve(ctx context.Context, cmd model.TSCCmd) ([]protocol.Object, error) {
	resolver, ok := r.resolvers[model.ObjectKind(cmd.ObjName)]
	if !ok {
		return nil, errors.Validation("objName", "unknown object kind %q", cmd.ObjName)
	}
	return resolver(ctx, cmd)
}

// Kinds returns the registered object kinds.
func (r *Router) Kinds() []model.ObjectKind {
	kinds := make([]model.ObjectKind, 0, len(r.resolvers))
	for kind := range r.resolvers {
		kinds = append(kinds, kind)
	}
	return kinds
}

func asObjects[T protocol.Object](items []T) []protocol.Object {
	out := make([]protocol.Object, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func requireCrossID(cmd model.TSCCmd) error {
	if cmd.ID == "" {
		return errors.Validation("id", "crossId required for %s", cmd.ObjName)
	}
	return protocol.CheckCrossID(cmd.ID)
}

// listOrGet builds a resolver for top-level kinds: no id returns the full
// collection; an id (validated by checkID) returns the item.
func listOrGet[T protocol.Object](
	list func(context.Context) ([]T, error),
	get func(context.Context, string) (T, error),
	checkID func(string) error,
) Resolver {
	return func(ctx context.Context, cmd model.TSCCmd) ([]protocol.Object, error) {
		if cmd.ID == "" {
			items, err := list(ctx)
			if err != nil {
				return nil, err
			}
			return asObjects(items), nil
		}
		if err := checkID(cmd.ID); err != nil {
			return nil, err
		}
		item, err := get(ctx, cmd.ID)
		if err != nil {
			return nil, err
		}
		return []protocol.Object{item}, nil
	}
}

// crossScoped builds a resolver for kinds keyed by intersection plus a
// secondary number: no number returns the intersection-scoped collection,
// a number returns the single item.
func crossScoped[T protocol.Object](
	list func(context.Context, string) ([]T, error),
	get func(context.Context, string, int) (T, error),
) Resolver {
	return func(ctx context.Context, cmd model.TSCCmd) ([]protocol.Object, error) {
		if err := requireCrossID(cmd); err != nil {
			return nil, err
		}
		if cmd.No == 0 {
			items, err := list(ctx, cmd.ID)
			if err != nil {
				return nil, err
			}
			return asObjects(items), nil
		}
		item, err := get(ctx, cmd.ID, cmd.No)
		if err != nil {
			return nil, err
		}
		return []protocol.Object{item}, nil
	}
}

// crossItem builds a resolver for runtime kinds with exactly one item per
// intersection.
func crossItem[T protocol.Object](get func(context.Context, string) (T, error)) Resolver {
	return func(ctx context.Context, cmd model.TSCCmd) ([]protocol.Object, error) {
		if err := requireCrossID(cmd); err != nil {
			return nil, err
		}
		item, err := get(ctx, cmd.ID)
		if err != nil {
			return nil, err
		}
		return []protocol.Object{item}, nil
	}
}

// routeItem builds a resolver for route-keyed runtime kinds.
func routeItem[T protocol.Object](get func(context.Context, string) (T, error)) Resolver {
	return func(ctx context.Context, cmd model.TSCCmd) ([]protocol.Object, error) {
		if cmd.ID == "" {
			return nil, errors.Validation("id", "routeId required for %s", cmd.ObjName)
		}
		if err := protocol.CheckRouteID(cmd.ID); err != nil {
			return nil, err
		}
		item, err := get(ctx, cmd.ID)
		if err != nil {
			return nil, err
		}
		return []protocol.Object{item}, nil
	}
}
