package handler

import (
	"github.com/c360/signalctl/control"
	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/query"
	"github.com/c360/signalctl/retrans"
	"github.com/c360/signalctl/service"
	"github.com/c360/signalctl/session"
)

// ChainConfig holds the dependencies of the full handler chain.
type ChainConfig struct {
	Sessions      *session.Manager
	Subscriptions *SubscriptionTable
	Router        *query.Router
	Orchestrator  *control.Orchestrator
	Retrans       *retrans.Manager
	Services      *service.Registry
}

// NewChain builds the complete handler chain in priority order, with the
// token-required wrapper applied to every handler that needs a session.
func NewChain(cfg ChainConfig) []dispatch.Handler {
	return []dispatch.Handler{
		NewLogin(cfg.Sessions),
		NewLogout(cfg.Sessions, cfg.Subscriptions),
		dispatch.RequireToken(cfg.Sessions, NewObjectQuery(cfg.Router)),
		dispatch.RequireToken(cfg.Sessions, NewControlMode(cfg.Orchestrator)),
		dispatch.RequireToken(cfg.Sessions, NewLockFlow(cfg.Orchestrator)),
		dispatch.RequireToken(cfg.Sessions, NewUnlockFlow(cfg.Orchestrator)),
		dispatch.RequireToken(cfg.Sessions, NewStageIntervention(cfg.Orchestrator)),
		dispatch.RequireToken(cfg.Sessions, NewVarLane(cfg.Orchestrator)),
		dispatch.RequireToken(cfg.Sessions, NewRetrans(cfg.Retrans)),
		dispatch.RequireToken(cfg.Sessions, NewSubscribe(cfg.Subscriptions)),
		dispatch.RequireToken(cfg.Sessions, NewUnsubscribe(cfg.Subscriptions)),
		NewDoorStatusPush(cfg.Services.DoorStatus),
		NewTrafficDataPush(cfg.Services.TrafficData),
	}
}

// Probes returns one representative message per supported message shape.
// Installed on the dispatcher, the corpus rejects a handler registration
// whose predicate overlaps an existing handler.
func Probes() []protocol.Message {
	center := protocol.Address{System: protocol.SystemCenter}
	utcs := protocol.Address{System: protocol.SystemUTCS}

	req := func(name protocol.OpName, obj protocol.Object) protocol.Message {
		return protocol.NewRequest("probe-"+string(name)+"-"+obj.ObjectName(), "probe-token", center, utcs, name, obj)
	}

	return []protocol.Message{
		protocol.NewRequest("probe-login", "", center, utcs, protocol.OpLogin, &model.UserInfo{UserName: "probe"}),
		req(protocol.OpLogout, &model.UserInfo{UserName: "probe"}),
		req(protocol.OpGet, &model.TSCCmd{ObjName: string(model.KindSysInfo)}),
		req(protocol.OpSet, &model.CrossCtrlInfo{CrossID: "11010000000001", Mode: model.ModeAllRed}),
		req(protocol.OpSet, &model.LockFlowDirection{CrossID: "11010000000001"}),
		req(protocol.OpSet, &model.UnlockFlowDirection{CrossID: "11010000000001"}),
		req(protocol.OpSet, &model.AdjustStage{CrossID: "11010000000001"}),
		req(protocol.OpSet, &model.CtrlVarLane{CrossID: "11010000000001"}),
		req(protocol.OpSet, &model.CrossReportCtrl{ObjName: string(model.KindCrossTrafficData)}),
		req(protocol.OpSubscribe, &model.Subscription{ObjName: string(model.KindCrossState)}),
		req(protocol.OpUnsubscribe, &model.Subscription{ObjName: string(model.KindCrossState)}),
		protocol.NewPush("probe-door", utcs, center, &model.SCDoorStatus{}),
		protocol.NewPush("probe-traffic", utcs, center, &model.CrossTrafficData{}),
	}
}
