package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/testutil"
)

func TestResponseReversesAddressing(t *testing.T) {
	req := testutil.GetRequest("20260828103000000002001", "tok", string(model.KindSysInfo), "")
	resp := Response(req, &model.SysInfo{SysName: "signalctl"})

	assert.Equal(t, protocol.TypeResponse, resp.Type)
	assert.Equal(t, req.Seq, resp.Seq)
	assert.Equal(t, req.Token, resp.Token)
	assert.Equal(t, req.To, resp.From)
	assert.Equal(t, req.From, resp.To)
	assert.Equal(t, req.OperationName(), resp.OperationName())
}

func TestResponseNormalization(t *testing.T) {
	req := testutil.GetRequest("20260828103000000002002", "tok", string(model.KindLaneParam), testutil.CrossID)

	// No results is a payload-less success.
	resp := Response(req)
	require.Len(t, resp.Body.Operations, 1)
	assert.Empty(t, resp.Body.Operations[0].Objects)

	// One result rides directly as the payload.
	resp = Response(req, &model.LaneParam{CrossID: testutil.CrossID, LaneNo: 1})
	require.Len(t, resp.Body.Operations[0].Objects, 1)

	// Several results keep their order.
	resp = Response(req,
		&model.LaneParam{CrossID: testutil.CrossID, LaneNo: 1},
		&model.LaneParam{CrossID: testutil.CrossID, LaneNo: 2},
	)
	objs := resp.Body.Operations[0].Objects
	require.Len(t, objs, 2)
	assert.Equal(t, 1, objs[0].(*model.LaneParam).LaneNo)
	assert.Equal(t, 2, objs[1].(*model.LaneParam).LaneNo)
}

func TestErrorCarriesWireCode(t *testing.T) {
	req := testutil.GetRequest("20260828103000000002003", "tok", string(model.KindCrossParam), testutil.CrossID)

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validation", errors.Validation("crossId", "too short"), errors.CodeValidation},
		{"authentication", errors.Authentication(errors.ErrBadCredentials, "bad credential"), errors.CodeAuthentication},
		{"session", errors.SessionExpired(errors.ErrSessionExpired), errors.CodeSessionExpired},
		{"not found", errors.NotFound("CrossParam", testutil.CrossID), errors.CodeNotFound},
		{"business", errors.Business(nil, "plan not scheduled"), errors.CodeBusiness},
		{"unclassified", assert.AnError, errors.CodeSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Error(req, tt.err)
			assert.Equal(t, protocol.TypeError, resp.Type)
			assert.Equal(t, req.Seq, resp.Seq)

			info, ok := resp.Body.Operations[0].Objects[0].(*model.ErrorInfo)
			require.True(t, ok)
			assert.Equal(t, tt.code, info.ErrCode)
			assert.NotEmpty(t, info.ErrDesc)
		})
	}
}

func TestErrorNamesOffendingObject(t *testing.T) {
	req := testutil.SetRequest("20260828103000000002004", "tok", &model.CrossCtrlInfo{
		CrossID: testutil.CrossID,
		Mode:    model.ModeAllRed,
	})
	resp := Error(req, errors.Validation("planNo", "special modes carry no plan"))

	info := resp.Body.Operations[0].Objects[0].(*model.ErrorInfo)
	assert.Equal(t, model.NameCrossCtrlInfo, info.ErrObj)
}

func TestErrorWithObject(t *testing.T) {
	req := testutil.GetRequest("20260828103000000002005", "tok", string(model.KindPlanParam), testutil.CrossID)
	resp := ErrorWithObject(req, errors.CodeNotFound, "no such plan", model.NameTSCCmd)

	info := resp.Body.Operations[0].Objects[0].(*model.ErrorInfo)
	assert.Equal(t, errors.CodeNotFound, info.ErrCode)
	assert.Equal(t, "no such plan", info.ErrDesc)
	assert.Equal(t, model.NameTSCCmd, info.ErrObj)
}

func TestPush(t *testing.T) {
	msg := Push("20260828103000000002006", testutil.ServerAddr, testutil.ClientAddr,
		&model.CrossState{CrossID: testutil.CrossID, Value: "Online"})

	assert.Equal(t, protocol.TypePush, msg.Type)
	assert.Equal(t, protocol.OpNotify, msg.OperationName())
	require.Len(t, msg.Body.Operations, 1)
	assert.Len(t, msg.Body.Operations[0].Objects, 1)
}
