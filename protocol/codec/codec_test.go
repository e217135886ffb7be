package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
)

var (
	client = protocol.Address{System: protocol.SystemCenter}
	server = protocol.Address{System: protocol.SystemUTCS}
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Thing", func() protocol.Object { return &model.TSCCmd{} }))

	obj, ok := r.New("Thing")
	require.True(t, ok)
	assert.IsType(t, &model.TSCCmd{}, obj)

	_, ok = r.New("Other")
	assert.False(t, ok)

	err := r.Register("Thing", func() protocol.Object { return &model.TSCCmd{} })
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPayloadTypeConflict))

	assert.Error(t, r.Register("", nil))
}

func TestDefaultRegistryCoversVocabulary(t *testing.T) {
	r := NewDefaultRegistry()
	for _, name := range []string{
		string(model.KindSysInfo),
		string(model.KindCrossParam),
		string(model.KindCrossState),
		model.NameUserInfo,
		model.NameTSCCmd,
		model.NameErrorInfo,
	} {
		_, ok := r.New(name)
		assert.True(t, ok, "missing factory for %s", name)
	}
}

func TestXMLRoundTrip(t *testing.T) {
	c := New(NewDefaultRegistry())

	msg := protocol.NewRequest("202608281030000000001", "tok-1", client, server,
		protocol.OpGet,
		&model.TSCCmd{ObjName: string(model.KindPlanParam), ID: "11010000100001", No: 2},
	)

	data, err := c.EncodeXML(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Token>tok-1</Token>")
	assert.Contains(t, string(data), `name="Get"`)

	decoded, err := c.DecodeXML(data)
	require.NoError(t, err)
	assert.Equal(t, msg.Version, decoded.Version)
	assert.Equal(t, msg.Token, decoded.Token)
	assert.Equal(t, msg.Type, decoded.Type)
	assert.Equal(t, msg.Seq, decoded.Seq)
	assert.Equal(t, msg.From, decoded.From)
	assert.Equal(t, msg.To, decoded.To)

	require.Len(t, decoded.Body.Operations, 1)
	op := decoded.Body.Operations[0]
	assert.Equal(t, protocol.OpGet, op.Name)
	require.Len(t, op.Objects, 1)

	cmd, ok := op.Objects[0].(*model.TSCCmd)
	require.True(t, ok)
	assert.Equal(t, string(model.KindPlanParam), cmd.ObjName)
	assert.Equal(t, "11010000100001", cmd.ID)
	assert.Equal(t, 2, cmd.No)
}

func TestXMLMultipleObjects(t *testing.T) {
	c := New(NewDefaultRegistry())

	msg := protocol.NewRequest("202608281030000000002", "tok-1", client, server,
		protocol.OpSet,
		&model.CrossCtrlInfo{CrossID: "11010000100001", Mode: model.ModeLocalFixed, PlanNo: 1},
		&model.CrossCtrlInfo{CrossID: "11010000100002", Mode: model.ModeAllRed, PlanNo: 0},
	)

	data, err := c.EncodeXML(msg)
	require.NoError(t, err)

	decoded, err := c.DecodeXML(data)
	require.NoError(t, err)
	require.Len(t, decoded.Body.Operations, 1)
	require.Len(t, decoded.Body.Operations[0].Objects, 2)

	first := decoded.Body.Operations[0].Objects[0].(*model.CrossCtrlInfo)
	second := decoded.Body.Operations[0].Objects[1].(*model.CrossCtrlInfo)
	assert.Equal(t, model.ModeLocalFixed, first.Mode)
	assert.Equal(t, 1, first.PlanNo)
	assert.Equal(t, model.ModeAllRed, second.Mode)
	assert.Equal(t, 0, second.PlanNo)
}

func TestXMLOmitsEmptyToken(t *testing.T) {
	c := New(NewDefaultRegistry())

	msg := protocol.NewRequest("202608281030000000003", "", client, server,
		protocol.OpLogin,
		&model.UserInfo{UserName: "operator", Password: "secret"},
	)

	data, err := c.EncodeXML(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<Token>")

	decoded, err := c.DecodeXML(data)
	require.NoError(t, err)
	assert.Empty(t, decoded.Token)

	user := decoded.Body.Operations[0].Objects[0].(*model.UserInfo)
	assert.Equal(t, "operator", user.UserName)
}

func TestXMLUnknownPayloadElement(t *testing.T) {
	c := New(NewDefaultRegistry())

	frame := `<Message><Version>2.0</Version><Type>REQUEST</Type>` +
		`<Seq>20260828103000000004</Seq>` +
		`<From><Sys>TICP</Sys></From><To><Sys>UTCS</Sys></To>` +
		`<Body><Operation order="1" name="Get"><Bogus/></Operation></Body></Message>`

	_, err := c.DecodeXML([]byte(frame))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownObjectKind))
	assert.Contains(t, err.Error(), "Bogus")
}

func TestXMLMalformedEnvelope(t *testing.T) {
	c := New(NewDefaultRegistry())
	_, err := c.DecodeXML([]byte("<Message><unclosed>"))
	require.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	c := New(NewDefaultRegistry())

	msg := protocol.NewRequest("202608281030000000005", "tok-2", client, server,
		protocol.OpSet,
		&model.LockFlowDirection{
			CrossID:  "11010000100001",
			FlowType: model.FlowVehicle,
			Entrance: model.DirNorth,
			Exit:     model.DirSouth,
			LockType: model.LockCurrentPlan,
			Duration: 120,
		},
	)

	data, err := c.EncodeJSON(msg)
	require.NoError(t, err)

	decoded, err := c.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, msg.Seq, decoded.Seq)
	assert.Equal(t, msg.Token, decoded.Token)
	require.Len(t, decoded.Body.Operations, 1)

	lock, ok := decoded.Body.Operations[0].Objects[0].(*model.LockFlowDirection)
	require.True(t, ok)
	assert.Equal(t, "11010000100001", lock.CrossID)
	assert.Equal(t, 120, lock.Duration)
}

func TestJSONUnknownPayloadType(t *testing.T) {
	c := New(NewDefaultRegistry())

	frame := `{"version":"2.0","type":"REQUEST","seq":"20260828103000000006",` +
		`"from":{"sys":"TICP"},"to":{"sys":"UTCS"},` +
		`"operations":[{"order":1,"name":"Get","objects":[{"type":"Bogus","data":{}}]}]}`

	_, err := c.DecodeJSON([]byte(frame))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownObjectKind))
}

func TestJSONMalformedEnvelope(t *testing.T) {
	c := New(NewDefaultRegistry())
	_, err := c.DecodeJSON([]byte("{not json"))
	require.Error(t, err)
}
