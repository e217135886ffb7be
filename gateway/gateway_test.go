package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/signalctl/dispatch"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/protocol/codec"
	"github.com/c360/signalctl/reply"
	"github.com/c360/signalctl/testutil"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want WireFormat
	}{
		{"xml", "<Message></Message>", FormatXML},
		{"json object", `{"version":"2.0"}`, FormatJSON},
		{"json array", `[1,2]`, FormatJSON},
		{"leading whitespace json", "  \r\n\t{", FormatJSON},
		{"leading whitespace xml", "  <Message/>", FormatXML},
		{"empty", "", FormatXML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat([]byte(tt.data)))
		})
	}

	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "xml", FormatXML.String())
}

// echoHandler answers any Get request with an empty success.
type echoHandler struct{}

func (echoHandler) Name() string { return "echo" }

func (echoHandler) Supports(msg protocol.Message) bool {
	return msg.IsRequest() && msg.OperationName() == protocol.OpGet
}

func (echoHandler) Handle(_ context.Context, msg protocol.Message) (protocol.Message, error) {
	return reply.Response(msg, &model.SysInfo{SysName: "signalctl"}), nil
}

func newGateway(t *testing.T, opts ...Option) *Gateway {
	t.Helper()
	d := dispatch.New(dispatch.WithLogger(testutil.Logger()))
	d.MustRegister(echoHandler{})

	opts = append([]Option{WithLogger(testutil.Logger())}, opts...)
	return New(nil, codec.New(codec.NewDefaultRegistry()), d, "tsc.request", opts...)
}

func TestHandleFrameXMLRoundTrip(t *testing.T) {
	g := newGateway(t)
	c := codec.New(codec.NewDefaultRegistry())

	req := testutil.GetRequest("20260828103000000004001", "tok", string(model.KindSysInfo), "")
	frame, err := c.EncodeXML(req)
	require.NoError(t, err)

	out := g.handleFrame(context.Background(), frame)
	require.NotNil(t, out)

	// The reply comes back in the request's wire format.
	assert.Equal(t, FormatXML, DetectFormat(out))
	resp, err := c.DecodeXML(out)
	require.NoError(t, err)
	assert.Equal(t, protocol.TypeResponse, resp.Type)
	assert.Equal(t, req.Seq, resp.Seq)
}

func TestHandleFrameJSONRoundTrip(t *testing.T) {
	g := newGateway(t)
	c := codec.New(codec.NewDefaultRegistry())

	req := testutil.GetRequest("20260828103000000004002", "tok", string(model.KindSysInfo), "")
	frame, err := c.EncodeJSON(req)
	require.NoError(t, err)

	out := g.handleFrame(context.Background(), frame)
	require.NotNil(t, out)

	assert.Equal(t, FormatJSON, DetectFormat(out))
	resp, err := c.DecodeJSON(out)
	require.NoError(t, err)
	assert.Equal(t, protocol.TypeResponse, resp.Type)
	assert.Equal(t, req.Seq, resp.Seq)
}

func TestHandleFrameMalformedIsDropped(t *testing.T) {
	g := newGateway(t)

	assert.Nil(t, g.handleFrame(context.Background(), []byte("<Message><unclosed>")))
	assert.Nil(t, g.handleFrame(context.Background(), []byte("{not json")))
}

func TestHandleFramePushYieldsNoReply(t *testing.T) {
	g := newGateway(t)
	c := codec.New(codec.NewDefaultRegistry())

	push := testutil.PushMessage("20260828103000000004003", "tok", &model.CrossState{
		CrossID: testutil.CrossID,
		Value:   "Online",
	})
	frame, err := c.EncodeXML(push)
	require.NoError(t, err)

	assert.Nil(t, g.handleFrame(context.Background(), frame))
}

func TestHandleFrameRateLimited(t *testing.T) {
	g := newGateway(t, WithRateLimit(1, 1))
	c := codec.New(codec.NewDefaultRegistry())

	req := testutil.GetRequest("20260828103000000004004", "tok", string(model.KindSysInfo), "")
	frame, err := c.EncodeXML(req)
	require.NoError(t, err)

	// The burst admits one frame; the immediate second is dropped.
	require.NotNil(t, g.handleFrame(context.Background(), frame))
	assert.Nil(t, g.handleFrame(context.Background(), frame))
}
