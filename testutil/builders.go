package testutil

import (
	"io"
	"log/slog"

	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/protocol"
)

// Client and server addresses used by the builders.
var (
	ClientAddr = protocol.Address{System: protocol.SystemCenter}
	ServerAddr = protocol.Address{System: protocol.SystemUTCS}
)

// Logger returns a discard logger for quiet tests.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Request builds a REQUEST envelope from the canonical client address.
func Request(seq, token string, op protocol.OpName, objects ...protocol.Object) protocol.Message {
	return protocol.NewRequest(seq, token, ClientAddr, ServerAddr, op, objects...)
}

// LoginRequest builds a Login with the fixture credentials.
func LoginRequest(seq string) protocol.Message {
	return Request(seq, "", protocol.OpLogin, &model.UserInfo{
		UserName: UserName,
		Password: Password,
	})
}

// LogoutRequest builds a Logout for the given token.
func LogoutRequest(seq, token string) protocol.Message {
	return Request(seq, token, protocol.OpLogout, &model.UserInfo{UserName: UserName})
}

// GetRequest builds an object query.
func GetRequest(seq, token, objName, id string) protocol.Message {
	return Request(seq, token, protocol.OpGet, &model.TSCCmd{ObjName: objName, ID: id})
}

// GetItemRequest builds an object query narrowed by a secondary number.
func GetItemRequest(seq, token, objName, id string, no int) protocol.Message {
	return Request(seq, token, protocol.OpGet, &model.TSCCmd{ObjName: objName, ID: id, No: no})
}

// SetRequest builds a Set carrying one command payload.
func SetRequest(seq, token string, cmd protocol.Object) protocol.Message {
	return Request(seq, token, protocol.OpSet, cmd)
}

// SubscribeRequest builds a Subscribe for one object name.
func SubscribeRequest(seq, token, objName string) protocol.Message {
	return Request(seq, token, protocol.OpSubscribe, &model.Subscription{ObjName: objName})
}

// UnsubscribeRequest builds an Unsubscribe for one object name.
func UnsubscribeRequest(seq, token, objName string) protocol.Message {
	return Request(seq, token, protocol.OpUnsubscribe, &model.Subscription{ObjName: objName})
}

// PushMessage builds an inbound PUSH (field layer to platform).
func PushMessage(seq, token string, objects ...protocol.Object) protocol.Message {
	msg := protocol.NewPush(seq, ClientAddr, ServerAddr, objects...)
	msg.Token = token
	return msg
}
