package session

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

func newManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fix := testutil.NewFixture()
	opts = append([]Option{WithLogger(testutil.Logger())}, opts...)
	m := NewManager(ctx, fix.Auth, opts...)
	t.Cleanup(m.Close)
	return m
}

func TestLoginIssuesToken(t *testing.T) {
	m := newManager(t)

	s, err := m.Login(context.Background(), testutil.ClientAddr,
		model.UserInfo{UserName: testutil.UserName, Password: testutil.Password}, "TICP")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, testutil.UserName, s.UserName)
	assert.Equal(t, "TICP", s.SystemType)
	assert.Equal(t, 1, m.ActiveCount())

	got, err := m.Validate(s.Token)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestLoginBadCredentials(t *testing.T) {
	m := newManager(t)

	_, err := m.Login(context.Background(), testutil.ClientAddr,
		model.UserInfo{UserName: testutil.UserName, Password: "wrong"}, "TICP")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadCredentials))
	assert.Equal(t, 0, m.ActiveCount())
}

func TestLoginEmptyUserName(t *testing.T) {
	m := newManager(t)

	_, err := m.Login(context.Background(), testutil.ClientAddr,
		model.UserInfo{Password: testutil.Password}, "TICP")
	require.Error(t, err)
}

func TestConcurrentLoginsAreIndependent(t *testing.T) {
	m := newManager(t)
	creds := model.UserInfo{UserName: testutil.UserName, Password: testutil.Password}

	a, err := m.Login(context.Background(), testutil.ClientAddr, creds, "TICP")
	require.NoError(t, err)
	b, err := m.Login(context.Background(), testutil.ClientAddr, creds, "TICP")
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.Equal(t, 2, m.ActiveCount())

	m.Logout(a.Token)
	_, err = m.Validate(a.Token)
	assert.Error(t, err)
	_, err = m.Validate(b.Token)
	assert.NoError(t, err)
}

func TestValidateUnknownToken(t *testing.T) {
	m := newManager(t)

	_, err := m.Validate("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidToken))

	_, err = m.Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSessionExpired))
}

func TestValidateRefreshesWindow(t *testing.T) {
	m := newManager(t, WithInactivityWindow(80*time.Millisecond))

	s, err := m.Login(context.Background(), testutil.ClientAddr,
		model.UserInfo{UserName: testutil.UserName, Password: testutil.Password}, "TICP")
	require.NoError(t, err)

	// Keep the session alive past its original expiry by touching it.
	for i := 0; i < 4; i++ {
		time.Sleep(40 * time.Millisecond)
		_, err = m.Validate(s.Token)
		require.NoError(t, err)
	}

	time.Sleep(120 * time.Millisecond)
	_, err = m.Validate(s.Token)
	assert.Error(t, err)
}

func TestLogoutIdempotent(t *testing.T) {
	m := newManager(t)

	s, err := m.Login(context.Background(), testutil.ClientAddr,
		model.UserInfo{UserName: testutil.UserName, Password: testutil.Password}, "TICP")
	require.NoError(t, err)

	m.Logout(s.Token)
	m.Logout(s.Token)
	m.Logout("never-issued")
	assert.Equal(t, 0, m.ActiveCount())
}
