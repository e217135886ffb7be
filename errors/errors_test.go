package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := Validation("planNo", "must be 0 for special mode, got %d", 5)

	assert.True(t, IsValidation(err))
	assert.False(t, IsBusiness(err))
	assert.Equal(t, CodeValidation, CodeOf(err))
	assert.Equal(t, "planNo: must be 0 for special mode, got 5", err.Error())

	var e *Error
	require.True(t, As(err, &e))
	assert.Equal(t, "planNo", e.Field)
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	inner := NotFound("plan", "11010000000001/5")
	wrapped := Wrap(inner, "ControlOrchestrator", "SetControlMode", "plan lookup")

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.Contains(t, wrapped.Error(), "ControlOrchestrator.SetControlMode")
}

func TestKindCodes(t *testing.T) {
	tests := []struct {
		kind Kind
		code string
	}{
		{KindValidation, CodeValidation},
		{KindAuthentication, CodeAuthentication},
		{KindSessionExpired, CodeSessionExpired},
		{KindNotFound, CodeNotFound},
		{KindBusiness, CodeBusiness},
		{KindProtocol, CodeProtocol},
		{KindSystem, CodeSystem},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.kind.Code())
		})
	}
}

func TestUnclassifiedErrorDefaultsToSystem(t *testing.T) {
	err := fmt.Errorf("disk exploded")
	assert.Equal(t, KindSystem, KindOf(err))
	assert.Equal(t, CodeSystem, CodeOf(err))
}

func TestSessionErrors(t *testing.T) {
	err := SessionExpired(ErrInvalidToken)
	assert.True(t, IsSessionExpired(err))
	assert.True(t, Is(err, ErrInvalidToken))
	assert.Equal(t, CodeSessionExpired, CodeOf(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "c", "m", "a"))
}
