package errors_test

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobile/heatglass/pkg/errors"
)

func TestNew_FieldsAreSet(t *testing.T) {
	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.ErrCodeInternal, "unexpected failure"},
		{"solver input", errors.ErrCodeSolverInput, "panel width must be positive"},
		{"export format", errors.ErrCodeExportFormat, "unknown drawing format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ae := errors.New(tc.code, tc.message)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.NotEmpty(t, ae.Stack)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	ae := errors.Newf(errors.ErrCodeSolverInput, "mesh step %g exceeds panel width %g", 10.0, 5.0)
	assert.Equal(t, "mesh step 10 exceeds panel width 5", ae.Message)
}

func TestError_IncludesCodeAndDetail(t *testing.T) {
	ae := errors.New(errors.ErrCodeDatabaseError, "insert failed").WithDetail("record 42")
	msg := ae.Error()
	assert.True(t, strings.Contains(msg, string(errors.ErrCodeDatabaseError)))
	assert.True(t, strings.Contains(msg, "insert failed"))
	assert.True(t, strings.Contains(msg, "record 42"))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	ae := errors.Wrap(cause, errors.ErrCodeDatabaseError, "ping failed")

	require.NotNil(t, ae)
	assert.ErrorIs(t, ae, cause)

	var unwrapped *errors.AppError
	assert.True(t, stderrors.As(ae, &unwrapped))
	assert.Equal(t, errors.ErrCodeDatabaseError, unwrapped.Code)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeInternal, "ignored"))
}

func TestIsCode_WalksTheChain(t *testing.T) {
	inner := errors.New(errors.ErrCodeSolverNoCurrent, "no current path")
	outer := errors.Wrap(inner, errors.ErrCodeInternal, "solve failed")

	assert.True(t, errors.IsCode(outer, errors.ErrCodeInternal))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeSolverNoCurrent))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeNotFound))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInternal))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.ErrCodeNotFound, errors.GetCode(errors.NotFound("gone")))
	assert.Equal(t, errors.ErrCodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
}

func TestConvenienceConstructors(t *testing.T) {
	assert.Equal(t, errors.ErrCodeBadRequest, errors.InvalidParam("bad").Code)
	assert.Equal(t, errors.ErrCodeNotFound, errors.NotFound("gone").Code)
	assert.Equal(t, errors.ErrCodeInternal, errors.Internal("boom").Code)
}

func TestWithCause_KeepsUnwrapChain(t *testing.T) {
	cause := stderrors.New("root")
	ae := errors.New(errors.ErrCodeCacheError, "store failed").WithCause(cause)
	assert.ErrorIs(t, ae, cause)
}
