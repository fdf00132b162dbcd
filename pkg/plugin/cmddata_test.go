package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCmdData(t *testing.T) {
	cmd := NewCmdData("frobnicate", "a", "b")
	assert.Equal(t, "frobnicate", cmd.Cmd)
	assert.Equal(t, []string{"a", "b"}, cmd.Params)
	assert.Empty(t, cmd.Returned)
	assert.False(t, cmd.Failed)
}

func TestCmdData_Param_OutOfRangeReturnsEmpty(t *testing.T) {
	cmd := NewCmdData("frobnicate", "a")
	assert.Equal(t, "a", cmd.Param(0))
	assert.Equal(t, "", cmd.Param(1))
	assert.Equal(t, "", cmd.Param(-1))
}

func TestCmdData_PtrParam_OutOfRangeReturnsNil(t *testing.T) {
	cmd := NewCmdData("frobnicate")
	cmd.PtrParams = []any{"x"}
	assert.Equal(t, "x", cmd.PtrParam(0))
	assert.Nil(t, cmd.PtrParam(1))
	assert.Nil(t, cmd.PtrParam(-1))
}

func TestCmdData_Return_Appends(t *testing.T) {
	cmd := NewCmdData("frobnicate")
	cmd.Return("one")
	cmd.Return("two", "three")
	assert.Equal(t, []string{"one", "two", "three"}, cmd.Returned)
}

func TestCmdData_ReturnPtr_Appends(t *testing.T) {
	cmd := NewCmdData("frobnicate")
	cmd.ReturnPtr(1, "two")
	assert.Equal(t, []any{1, "two"}, cmd.PtrReturned)
}

func TestCmdData_Fail_WithReason(t *testing.T) {
	cmd := NewCmdData("frobnicate")
	cmd.Fail("no such plugin")
	assert.True(t, cmd.Failed)
	assert.Equal(t, []string{"no such plugin"}, cmd.Returned)
}

func TestCmdData_Fail_EmptyReasonDoesNotAppend(t *testing.T) {
	cmd := NewCmdData("frobnicate")
	cmd.Fail("")
	assert.True(t, cmd.Failed)
	assert.Empty(t, cmd.Returned)
}

func TestCmdData_Fail_PreservesExistingReturns(t *testing.T) {
	cmd := NewCmdData("frobnicate")
	cmd.Return("partial")
	cmd.Fail("timed out")
	assert.Equal(t, []string{"partial", "timed out"}, cmd.Returned)
}
