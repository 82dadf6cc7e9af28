package model_test

import (
	"testing"

	"github.com/dasdy/softkeys/model"
	"github.com/stretchr/testify/assert"
)

func TestModifiersWithoutRoleKeys(t *testing.T) {
	kb := model.NewKeyboard("empty", model.RowModeNormal)

	assert.False(t, kb.SetShifted(true))
	assert.False(t, kb.IsShifted())
	assert.False(t, kb.SetControl(true))
	assert.False(t, kb.IsControlActive())
	assert.False(t, kb.SetAlt(true, true))
	assert.False(t, kb.IsAltActive())
	assert.False(t, kb.IsFunctionActive())
	assert.False(t, kb.IsVoiceLocked())
}

func TestShiftStates(t *testing.T) {
	kb := model.NewKeyboard("kb", model.RowModeNormal)
	kb.AssignRole(model.RoleShift, model.NewKey([]int{model.KeyCodeShift}, nil))

	assert.True(t, kb.SetShifted(true))
	assert.False(t, kb.SetShifted(true))
	assert.True(t, kb.IsShifted())
	assert.False(t, kb.IsShiftLocked())

	assert.True(t, kb.SetShiftLocked(true))
	assert.True(t, kb.IsShiftLocked())

	kb.SetShifted(false)
	assert.False(t, kb.IsShifted())
	assert.False(t, kb.IsShiftLocked())
}

func TestAltLockedImpliesActive(t *testing.T) {
	kb := model.NewKeyboard("kb", model.RowModeNormal)
	kb.AssignRole(model.RoleAlt, model.NewKey([]int{model.KeyCodeAlt}, nil))

	assert.False(t, kb.SetAlt(false, true))
	assert.False(t, kb.IsAltActive())
	assert.False(t, kb.IsAltLocked())

	kb.SetAlt(true, true)
	assert.True(t, kb.IsAltActive())
	assert.True(t, kb.IsAltLocked())
}

func TestRightToLeftIsSticky(t *testing.T) {
	kb := model.NewKeyboard("kb", model.RowModeNormal)
	assert.False(t, kb.RightToLeft())

	kb.MarkRightToLeft()
	kb.MarkRightToLeft()
	assert.True(t, kb.RightToLeft())
}

func TestHasRowWithEdge(t *testing.T) {
	kb := model.NewKeyboard("kb", model.RowModeNormal)
	kb.AddRow(model.Row{EdgeFlags: model.EdgeTop, Generic: true})
	assert.False(t, kb.HasRowWithEdge(model.EdgeTop))

	kb.AddRow(model.Row{EdgeFlags: model.EdgeBottom})
	assert.True(t, kb.HasRowWithEdge(model.EdgeBottom))
}
