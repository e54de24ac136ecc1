package tui

import (
	"testing"

	"github.com/MKhiriev/vm-console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editedForm(t *testing.T, vm models.VM) vmFormModel {
	t.Helper()
	return newEditForm(vm)
}

func TestFormPatch_OnlyChangedFields(t *testing.T) {
	vm := models.VM{ID: "vm-1", Name: "web-01", Cores: 2, RAMGb: 4, DiskGb: 40, OS: "ubuntu-22.04", Status: models.StatusRunning}
	form := editedForm(t, vm)
	form.inputs[formFieldCores].SetValue("4")

	patch, changed, err := form.patch()

	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, patch.Cores)
	assert.Equal(t, 4, *patch.Cores)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.RAMGb)
	assert.Nil(t, patch.DiskGb)
	assert.Nil(t, patch.OS)
	assert.Nil(t, patch.Status)
}

func TestFormPatch_NothingChanged(t *testing.T) {
	vm := models.VM{ID: "vm-1", Name: "web-01", Cores: 2, RAMGb: 4, DiskGb: 40, OS: "ubuntu-22.04", Status: models.StatusStopped}
	form := editedForm(t, vm)

	_, changed, err := form.patch()

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestFormFields_RejectsNonNumeric(t *testing.T) {
	form := newCreateForm()
	form.inputs[formFieldName].SetValue("web-01")
	form.inputs[formFieldOS].SetValue("debian-12")
	form.inputs[formFieldCores].SetValue("two")
	form.inputs[formFieldRAM].SetValue("4")
	form.inputs[formFieldDisk].SetValue("40")

	_, err := form.fields()

	assert.ErrorContains(t, err, "cores")
}

func TestFormFields_BuildsPayload(t *testing.T) {
	form := newCreateForm()
	form.inputs[formFieldName].SetValue("  web-01  ")
	form.inputs[formFieldCores].SetValue("2")
	form.inputs[formFieldRAM].SetValue("4")
	form.inputs[formFieldDisk].SetValue("40")
	form.inputs[formFieldOS].SetValue("debian-12")
	form.cycleStatus()

	fields, err := form.fields()

	require.NoError(t, err)
	assert.Equal(t, "web-01", fields.Name)
	assert.Equal(t, 2, fields.Cores)
	assert.True(t, fields.Status.Valid())
}
