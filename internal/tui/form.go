// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/vm-console/models"
	"github.com/charmbracelet/bubbles/textinput"
)

const (
	formFieldName = iota
	formFieldCores
	formFieldRAM
	formFieldDisk
	formFieldOS
	formFieldCount
)

var formStatuses = []models.VMStatus{
	models.StatusRunning,
	models.StatusStopped,
	models.StatusError,
	models.StatusPending,
}

// vmFormModel is the shared create/edit form. In edit mode it remembers the
// original record so submission can send only the fields that changed.
type vmFormModel struct {
	inputs     []textinput.Model
	focus      int
	statusIdx  int
	editing    bool
	original   models.VM
	submitting bool
	errMsg     string
}

func newCreateForm() vmFormModel {
	m := vmFormModel{inputs: newFormInputs()}
	m.inputs[formFieldName].Focus()
	m.statusIdx = indexOfStatus(models.StatusPending)
	return m
}

func newEditForm(vm models.VM) vmFormModel {
	m := vmFormModel{inputs: newFormInputs(), editing: true, original: vm}
	m.inputs[formFieldName].SetValue(vm.Name)
	m.inputs[formFieldCores].SetValue(strconv.Itoa(vm.Cores))
	m.inputs[formFieldRAM].SetValue(strconv.Itoa(vm.RAMGb))
	m.inputs[formFieldDisk].SetValue(strconv.Itoa(vm.DiskGb))
	m.inputs[formFieldOS].SetValue(vm.OS)
	m.inputs[formFieldName].Focus()
	m.statusIdx = indexOfStatus(vm.Status)
	return m
}

func newFormInputs() []textinput.Model {
	name := textinput.New()
	name.Placeholder = "web-01"
	name.CharLimit = 64
	name.Width = 40

	cores := textinput.New()
	cores.Placeholder = "1-32"
	cores.CharLimit = 2
	cores.Width = 40

	ram := textinput.New()
	ram.Placeholder = "1-128"
	ram.CharLimit = 3
	ram.Width = 40

	disk := textinput.New()
	disk.Placeholder = "10-1000"
	disk.CharLimit = 4
	disk.Width = 40

	osInput := textinput.New()
	osInput.Placeholder = "ubuntu-22.04"
	osInput.CharLimit = 64
	osInput.Width = 40

	return []textinput.Model{name, cores, ram, disk, osInput}
}

func indexOfStatus(status models.VMStatus) int {
	for i, s := range formStatuses {
		if s == status {
			return i
		}
	}
	return 0
}

func (m *vmFormModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *vmFormModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *vmFormModel) cycleStatus() {
	m.statusIdx = (m.statusIdx + 1) % len(formStatuses)
}

// fields validates the form for creation. Range checks stay server-side;
// the form only guards against unparseable input.
func (m vmFormModel) fields() (models.VMFields, error) {
	name := strings.TrimSpace(m.inputs[formFieldName].Value())
	osLabel := strings.TrimSpace(m.inputs[formFieldOS].Value())
	if name == "" || osLabel == "" {
		return models.VMFields{}, fmt.Errorf("name and OS are required")
	}

	cores, err := strconv.Atoi(strings.TrimSpace(m.inputs[formFieldCores].Value()))
	if err != nil {
		return models.VMFields{}, fmt.Errorf("cores must be a number")
	}
	ram, err := strconv.Atoi(strings.TrimSpace(m.inputs[formFieldRAM].Value()))
	if err != nil {
		return models.VMFields{}, fmt.Errorf("RAM must be a number")
	}
	disk, err := strconv.Atoi(strings.TrimSpace(m.inputs[formFieldDisk].Value()))
	if err != nil {
		return models.VMFields{}, fmt.Errorf("disk must be a number")
	}

	return models.VMFields{
		Name:   name,
		Cores:  cores,
		RAMGb:  ram,
		DiskGb: disk,
		OS:     osLabel,
		Status: formStatuses[m.statusIdx],
	}, nil
}

// patch compares the form against the original record and returns only the
// changed fields. ok is false when nothing changed.
func (m vmFormModel) patch() (patch models.VMPatch, ok bool, err error) {
	fields, err := m.fields()
	if err != nil {
		return models.VMPatch{}, false, err
	}

	if fields.Name != m.original.Name {
		patch.Name = &fields.Name
		ok = true
	}
	if fields.Cores != m.original.Cores {
		patch.Cores = &fields.Cores
		ok = true
	}
	if fields.RAMGb != m.original.RAMGb {
		patch.RAMGb = &fields.RAMGb
		ok = true
	}
	if fields.DiskGb != m.original.DiskGb {
		patch.DiskGb = &fields.DiskGb
		ok = true
	}
	if fields.OS != m.original.OS {
		patch.OS = &fields.OS
		ok = true
	}
	if fields.Status != m.original.Status {
		patch.Status = &fields.Status
		ok = true
	}

	return patch, ok, nil
}

func (m vmFormModel) view() string {
	var b strings.Builder
	b.WriteString("Field     │ Value\n")
	b.WriteString("──────────┼────────────────────────────────────────────\n")
	b.WriteString("Name      │ [" + m.inputs[formFieldName].View() + "]\n")
	b.WriteString("Cores     │ [" + m.inputs[formFieldCores].View() + "]\n")
	b.WriteString("RAM (GB)  │ [" + m.inputs[formFieldRAM].View() + "]\n")
	b.WriteString("Disk (GB) │ [" + m.inputs[formFieldDisk].View() + "]\n")
	b.WriteString("OS        │ [" + m.inputs[formFieldOS].View() + "]\n")
	b.WriteString("Status    │ < " + string(formStatuses[m.statusIdx]) + " >\n")

	if m.submitting {
		b.WriteString("\n[Saving...]\n")
	} else {
		b.WriteString("\n[Save]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
