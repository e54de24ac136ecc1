// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// VMStatus is the lifecycle state of a virtual machine as reported by the
// inventory server.
type VMStatus string

const (
	StatusRunning VMStatus = "RUNNING"
	StatusStopped VMStatus = "STOPPED"
	StatusError   VMStatus = "ERROR"
	StatusPending VMStatus = "PENDING"
)

// Valid reports whether s is one of the known VM statuses.
func (s VMStatus) Valid() bool {
	switch s {
	case StatusRunning, StatusStopped, StatusError, StatusPending:
		return true
	}
	return false
}

// VM is a single virtual-machine inventory record. Records are owned by the
// server; the client only ever holds read-through copies obtained from a
// list fetch.
type VM struct {
	// ID is the server-assigned unique identifier (UUID).
	ID string `json:"id"`

	// Name is the human-readable machine name. Searchable.
	Name string `json:"name"`

	// Cores is the number of virtual CPU cores, in [1, 32].
	Cores int `json:"cores"`

	// RAMGb is the allocated memory in gigabytes, in [1, 128].
	RAMGb int `json:"ramGb"`

	// DiskGb is the allocated disk space in gigabytes, in [10, 1000].
	DiskGb int `json:"diskGb"`

	// OS is the operating system label (e.g. "ubuntu-22.04").
	OS string `json:"os"`

	// Status is the current lifecycle state of the machine.
	Status VMStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the VM model.
func (VM) TableName() string {
	return "vms"
}

// VMFields is the payload for creating a machine. All fields are required;
// range validation happens at the service boundary.
type VMFields struct {
	Name   string   `json:"name"`
	Cores  int      `json:"cores"`
	RAMGb  int      `json:"ramGb"`
	DiskGb int      `json:"diskGb"`
	OS     string   `json:"os"`
	Status VMStatus `json:"status"`
}

// VMPatch is a partial update for an existing machine. Nil fields are left
// unchanged server-side.
type VMPatch struct {
	Name   *string   `json:"name,omitempty"`
	Cores  *int      `json:"cores,omitempty"`
	RAMGb  *int      `json:"ramGb,omitempty"`
	DiskGb *int      `json:"diskGb,omitempty"`
	OS     *string   `json:"os,omitempty"`
	Status *VMStatus `json:"status,omitempty"`
}
