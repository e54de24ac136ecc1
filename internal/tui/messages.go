package tui

import (
	"github.com/MKhiriev/vm-console/internal/cache"
	"github.com/MKhiriev/vm-console/internal/channel"
	"github.com/MKhiriev/vm-console/models"
)

type loginResultMsg struct {
	identity models.Identity
	err      error
}

type pageLoadedMsg struct {
	snap cache.Snapshot
	err  error
}

type vmSavedMsg struct {
	vm  models.VM
	err error
}

type vmDeletedMsg struct {
	vm  models.VM
	err error
}

type pushEventMsg struct {
	event channel.Event
}

type copiedMsg struct{}

type clearStatusMsg struct{}
