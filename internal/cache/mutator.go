// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"context"

	"github.com/MKhiriev/vm-console/models"
)

// Mutator exposes the record-changing operations of the inventory. It is
// only obtainable through [Controller.Mutator], which hands one out to
// administrator identities exclusively; view code for other roles never
// holds a Mutator and therefore cannot issue mutations at all.
//
// Every successful mutation invalidates the whole page set and eagerly
// refetches the page currently on screen so the caller sees the server's
// post-mutation truth rather than a local guess. Other pages refetch
// lazily on their next read.
type Mutator struct {
	controller *Controller
}

// Create adds a VM to the inventory.
func (m *Mutator) Create(ctx context.Context, fields models.VMFields) (models.VM, error) {
	vm, err := m.controller.transport.CreateVM(ctx, fields)
	if err != nil {
		return models.VM{}, err
	}

	m.controller.afterMutation(ctx)
	return vm, nil
}

// Update applies a partial patch to an existing VM.
func (m *Mutator) Update(ctx context.Context, id string, patch models.VMPatch) (models.VM, error) {
	vm, err := m.controller.transport.UpdateVM(ctx, id, patch)
	if err != nil {
		return models.VM{}, err
	}

	m.controller.afterMutation(ctx)
	return vm, nil
}

// Delete removes a VM from the inventory and returns the deleted record.
func (m *Mutator) Delete(ctx context.Context, id string) (models.VM, error) {
	vm, err := m.controller.transport.DeleteVM(ctx, id)
	if err != nil {
		return models.VM{}, err
	}

	m.controller.afterMutation(ctx)
	return vm, nil
}

// afterMutation runs the post-mutation invalidation protocol: stale
// everything, then refetch the fingerprint the user is looking at. A
// refetch failure is not the mutation's failure; the record operation
// already succeeded, so the error only lands in the page's snapshot.
func (c *Controller) afterMutation(ctx context.Context) {
	c.mu.Lock()
	c.invalidateAllLocked()
	current, ok := c.current, c.hasCurrent
	c.mu.Unlock()

	if !ok {
		return
	}

	if _, err := c.GetPage(ctx, current.Page, current.Search); err != nil {
		c.logger.Debug().Err(err).Int("page", current.Page).Msg("post-mutation refetch failed")
	}
}
