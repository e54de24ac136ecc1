// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/store"
	"github.com/MKhiriev/vm-console/models"
	"github.com/google/uuid"
)

// PageSize is the fixed number of records per list page.
const PageSize = 10

// Resource limits enforced on create and update.
const (
	minCores  = 1
	maxCores  = 32
	minRAMGb  = 1
	maxRAMGb  = 128
	minDiskGb = 10
	maxDiskGb = 1000
)

type VMService struct {
	vms       store.VMRepository
	publisher EventPublisher
	logger    *logger.Logger
}

func NewVMService(vms store.VMRepository, publisher EventPublisher, logger *logger.Logger) *VMService {
	logger.Debug().Msg("VMService created")
	return &VMService{
		vms:       vms,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns one fixed-size page of records matching the search term.
// Pages below 1 are clamped to the first page; a page past the end yields an
// empty item list with the correct page count.
func (s *VMService) List(ctx context.Context, page int, search string) (models.VMList, error) {
	if page < 1 {
		page = 1
	}

	items, total, err := s.vms.List(ctx, page, PageSize, search)
	if err != nil {
		return models.VMList{}, err
	}

	totalPages := (total + PageSize - 1) / PageSize
	return models.VMList{
		Items: items,
		Meta:  models.ListMeta{TotalPages: totalPages},
	}, nil
}

func (s *VMService) Get(ctx context.Context, id string) (models.VM, error) {
	return s.vms.Get(ctx, id)
}

// Create validates the payload, assigns a server-side identity and
// timestamps, persists the record, and broadcasts a creation event.
func (s *VMService) Create(ctx context.Context, fields models.VMFields) (models.VM, error) {
	log := logger.FromContext(ctx)

	if err := validateFields(fields); err != nil {
		return models.VM{}, err
	}

	now := time.Now().UTC()
	vm := models.VM{
		ID:        uuid.NewString(),
		Name:      fields.Name,
		Cores:     fields.Cores,
		RAMGb:     fields.RAMGb,
		DiskGb:    fields.DiskGb,
		OS:        fields.OS,
		Status:    fields.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.vms.Create(ctx, vm)
	if err != nil {
		return models.VM{}, err
	}

	log.Info().Str("func", "VMService.Create").Str("id", created.ID).Str("name", created.Name).Msg("vm created")
	s.publisher.Publish(models.VMEvent{Kind: models.EventVMCreated, Record: created})
	return created, nil
}

// Update validates the non-nil patch fields, applies them, and broadcasts an
// update event carrying the record after the change.
func (s *VMService) Update(ctx context.Context, id string, patch models.VMPatch) (models.VM, error) {
	log := logger.FromContext(ctx)

	if err := validatePatch(patch); err != nil {
		return models.VM{}, err
	}

	updated, err := s.vms.Update(ctx, id, patch)
	if err != nil {
		return models.VM{}, err
	}

	log.Info().Str("func", "VMService.Update").Str("id", id).Msg("vm updated")
	s.publisher.Publish(models.VMEvent{Kind: models.EventVMUpdated, Record: updated})
	return updated, nil
}

// Delete removes the record and broadcasts a deletion event carrying its
// last known state.
func (s *VMService) Delete(ctx context.Context, id string) (models.VM, error) {
	log := logger.FromContext(ctx)

	deleted, err := s.vms.Delete(ctx, id)
	if err != nil {
		return models.VM{}, err
	}

	log.Info().Str("func", "VMService.Delete").Str("id", id).Msg("vm deleted")
	s.publisher.Publish(models.VMEvent{Kind: models.EventVMDeleted, Record: deleted})
	return deleted, nil
}

func validateFields(fields models.VMFields) error {
	if fields.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if fields.OS == "" {
		return fmt.Errorf("%w: os is required", ErrValidation)
	}
	if err := validateCores(fields.Cores); err != nil {
		return err
	}
	if err := validateRAM(fields.RAMGb); err != nil {
		return err
	}
	if err := validateDisk(fields.DiskGb); err != nil {
		return err
	}
	return validateStatus(fields.Status)
}

func validatePatch(patch models.VMPatch) error {
	if patch.Name != nil && *patch.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if patch.OS != nil && *patch.OS == "" {
		return fmt.Errorf("%w: os must not be empty", ErrValidation)
	}
	if patch.Cores != nil {
		if err := validateCores(*patch.Cores); err != nil {
			return err
		}
	}
	if patch.RAMGb != nil {
		if err := validateRAM(*patch.RAMGb); err != nil {
			return err
		}
	}
	if patch.DiskGb != nil {
		if err := validateDisk(*patch.DiskGb); err != nil {
			return err
		}
	}
	if patch.Status != nil {
		return validateStatus(*patch.Status)
	}
	return nil
}

func validateCores(cores int) error {
	if cores < minCores || cores > maxCores {
		return fmt.Errorf("%w: cores must be between %d and %d", ErrValidation, minCores, maxCores)
	}
	return nil
}

func validateRAM(ramGb int) error {
	if ramGb < minRAMGb || ramGb > maxRAMGb {
		return fmt.Errorf("%w: ramGb must be between %d and %d", ErrValidation, minRAMGb, maxRAMGb)
	}
	return nil
}

func validateDisk(diskGb int) error {
	if diskGb < minDiskGb || diskGb > maxDiskGb {
		return fmt.Errorf("%w: diskGb must be between %d and %d", ErrValidation, minDiskGb, maxDiskGb)
	}
	return nil
}

func validateStatus(status models.VMStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return nil
}
