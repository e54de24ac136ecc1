// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	sq "github.com/Masterminds/squirrel"
)

var vmColumns = []string{"id", "name", "cores", "ram_gb", "disk_gb", "os", "status", "created_at", "updated_at"}

type vmRepository struct {
	*DB
	logger *logger.Logger
}

func NewVMRepository(db *DB, logger *logger.Logger) VMRepository {
	logger.Debug().Msg("VMRepository created")
	return &vmRepository{
		DB:     db,
		logger: logger,
	}
}

// searchFilter matches the search term case-insensitively against the
// machine name. Written with LOWER/LIKE so it behaves the same on
// PostgreSQL and SQLite.
func searchFilter(search string) sq.Sqlizer {
	return sq.Expr("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
}

func (r *vmRepository) List(ctx context.Context, page, pageSize int, search string) ([]models.VM, int, error) {
	log := logger.FromContext(ctx)

	countQuery := r.builder.Select("COUNT(*)").From(models.VM{}.TableName())
	listQuery := r.builder.
		Select(vmColumns...).
		From(models.VM{}.TableName()).
		OrderBy("created_at DESC", "id").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize))

	if search != "" {
		countQuery = countQuery.Where(searchFilter(search))
		listQuery = listQuery.Where(searchFilter(search))
	}

	query, args, err := countQuery.ToSql()
	if err != nil {
		log.Err(err).Str("func", "vmRepository.List").Msg("failed to build count query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int
	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Err(err).Str("func", "vmRepository.List").Msg("failed to count vms")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err = listQuery.ToSql()
	if err != nil {
		log.Err(err).Str("func", "vmRepository.List").Msg("failed to build list query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "vmRepository.List").Int("page", page).Str("search", search).Msg("failed to query vms")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.VM, 0, pageSize)
	for rows.Next() {
		vm, scanErr := scanVM(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "vmRepository.List").Msg("failed to scan vm row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		items = append(items, vm)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "vmRepository.List").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return items, total, nil
}

func (r *vmRepository) Get(ctx context.Context, id string) (models.VM, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select(vmColumns...).
		From(models.VM{}.TableName()).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return models.VM{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	vm, err := scanVM(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VM{}, ErrVMNotFound
		}
		log.Err(err).Str("func", "vmRepository.Get").Str("id", id).Msg("failed to scan vm row")
		return models.VM{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return vm, nil
}

func (r *vmRepository) Create(ctx context.Context, vm models.VM) (models.VM, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Insert(vm.TableName()).
		Columns(vmColumns...).
		Values(vm.ID, vm.Name, vm.Cores, vm.RAMGb, vm.DiskGb, vm.OS, vm.Status, vm.CreatedAt, vm.UpdatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "vmRepository.Create").Msg("failed to build query")
		return models.VM{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		classification := r.errorClassificator.Classify(err)
		log.Err(err).
			Str("func", "vmRepository.Create").
			Str("id", vm.ID).
			Bool("retryable", classification == Retryable).
			Msg("failed to insert vm")
		return models.VM{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return vm, nil
}

func (r *vmRepository) Update(ctx context.Context, id string, patch models.VMPatch) (models.VM, error) {
	log := logger.FromContext(ctx)

	update := r.builder.Update(models.VM{}.TableName()).Where("id = ?", id)
	changed := false

	if patch.Name != nil {
		update = update.Set("name", *patch.Name)
		changed = true
	}
	if patch.Cores != nil {
		update = update.Set("cores", *patch.Cores)
		changed = true
	}
	if patch.RAMGb != nil {
		update = update.Set("ram_gb", *patch.RAMGb)
		changed = true
	}
	if patch.DiskGb != nil {
		update = update.Set("disk_gb", *patch.DiskGb)
		changed = true
	}
	if patch.OS != nil {
		update = update.Set("os", *patch.OS)
		changed = true
	}
	if patch.Status != nil {
		update = update.Set("status", *patch.Status)
		changed = true
	}

	if !changed {
		return models.VM{}, ErrEmptyPatch
	}
	update = update.Set("updated_at", time.Now().UTC())

	query, args, err := update.ToSql()
	if err != nil {
		log.Err(err).Str("func", "vmRepository.Update").Msg("failed to build query")
		return models.VM{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "vmRepository.Update").Str("id", id).Msg("failed to update vm")
		return models.VM{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.VM{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return models.VM{}, ErrVMNotFound
	}

	return r.Get(ctx, id)
}

func (r *vmRepository) Delete(ctx context.Context, id string) (models.VM, error) {
	log := logger.FromContext(ctx)

	// fetch first so the deleted record can be returned and broadcast
	vm, err := r.Get(ctx, id)
	if err != nil {
		return models.VM{}, err
	}

	query, args, err := r.builder.
		Delete(models.VM{}.TableName()).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return models.VM{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "vmRepository.Delete").Str("id", id).Msg("failed to delete vm")
		return models.VM{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.VM{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return models.VM{}, ErrVMNotFound
	}

	return vm, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVM(row rowScanner) (models.VM, error) {
	var vm models.VM
	err := row.Scan(
		&vm.ID,
		&vm.Name,
		&vm.Cores,
		&vm.RAMGb,
		&vm.DiskGb,
		&vm.OS,
		&vm.Status,
		&vm.CreatedAt,
		&vm.UpdatedAt,
	)
	return vm, err
}
