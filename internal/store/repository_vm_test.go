package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
)

const vmSelectColumns = "id, name, cores, ram_gb, disk_gb, os, status, created_at, updated_at"

func testTime() time.Time {
	return time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
}

func vmRows(vms ...models.VM) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "cores", "ram_gb", "disk_gb", "os", "status", "created_at", "updated_at"})
	for _, vm := range vms {
		rows.AddRow(vm.ID, vm.Name, vm.Cores, vm.RAMGb, vm.DiskGb, vm.OS, string(vm.Status), vm.CreatedAt, vm.UpdatedAt)
	}
	return rows
}

func testVM(id, name string) models.VM {
	return models.VM{
		ID:        id,
		Name:      name,
		Cores:     4,
		RAMGb:     8,
		DiskGb:    100,
		OS:        "ubuntu-22.04",
		Status:    models.StatusRunning,
		CreatedAt: testTime(),
		UpdatedAt: testTime(),
	}
}

func TestVMRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT COUNT(*) FROM vms").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SELECT " + vmSelectColumns + " FROM vms ORDER BY created_at DESC, id LIMIT 10 OFFSET 10").
		WillReturnRows(vmRows(testVM("vm-11", "build-agent"), testVM("vm-12", "db-replica")))

	items, total, err := repo.List(context.Background(), 2, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 12 {
		t.Errorf("got total %d, want 12", total)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "vm-11" || items[1].ID != "vm-12" {
		t.Errorf("unexpected page contents: %v, %v", items[0].ID, items[1].ID)
	}

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestVMRepository_List_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT COUNT(*) FROM vms WHERE LOWER(name) LIKE ?").
		WithArgs("%web%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT " + vmSelectColumns + " FROM vms WHERE LOWER(name) LIKE ? ORDER BY created_at DESC, id LIMIT 10 OFFSET 0").
		WithArgs("%web%").
		WillReturnRows(vmRows(testVM("vm-1", "web-frontend")))

	items, total, err := repo.List(context.Background(), 1, 10, "WEB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("got total=%d items=%d, want 1/1", total, len(items))
	}
	if items[0].Name != "web-frontend" {
		t.Errorf("got name %q, want web-frontend", items[0].Name)
	}
}

func TestVMRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT " + vmSelectColumns + " FROM vms WHERE id = ?").
		WithArgs("vm-1").
		WillReturnRows(vmRows(testVM("vm-1", "web-frontend")))

	vm, err := repo.Get(context.Background(), "vm-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.Status != models.StatusRunning {
		t.Errorf("got status %q, want %q", vm.Status, models.StatusRunning)
	}
}

func TestVMRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT " + vmSelectColumns + " FROM vms WHERE id = ?").
		WithArgs("missing").
		WillReturnRows(vmRows())

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrVMNotFound) {
		t.Errorf("got error %v, want ErrVMNotFound", err)
	}
}

func TestVMRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	vm := testVM("vm-1", "web-frontend")
	mock.ExpectExec("INSERT INTO vms (id,name,cores,ram_gb,disk_gb,os,status,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?)").
		WithArgs(vm.ID, vm.Name, vm.Cores, vm.RAMGb, vm.DiskGb, vm.OS, vm.Status, vm.CreatedAt, vm.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.Create(context.Background(), vm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != vm.ID {
		t.Errorf("got id %q, want %q", created.ID, vm.ID)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestVMRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	name := "renamed"
	cores := 8

	mock.ExpectExec("UPDATE vms SET name = ?, cores = ?, updated_at = ? WHERE id = ?").
		WithArgs(name, cores, sqlmock.AnyArg(), "vm-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated := testVM("vm-1", name)
	updated.Cores = cores
	mock.ExpectQuery("SELECT " + vmSelectColumns + " FROM vms WHERE id = ?").
		WithArgs("vm-1").
		WillReturnRows(vmRows(updated))

	vm, err := repo.Update(context.Background(), "vm-1", models.VMPatch{Name: &name, Cores: &cores})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.Name != name || vm.Cores != cores {
		t.Errorf("got %q/%d, want %q/%d", vm.Name, vm.Cores, name, cores)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestVMRepository_Update_EmptyPatch(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	_, err := repo.Update(context.Background(), "vm-1", models.VMPatch{})
	if !errors.Is(err, ErrEmptyPatch) {
		t.Errorf("got error %v, want ErrEmptyPatch", err)
	}
}

func TestVMRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	name := "renamed"
	mock.ExpectExec("UPDATE vms SET name = ?, updated_at = ? WHERE id = ?").
		WithArgs(name, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), "missing", models.VMPatch{Name: &name})
	if !errors.Is(err, ErrVMNotFound) {
		t.Errorf("got error %v, want ErrVMNotFound", err)
	}
}

func TestVMRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	vm := testVM("vm-1", "web-frontend")
	mock.ExpectQuery("SELECT " + vmSelectColumns + " FROM vms WHERE id = ?").
		WithArgs("vm-1").
		WillReturnRows(vmRows(vm))
	mock.ExpectExec("DELETE FROM vms WHERE id = ?").
		WithArgs("vm-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "vm-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.ID != vm.ID {
		t.Errorf("got id %q, want %q", deleted.ID, vm.ID)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestVMRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVMRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT " + vmSelectColumns + " FROM vms WHERE id = ?").
		WithArgs("missing").
		WillReturnRows(vmRows())

	_, err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrVMNotFound) {
		t.Errorf("got error %v, want ErrVMNotFound", err)
	}
}
