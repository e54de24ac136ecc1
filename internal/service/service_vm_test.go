package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/mock"
	"github.com/MKhiriev/vm-console/internal/store"
	"github.com/MKhiriev/vm-console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []models.VMEvent
}

func (p *recordingPublisher) Publish(event models.VMEvent) {
	p.events = append(p.events, event)
}

func validFields() models.VMFields {
	return models.VMFields{
		Name:   "web-frontend",
		Cores:  4,
		RAMGb:  8,
		DiskGb: 100,
		OS:     "ubuntu-22.04",
		Status: models.StatusRunning,
	}
}

func TestVMService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	vms := mock.NewMockVMRepository(ctrl)
	svc := NewVMService(vms, &recordingPublisher{}, logger.Nop())

	items := []models.VM{{ID: "vm-1"}, {ID: "vm-2"}}
	vms.EXPECT().List(gomock.Any(), 1, PageSize, "web").Return(items, 21, nil)

	list, err := svc.List(context.Background(), 1, "web")
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 3, list.Meta.TotalPages)
}

func TestVMService_List_ClampsPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	vms := mock.NewMockVMRepository(ctrl)
	svc := NewVMService(vms, &recordingPublisher{}, logger.Nop())

	vms.EXPECT().List(gomock.Any(), 1, PageSize, "").Return(nil, 0, nil)

	list, err := svc.List(context.Background(), -3, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 0, list.Meta.TotalPages)
}

func TestVMService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	vms := mock.NewMockVMRepository(ctrl)
	publisher := &recordingPublisher{}
	svc := NewVMService(vms, publisher, logger.Nop())

	vms.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, vm models.VM) (models.VM, error) {
			assert.NotEmpty(t, vm.ID)
			assert.False(t, vm.CreatedAt.IsZero())
			assert.Equal(t, vm.CreatedAt, vm.UpdatedAt)
			return vm, nil
		})

	created, err := svc.Create(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, "web-frontend", created.Name)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, models.EventVMCreated, publisher.events[0].Kind)
	assert.Equal(t, created.ID, publisher.events[0].Record.ID)
}

func TestVMService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.VMFields)
	}{
		{name: "empty name", mutate: func(f *models.VMFields) { f.Name = "" }},
		{name: "empty os", mutate: func(f *models.VMFields) { f.OS = "" }},
		{name: "zero cores", mutate: func(f *models.VMFields) { f.Cores = 0 }},
		{name: "too many cores", mutate: func(f *models.VMFields) { f.Cores = 33 }},
		{name: "too much ram", mutate: func(f *models.VMFields) { f.RAMGb = 129 }},
		{name: "disk below minimum", mutate: func(f *models.VMFields) { f.DiskGb = 9 }},
		{name: "unknown status", mutate: func(f *models.VMFields) { f.Status = "REBOOTING" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			vms := mock.NewMockVMRepository(ctrl)
			publisher := &recordingPublisher{}
			svc := NewVMService(vms, publisher, logger.Nop())

			fields := validFields()
			tt.mutate(&fields)

			_, err := svc.Create(context.Background(), fields)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, publisher.events)
		})
	}
}

func TestVMService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	vms := mock.NewMockVMRepository(ctrl)
	publisher := &recordingPublisher{}
	svc := NewVMService(vms, publisher, logger.Nop())

	name := "renamed"
	patch := models.VMPatch{Name: &name}
	updated := models.VM{ID: "vm-1", Name: name}
	vms.EXPECT().Update(gomock.Any(), "vm-1", patch).Return(updated, nil)

	vm, err := svc.Update(context.Background(), "vm-1", patch)
	require.NoError(t, err)
	assert.Equal(t, name, vm.Name)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, models.EventVMUpdated, publisher.events[0].Kind)
}

func TestVMService_Update_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	vms := mock.NewMockVMRepository(ctrl)
	publisher := &recordingPublisher{}
	svc := NewVMService(vms, publisher, logger.Nop())

	cores := 64
	_, err := svc.Update(context.Background(), "vm-1", models.VMPatch{Cores: &cores})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, publisher.events)
}

func TestVMService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	vms := mock.NewMockVMRepository(ctrl)
	publisher := &recordingPublisher{}
	svc := NewVMService(vms, publisher, logger.Nop())

	name := "renamed"
	vms.EXPECT().Update(gomock.Any(), "missing", gomock.Any()).Return(models.VM{}, store.ErrVMNotFound)

	_, err := svc.Update(context.Background(), "missing", models.VMPatch{Name: &name})
	assert.ErrorIs(t, err, store.ErrVMNotFound)
	assert.Empty(t, publisher.events)
}

func TestVMService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	vms := mock.NewMockVMRepository(ctrl)
	publisher := &recordingPublisher{}
	svc := NewVMService(vms, publisher, logger.Nop())

	deleted := models.VM{ID: "vm-1", Name: "web-frontend"}
	vms.EXPECT().Delete(gomock.Any(), "vm-1").Return(deleted, nil)

	vm, err := svc.Delete(context.Background(), "vm-1")
	require.NoError(t, err)
	assert.Equal(t, "vm-1", vm.ID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, models.EventVMDeleted, publisher.events[0].Kind)
	assert.Equal(t, "web-frontend", publisher.events[0].Record.Name)
}
