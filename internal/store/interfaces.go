package store

import (
	"context"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/repositories_mock.go -package=mock

// UserRepository is the persistence boundary for user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// VMRepository is the persistence boundary for machine records.
type VMRepository interface {
	// List returns one page of records matching the search term together
	// with the total number of matching records. Pages are 1-based.
	List(ctx context.Context, page, pageSize int, search string) ([]models.VM, int, error)
	Get(ctx context.Context, id string) (models.VM, error)
	Create(ctx context.Context, vm models.VM) (models.VM, error)
	// Update applies the non-nil patch fields and returns the updated
	// record. updatedAt is set by the caller via patch application time.
	Update(ctx context.Context, id string, patch models.VMPatch) (models.VM, error)
	Delete(ctx context.Context, id string) (models.VM, error)
}

// Repositories bundles the concrete repositories for dependency wiring.
type Repositories struct {
	Users UserRepository
	VMs   VMRepository
}

func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		Users: NewUserRepository(db, logger),
		VMs:   NewVMRepository(db, logger),
	}
}
