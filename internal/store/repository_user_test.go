package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// newMockDB returns a DB backed by sqlmock with the SQLite placeholder
// style, so expected queries can be written literally with '?'.
func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("error creating sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &DB{
		DB:                 conn,
		dialect:            "sqlite3",
		builder:            sq.StatementBuilder.PlaceholderFormat(sq.Question),
		errorClassificator: NewNopErrorClassifier(),
		logger:             logger.Nop(),
	}, mock
}

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code}
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	user := models.User{
		UserID:       "u-1",
		Email:        "admin@example.com",
		Name:         "Admin",
		Role:         models.RoleAdministrator,
		PasswordHash: "$2a$10$hash",
	}

	mock.ExpectExec("INSERT INTO users (user_id,email,name,role,password_hash,created_at) VALUES (?,?,?,?,?,?)").
		WithArgs(user.UserID, user.Email, user.Name, user.Role, user.PasswordHash, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.CreateUser(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != user.UserID {
		t.Errorf("got user id %q, want %q", created.UserID, user.UserID)
	}

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	tests := []struct {
		name      string
		driverErr error
	}{
		{name: "postgres unique violation", driverErr: pgError(pgerrcode.UniqueViolation)},
		{name: "sqlite unique violation", driverErr: errors.New("UNIQUE constraint failed: users.email")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db, logger.Nop())

			mock.ExpectExec("INSERT INTO users (user_id,email,name,role,password_hash,created_at) VALUES (?,?,?,?,?,?)").
				WillReturnError(tt.driverErr)

			_, err := repo.CreateUser(context.Background(), models.User{Email: "taken@example.com"})
			if !errors.Is(err, ErrEmailAlreadyExists) {
				t.Errorf("got error %v, want ErrEmailAlreadyExists", err)
			}
		})
	}
}

func TestUserRepository_FindUserByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	rows := sqlmock.NewRows([]string{"user_id", "email", "name", "role", "password_hash", "created_at"}).
		AddRow("u-1", "admin@example.com", "Admin", string(models.RoleAdministrator), "$2a$10$hash", testTime())

	mock.ExpectQuery("SELECT user_id, email, name, role, password_hash, created_at FROM users WHERE email = ?").
		WithArgs("admin@example.com").
		WillReturnRows(rows)

	user, err := repo.FindUserByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != models.RoleAdministrator {
		t.Errorf("got role %q, want %q", user.Role, models.RoleAdministrator)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUserRepository_FindUserByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT user_id, email, name, role, password_hash, created_at FROM users WHERE email = ?").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "name", "role", "password_hash", "created_at"}))

	_, err := repo.FindUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got error %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_CountUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT COUNT(*) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("got count %d, want 3", count)
	}
}
