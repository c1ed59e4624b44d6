package repos

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate marks a unique-constraint violation so services can map it
// to a conflict response without inspecting driver errors.
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound marks a missing record.
var ErrNotFound = errors.New("record not found")

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
