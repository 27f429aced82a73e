// internal/repository/postgres/errors.go
package postgres

import (
	"errors"

	"github.com/lib/pq"

	"golotto/internal/util"
)

// mapError translates PostgreSQL failure codes into the application
// taxonomy. Serialization failures and deadlocks become ErrConflict, which
// callers may retry; unique violations become ErrDuplicateEntry.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return util.ErrConflict
		case "23505": // unique_violation
			return util.ErrDuplicateEntry
		}
	}
	return err
}
