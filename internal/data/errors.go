package data

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/centralhub/hub-core/internal/errors"
)

// mapPgError translates driver-level failures into application errors.
// entity names the record reported when the query matched no rows.
func mapPgError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFoundf("%s not found", entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperrors.Conflictf("%s already exists", entity)
		case pgerrcode.ForeignKeyViolation:
			return apperrors.Conflictf("%s references a missing row", entity)
		}
	}
	return apperrors.StorageUnavailable(err)
}
