package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUndefinedTable verifica si el error es 42P01 (tabla inexistente, faltan migraciones).
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}

// wrap agrega contexto y una pista cuando faltan las migraciones.
func wrap(op string, err error) error {
	if isUndefinedTable(err) {
		return fmt.Errorf("%s: %w (ejecute `dashboard migrate up`)", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
