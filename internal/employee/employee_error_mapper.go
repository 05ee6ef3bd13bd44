package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapPersistError translates storage-level unique violations into the
// module's conflict sentinels.
func mapPersistError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_employees_code":
				return employeeerrors.ErrEmployeeCodeAlreadyExists
			case "uq_employees_email":
				return employeeerrors.ErrEmailAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_employees_code") {
			return employeeerrors.ErrEmployeeCodeAlreadyExists
		}
		if strings.Contains(errMsg, "uq_employees_email") {
			return employeeerrors.ErrEmailAlreadyExists
		}
	}

	return err
}
