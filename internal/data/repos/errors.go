package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
)

// MapError maps infrastructure failures into workflow error codes so the
// service layer never has to inspect driver errors.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var wfErr *workflow.Error
	if errors.As(err, &wfErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return workflow.Wrap(workflow.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return workflow.Wrap(workflow.CodeInternal, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return workflow.Wrap(workflow.CodeConflict, op, err) // unique_violation
		case "23503":
			return workflow.Wrap(workflow.CodeValidation, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return workflow.Wrap(workflow.CodeConflict, op, err) // serialization/deadlock/lock_not_available
		}
	}

	return workflow.Wrap(workflow.CodeInternal, op, err)
}
