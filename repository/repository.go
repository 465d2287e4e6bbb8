// Package repository is the data-access boundary for the four core
// entities. It translates gorm errors into the application taxonomy so
// callers never see driver-level failures.
package repository

import (
	"errors"
	"fmt"

	"github.com/tutorlink/tutorlink/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: duplicate key", utils.ErrConstraintViolation)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: missing referenced record", utils.ErrConstraintViolation)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: check constraint", utils.ErrConstraintViolation)
	}
	return err
}

// lockForUpdate takes a row lock on postgres. sqlite allows a single
// writer at a time, so the clause is omitted there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
