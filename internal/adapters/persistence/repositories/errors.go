package repositories

import (
	"errors"
	"fmt"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// ErrHasReplies is returned when deleting a message that has been replied to
var ErrHasReplies = errors.New("feedback has replies")

// translateError maps driver errors onto domain kinds
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case IsDuplicateKey(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicateEntry, err)
	}
	return err
}

// IsDuplicateKey reports a unique index violation from GORM or the MySQL driver
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, domain.ErrDuplicateEntry) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
