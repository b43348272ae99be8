package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func checkRowsAffected(result sql.Result) (int64, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rowsAffected, nil
}

// isForeignKeyViolation распознаёт нарушение внешнего ключа в ошибке
// драйвера. Фолбэк по тексту нужен для обёрнутых ошибок, из которых
// errors.As не достаёт *sqlite.Error.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

// buildUpdateClause собирает SET-часть частичного UPDATE: колонки с
// nil-значениями не трогаются и сохраняют прежние значения.
type updateBuilder struct {
	assignments []string
	args        []interface{}
}

func (b *updateBuilder) set(column string, value interface{}) {
	b.assignments = append(b.assignments, column+" = ?")
	b.args = append(b.args, value)
}

func (b *updateBuilder) empty() bool {
	return len(b.assignments) == 0
}

func (b *updateBuilder) clause() string {
	return strings.Join(b.assignments, ", ")
}
