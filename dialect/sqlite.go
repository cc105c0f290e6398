package dialect

import "github.com/jmoiron/sqlx"

// SQLiteDialect, SQLite için Dialect implementasyonudur.
// RETURNING ve ON CONFLICT, SQLite 3.35 ve sonrasında desteklenir.
type SQLiteDialect struct {
	base
}

// SQLite, yeni bir SQLite dialect'i oluşturur.
func SQLite() *SQLiteDialect {
	return &SQLiteDialect{
		base: base{
			name:       "sqlite",
			quote:      `"`,
			bindType:   sqlx.QUESTION,
			returning:  true,
			offsetOnly: " LIMIT -1",
		},
	}
}

// Upsert, PostgreSQL ile aynı "ON CONFLICT" sözdizimini kullanır.
func (d *SQLiteDialect) Upsert(conflict, update []string) (string, error) {
	return d.onConflict(conflict, update)
}
