package dialect

import "github.com/jmoiron/sqlx"

// PostgresDialect, PostgreSQL için Dialect implementasyonudur.
// lib/pq ("postgres") ve pgx stdlib ("pgx") sürücülerinin ikisi de bunu kullanır.
type PostgresDialect struct {
	base
}

// Postgres, yeni bir PostgreSQL dialect'i oluşturur. Yer tutucular "$1", "$2" ... olur.
func Postgres() *PostgresDialect {
	return &PostgresDialect{
		base: base{
			name:      "postgres",
			quote:     `"`,
			bindType:  sqlx.DOLLAR,
			returning: true,
		},
	}
}

// Upsert, "ON CONFLICT (...) DO UPDATE SET c = EXCLUDED.c" kuyruğunu üretir.
func (d *PostgresDialect) Upsert(conflict, update []string) (string, error) {
	return d.onConflict(conflict, update)
}
