package dialect

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

/*
 * ----------------------------------------------------------------------------
 * MYSQL DIALECT
 * ----------------------------------------------------------------------------
 *
 * MySQL/MariaDB tanımlayıcıları backtick (`) ile sarar ve sıralı "?" yer
 * tutucusu kullanır. OFFSET tek başına yazılamaz; LIMIT zorunludur, bu yüzden
 * belgelenmiş en büyük değer (2^64-1) araya eklenir.
 *
 * Upsert için "ON DUPLICATE KEY UPDATE col = VALUES(col)" kullanılır. MySQL
 * çakışma hedefini benzersiz indekslerden kendisi çıkardığı için conflict
 * kolonları yalnızca update listesinden düşülmek için kullanılır.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * ----------------------------------------------------------------------------
 */

// MySQLDialect, MySQL ve MariaDB için Dialect implementasyonudur.
type MySQLDialect struct {
	base
}

// MySQL, yeni bir MySQL dialect'i oluşturur.
func MySQL() *MySQLDialect {
	return &MySQLDialect{
		base: base{
			name:       "mysql",
			quote:      "`",
			bindType:   sqlx.QUESTION,
			returning:  false,
			offsetOnly: " LIMIT 18446744073709551615",
		},
	}
}

// Upsert, "ON DUPLICATE KEY UPDATE" kuyruğunu üretir.
func (d *MySQLDialect) Upsert(conflict, update []string) (string, error) {
	if len(update) == 0 {
		return "", ErrNoColumns
	}

	cols, err := d.quoteAll(update)
	if err != nil {
		return "", err
	}
	// conflict kolonları yalnızca doğrulanır.
	if _, err := d.quoteAll(conflict); err != nil {
		return "", err
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = VALUES(" + col + ")"
	}
	return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", "), nil
}
