// Package dialect, ifade tamponuna yazılan metnin veritabanına özgü kısımlarını
// sağlar: tanımlayıcı tırnaklama, yer tutucu (placeholder) dönüşümü, upsert kuyruğu
// ve OFFSET/RETURNING farklılıkları.
//
// Builder her zaman "?" yer tutucusuyla yazar; PostgreSQL gibi "$n" bekleyen
// motorlar için dönüşüm derleme anında Rebind ile yapılır.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
package dialect

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/biyonik/go-sqlchain/internal/validation"
)

// Dialect, Builder'ın motor bağımsız kalabilmesi için ihtiyaç duyduğu sözleşmedir.
type Dialect interface {
	// Name, dialect kimliğini döndürür ("mysql", "postgres", "sqlite").
	Name() string

	// Quote, kolon veya "table.column" referansını doğrulayıp tırnaklar.
	// "*" olduğu gibi döner.
	Quote(identifier string) (string, error)

	// QuoteTable, "table", "table alias" ve "table as alias" biçimlerini tırnaklar.
	QuoteTable(table string) (string, error)

	// QuoteColumn, SELECT listesindeki bir kolonu (alias ve "t.*" dahil) tırnaklar.
	QuoteColumn(column string) (string, error)

	// BindType, sqlx yer tutucu tipini döndürür (sqlx.QUESTION, sqlx.DOLLAR ...).
	BindType() int

	// Rebind, "?" yer tutucularını dialect biçimine çevirir.
	Rebind(query string) string

	// OffsetWithoutLimit, LIMIT yazılmadan OFFSET kullanıldığında araya
	// eklenmesi gereken metni döndürür. Gerek yoksa boş string döner.
	OffsetWithoutLimit() string

	// Upsert, INSERT ifadesinin sonuna eklenecek çakışma kuyruğunu üretir.
	Upsert(conflict, update []string) (string, error)

	// SupportsReturning, RETURNING desteğini bildirir.
	SupportsReturning() bool
}

// base, dialect'lerin ortak davranışıdır. Tanımlayıcılar doğrulamadan geçtiği
// için tırnak karakterinin kaçışlanmasına gerek kalmaz.
type base struct {
	name       string
	quote      string
	bindType   int
	returning  bool
	offsetOnly string
}

func (d *base) Name() string {
	return d.name
}

func (d *base) BindType() int {
	return d.bindType
}

func (d *base) SupportsReturning() bool {
	return d.returning
}

func (d *base) OffsetWithoutLimit() string {
	return d.offsetOnly
}

// Rebind, "?" yer tutucularını dialect'in bind tipine çevirir. Tek, çift ve
// ters tırnak içindeki metne dokunulmaz. "??" literal bir "?" yazar; PostgreSQL'in
// JSONB "?" operatörü bu yolla kullanılır. QUESTION dialect'lerinde metin aynen döner.
func (d *base) Rebind(query string) string {
	if d.bindType == sqlx.QUESTION || d.bindType == sqlx.UNKNOWN {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 10)

	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '?':
			if i+1 < len(query) && query[i+1] == '?' {
				b.WriteByte('?')
				i++
				continue
			}
			n++
			switch d.bindType {
			case sqlx.DOLLAR:
				b.WriteByte('$')
			case sqlx.NAMED:
				b.WriteString(":arg")
			case sqlx.AT:
				b.WriteString("@p")
			}
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (d *base) wrap(part string) string {
	return d.quote + part + d.quote
}

func (d *base) Quote(identifier string) (string, error) {
	if identifier == "*" {
		return "*", nil
	}

	table, column, err := validation.SplitTableColumn(identifier)
	if err != nil {
		return "", err
	}
	if table == "" {
		return d.wrap(column), nil
	}
	return d.wrap(table) + "." + d.wrap(column), nil
}

func (d *base) QuoteTable(table string) (string, error) {
	name, alias, err := validation.ValidateTableWithAlias(table)
	if err != nil {
		return "", err
	}

	wrapped, err := d.Quote(name)
	if err != nil {
		return "", err
	}
	if alias != "" {
		wrapped += " AS " + d.wrap(alias)
	}
	return wrapped, nil
}

func (d *base) QuoteColumn(column string) (string, error) {
	name, alias, star, err := validation.ValidateColumnWithAlias(column)
	if err != nil {
		return "", err
	}

	if star {
		if name == "*" {
			return "*", nil
		}
		return d.wrap(strings.TrimSuffix(name, ".*")) + ".*", nil
	}

	wrapped, err := d.Quote(name)
	if err != nil {
		return "", err
	}
	if alias != "" {
		wrapped += " AS " + d.wrap(alias)
	}
	return wrapped, nil
}

// quoteAll, kolon listesini sırasıyla tırnaklar.
func (d *base) quoteAll(columns []string) ([]string, error) {
	out := make([]string, len(columns))
	for i, col := range columns {
		q, err := d.Quote(col)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}

// onConflict, PostgreSQL ve SQLite'ın paylaştığı "ON CONFLICT ... DO UPDATE" kuyruğudur.
func (d *base) onConflict(conflict, update []string) (string, error) {
	if len(conflict) == 0 {
		return "", ErrNoConflictTarget
	}
	if len(update) == 0 {
		return "", ErrNoColumns
	}

	target, err := d.quoteAll(conflict)
	if err != nil {
		return "", err
	}
	cols, err := d.quoteAll(update)
	if err != nil {
		return "", err
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = EXCLUDED." + col
	}

	return " ON CONFLICT (" + strings.Join(target, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", "), nil
}

// ----------------------------------------------------------------------------
// Registry
// ----------------------------------------------------------------------------

var (
	mu       sync.RWMutex
	dialects = map[string]Dialect{}
)

func init() {
	Register("mysql", MySQL())
	Register("postgres", Postgres())
	Register("pgx", Postgres())
	Register("sqlite", SQLite())
	Register("sqlite3", SQLite())
}

// Register, bir sürücü adını dialect ile eşler. Aynı ad tekrar kaydedilirse üzerine yazılır.
func Register(driverName string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[driverName] = d
}

// Get, sürücü adına kayıtlı dialect'i döndürür.
func Get(driverName string) (Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := dialects[driverName]
	return d, ok
}

// MustGet, Get gibidir ancak kayıt yoksa panic üretir.
func MustGet(driverName string) Dialect {
	d, ok := Get(driverName)
	if !ok {
		panic("sqlchain: unsupported dialect: " + driverName)
	}
	return d
}

// Drivers, kayıtlı sürücü adlarını sıralı döndürür.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ----------------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------------

var (
	ErrNoColumns        = &DialectError{Message: "no columns specified"}
	ErrNoConflictTarget = &DialectError{Message: "upsert requires at least one conflict column"}
)

// DialectError, dialect'e özgü hatalardır.
type DialectError struct {
	Message string
}

// Error, hatayı string olarak döndürür.
func (e *DialectError) Error() string {
	return "dialect: " + e.Message
}
