package sqlchain

import (
	"context"
	"database/sql"
	"time"

	"github.com/biyonik/go-sqlchain/dialect"
)

/*
=======================================================================================================================
  SQLCHAIN – Bağlantı ve Yürütme Katmanı

  Bu dosya; tamponda biriken ifadenin hangi bağlantı üzerinde, nasıl ölçülerek ve hangi koşullarda tekrar
  denenerek çalıştırılacağını tanımlar.

  - İster normal bağlantı (`*sql.DB`), ister transaction (`*sql.Tx`) üzerinde çalışalım,
    aynı QueryExecutor arayüzü kullanılır.
  - Her ifade süresiyle birlikte ölçülür. Debug açıksa veya hata oluştuysa Logger'a,
    her durumda gözlemcilere (örn. Prometheus collector) iletilir.
  - Geçici hatalar yalnızca transaction dışında RetryPolicy ile tekrar denenir.

  @author    Ahmet ALTUN
  @github    github.com/biyonik
=======================================================================================================================
*/

// QueryExecutor arayüzü; hem *sql.DB hem *sql.Tx yapılarının ortak olarak sağlayabildiği temel veritabanı
// fonksiyonlarını soyutlar. Builder yalnızca bu arayüzü bilir.
type QueryExecutor interface {
	// ExecContext -> INSERT/UPDATE/DELETE gibi sonuç satırı döndürmeyen komutlar için.
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)

	// QueryContext -> Satır döndüren ifadeler için.
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRowContext -> Tek satır beklenen ifadeler için.
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Compile-time kontrolü.
var (
	_ QueryExecutor = (*sql.DB)(nil)
	_ QueryExecutor = (*sql.Tx)(nil)
	_ QueryExecutor = (*instrumented)(nil)
	_ QueryExecutor = (*Transaction)(nil)
)

// settings, DB ve Transaction'ın paylaştığı, Option'larla belirlenen davranışlardır.
type settings struct {
	dialect   dialect.Dialect
	scanner   Scanner
	logger    Logger
	debug     bool
	prefix    string
	retry     *RetryPolicy
	cache     *resultCache
	observers []Logger
}

// builder, bu ayarlarla exec üzerinde çalışan boş bir Builder döndürür.
func (s *settings) builder(exec QueryExecutor, cache *resultCache) *Builder {
	b := NewBuilder(exec, s.dialect, s.scanner)
	b.prefix = s.prefix
	b.cache = cache
	return b
}

// instrument, inner'ı süre ölçümü, log ve isteğe bağlı retry ile sarar.
func (s *settings) instrument(inner QueryExecutor, retry *RetryPolicy) *instrumented {
	return &instrumented{
		inner:     inner,
		logger:    s.logger,
		debug:     s.debug,
		observers: s.observers,
		retry:     retry,
	}
}

// instrumented, her ifadeyi ölçen QueryExecutor sarmalayıcısıdır.
type instrumented struct {
	inner     QueryExecutor
	logger    Logger
	debug     bool
	observers []Logger
	retry     *RetryPolicy
}

func (e *instrumented) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := e.retry.run(ctx, func(ctx context.Context) error {
		start := time.Now()
		var err error
		res, err = e.inner.ExecContext(ctx, query, args...)
		e.record(query, args, time.Since(start), err)
		return err
	})
	return res, err
}

func (e *instrumented) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	var rows *sql.Rows
	err := e.retry.run(ctx, func(ctx context.Context) error {
		start := time.Now()
		var err error
		rows, err = e.inner.QueryContext(ctx, query, args...)
		e.record(query, args, time.Since(start), err)
		return err
	})
	return rows, err
}

// QueryRowContext tekrar denenmez; hata satır taranırken ortaya çıkar.
func (e *instrumented) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := e.inner.QueryRowContext(ctx, query, args...)
	e.record(query, args, time.Since(start), row.Err())
	return row
}

func (e *instrumented) record(query string, args []any, duration time.Duration, err error) {
	if e.logger != nil && (e.debug || err != nil) {
		e.logger.Log(query, args, duration, err)
	}
	for _, o := range e.observers {
		o.Log(query, args, duration, err)
	}
}

// DB struct'ı veritabanı bağlantısını sarar ve üzerine dialect, scanner, logging,
// prefix, retry ve önbellek davranışlarını ekler. Eşzamanlı kullanım güvenlidir.
type DB struct {
	*sql.DB
	settings
}

// NewDB -> DB sarmalayıcısının oluşturulduğu yerdir. Dialect verilmezse MySQL kullanılır.
func NewDB(db *sql.DB, opts ...Option) *DB {
	return newDB(db, dialect.MySQL(), opts)
}

func newDB(db *sql.DB, fallback dialect.Dialect, opts []Option) *DB {
	d := &DB{
		DB: db,
		settings: settings{
			logger: NopLogger{},
		},
	}

	applyOptions(d, opts)

	if d.dialect == nil {
		d.dialect = fallback
	}
	if d.scanner == nil {
		d.scanner = NewDefaultScanner()
	}

	return d
}

// executor, autocommit ifadeler için ölçülen ve tekrar denenen executor'dur.
func (d *DB) executor() QueryExecutor {
	return d.instrument(d.DB, d.retry)
}

// Dialect -> Aktif dialect'i döndürür.
func (d *DB) Dialect() dialect.Dialect {
	return d.dialect
}

// Scanner -> Satır tarama bileşenini döndürür.
func (d *DB) Scanner() Scanner {
	return d.scanner
}

// Logger -> Aktif Logger'ı döndürür.
func (d *DB) Logger() Logger {
	return d.logger
}

// TablePrefix -> Tablo adlarına eklenen ön eki döndürür.
func (d *DB) TablePrefix() string {
	return d.prefix
}

// IsDebug -> Her ifadenin loglanıp loglanmadığını bildirir.
func (d *DB) IsDebug() bool {
	return d.debug
}

// ----------------------------------------------------------------------------
// Builder başlatıcıları
// ----------------------------------------------------------------------------

// Query, bu bağlantı üzerinde boş bir Builder döndürür.
func (d *DB) Query() *Builder {
	return d.builder(d.executor(), d.cache)
}

// Select, "SELECT ..." ile başlayan bir Builder döndürür.
func (d *DB) Select(columns ...string) *Builder {
	return d.Query().Select(columns...)
}

// SelectDistinct, "SELECT DISTINCT ..." ile başlayan bir Builder döndürür.
func (d *DB) SelectDistinct(columns ...string) *Builder {
	return d.Query().SelectDistinct(columns...)
}

// SelectRaw, ham select ifadesiyle başlayan bir Builder döndürür.
func (d *DB) SelectRaw(expr string, bindings ...any) *Builder {
	return d.Query().SelectRaw(expr, bindings...)
}

// InsertInto, "INSERT INTO ..." ile başlayan bir Builder döndürür.
func (d *DB) InsertInto(table string, columns ...string) *Builder {
	return d.Query().InsertInto(table, columns...)
}

// Update, "UPDATE ..." ile başlayan bir Builder döndürür.
func (d *DB) Update(table string) *Builder {
	return d.Query().Update(table)
}

// DeleteFrom, "DELETE FROM ..." ile başlayan bir Builder döndürür.
func (d *DB) DeleteFrom(table string) *Builder {
	return d.Query().DeleteFrom(table)
}

// Raw, ham parçayla başlayan bir Builder döndürür.
func (d *DB) Raw(fragment string, bindings ...any) *Builder {
	return d.Query().Raw(fragment, bindings...)
}

// ----------------------------------------------------------------------------
// Transaction ve bağlantı
// ----------------------------------------------------------------------------

// BeginTx -> Manuel transaction başlatır.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Transaction, error) {
	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, WrapError("begin transaction", err)
	}
	return newTransaction(tx, d.settings), nil
}

// Begin -> Varsayılan ayarlarla transaction başlatır.
func (d *DB) Begin() (*Transaction, error) {
	return d.BeginTx(context.Background(), nil)
}

// Transaction -> fn içinde otomatik transaction yönetimi sağlar.
// fn nil dönerse commit, hata veya panic durumunda rollback yapılır.
func (d *DB) Transaction(ctx context.Context, fn func(*Transaction) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return WrapError("rollback after error", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// Close -> Veritabanı bağlantısını kapatır.
func (d *DB) Close() error {
	return d.DB.Close()
}

// Ping -> Bağlantı canlı mı? Kontrol eder.
func (d *DB) Ping(ctx context.Context) error {
	return WrapError("ping", d.DB.PingContext(ctx))
}
