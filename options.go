package sqlchain

import (
	"github.com/biyonik/go-sqlchain/cache"
	"github.com/biyonik/go-sqlchain/dialect"
)

// -----------------------------------------------------------------------------
//  DB yapılandırma seçenekleri.
//
//  Her With* fonksiyonu DB kurulumuna eklenen küçük bir dokunuştur:
//
//	db, err := sqlchain.Connect("mysql", dsn,
//	    sqlchain.WithDebug(true),
//	    sqlchain.WithLogger(sqlchain.NewLogrusLogger(nil)),
//	    sqlchain.WithTablePrefix("app_"),
//	)
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
// -----------------------------------------------------------------------------

// Option, bir *DB örneği üzerinde çalışan yapılandırma fonksiyonudur.
type Option func(*DB)

// WithDialect, dialect'i değiştirir. Connect sürücü adından dialect seçer;
// NewDB ve New için varsayılan MySQL'dir.
//
//	db := sqlchain.NewDB(sqlDB, sqlchain.WithDialect(dialect.Postgres()))
func WithDialect(d dialect.Dialect) Option {
	return func(db *DB) {
		db.dialect = d
	}
}

// WithScanner, satırları Go değerlerine aktaran tarayıcıyı değiştirir.
func WithScanner(s Scanner) Option {
	return func(db *DB) {
		db.scanner = s
	}
}

// WithDebug, her ifadenin Logger'a gönderilmesini açar veya kapatır.
// Kapalıyken yalnızca hatalı ifadeler loglanır.
func WithDebug(enabled bool) Option {
	return func(db *DB) {
		db.debug = enabled
	}
}

// WithLogger, Logger'ı değiştirir. nil verilirse NopLogger kullanılır.
func WithLogger(logger Logger) Option {
	return func(db *DB) {
		if logger == nil {
			logger = NopLogger{}
		}
		db.logger = logger
	}
}

// WithTablePrefix, tüm tablo adlarına ön ek ekler.
//
//	db := sqlchain.NewDB(sqlDB, sqlchain.WithTablePrefix("app_"))
//	// db.Select().From("users")  →  SELECT * FROM `app_users`
func WithTablePrefix(prefix string) Option {
	return func(db *DB) {
		db.prefix = prefix
	}
}

// WithRetry, transaction dışındaki ifadelerin geçici hatalarda tekrar denenmesini sağlar.
func WithRetry(policy RetryPolicy) Option {
	return func(db *DB) {
		p := policy
		db.retry = &p
	}
}

// WithCache, Remember ile işaretlenen okumalar için sonuç önbelleğini bağlar.
//
//	db := sqlchain.NewDB(sqlDB, sqlchain.WithCache(cache.NewMemory(1024)))
func WithCache(store cache.Store) Option {
	return func(db *DB) {
		if store == nil {
			db.cache = nil
			return
		}
		db.cache = newResultCache(store)
	}
}

// WithObserver, her ifadeyi (debug durumundan bağımsız) alan bir gözlemci ekler.
// metrics.Collector bu amaçla kullanılabilir.
func WithObserver(o Logger) Option {
	return func(db *DB) {
		if o != nil {
			db.observers = append(db.observers, o)
		}
	}
}

// applyOptions, nil olmayan her Option'ı sırayla uygular.
func applyOptions(d *DB, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
}
