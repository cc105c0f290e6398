package sqlchain

import (
	"context"
	"database/sql"
	"slices"

	"github.com/biyonik/go-sqlchain/dialect"
)

// Version, go-sqlchain kütüphanesinin mevcut sürümünü belirtir.
const Version = "0.2.0"

// Connect, verilen sürücü ve DSN ile bağlantı açar, bağlantıyı doğrular ve DB döndürür.
// Dialect, WithDialect verilmemişse sürücü adından seçilir.
//
//	db, err := sqlchain.Connect("mysql", "user:pass@tcp(localhost:3306)/dbname")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
func Connect(driverName, dataSourceName string, opts ...Option) (*DB, error) {
	return ConnectContext(context.Background(), driverName, dataSourceName, opts...)
}

// ConnectContext, Connect'in context alan biçimidir.
func ConnectContext(ctx context.Context, driverName, dataSourceName string, opts ...Option) (*DB, error) {
	sqlDB, err := open(ctx, driverName, dataSourceName, nil)
	if err != nil {
		return nil, err
	}
	return newDB(sqlDB, dialectFor(driverName), opts), nil
}

// ConnectWithConfig, Config ile bağlantı açar. Havuz ayarları uygulanır ve
// Config.Options() verilen opts'tan önce işlenir.
//
//	cfg := sqlchain.DefaultConfig()
//	cfg.Database = "mydb"
//	cfg.Username = "user"
//	cfg.Password = "pass"
//	db, err := sqlchain.ConnectWithConfig(cfg)
func ConnectWithConfig(cfg *Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	sqlDB, err := open(context.Background(), cfg.Driver, cfg.DSN(), cfg)
	if err != nil {
		return nil, err
	}

	all := append(cfg.Options(), opts...)
	return newDB(sqlDB, dialectFor(cfg.Driver), all), nil
}

// driverFor, database/sql'e verilecek sürücü adını döndürür. Bağlı tek SQLite
// sürücüsü modernc olduğundan, başka bir paket "sqlite3" kaydetmemişse bu ad
// "sqlite"a çevrilir.
func driverFor(name string) string {
	if name == "sqlite3" && !slices.Contains(sql.Drivers(), name) {
		return "sqlite"
	}
	return name
}

// open, bağlantıyı açar, havuz ayarlarını uygular ve Ping ile doğrular.
func open(ctx context.Context, driverName, dsn string, cfg *Config) (*sql.DB, error) {
	sqlDB, err := sql.Open(driverFor(driverName), dsn)
	if err != nil {
		return nil, WrapError("connect", err)
	}

	if cfg != nil {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLife > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)
		}
		if cfg.ConnMaxIdle > 0 {
			sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdle)
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, WrapError("ping", err)
	}
	return sqlDB, nil
}

// dialectFor, sürücü adına kayıtlı dialect'i, yoksa MySQL'i döndürür.
func dialectFor(driverName string) dialect.Dialect {
	if d, ok := dialect.Get(driverName); ok {
		return d
	}
	return dialect.MySQL()
}

// New, veritabanı bağlantısı olmadan yeni bir Builder oluşturur.
// SQL üretmek için kullanılır; çalıştırma metotları ErrNoExecutor döner.
//
//	query, args, err := sqlchain.New(sqlchain.WithDialect(dialect.Postgres())).
//	    Select("id", "name").
//	    From("users").
//	    Where("status", "=", "active").
//	    SQL()
func New(opts ...Option) *Builder {
	d := newDB(nil, dialect.MySQL(), opts)
	return d.builder(nil, nil)
}

// Raw, kaçış yapılmayacak ham SQL ifadesini temsil eder. Değer olarak
// verildiğinde "?" yerine metne olduğu gibi yazılır, bağlamaları argümanlara eklenir.
// Sadece güvenli ve kontrol edilen girdi için kullanın.
type Raw struct {
	SQL      string
	Bindings []any
}

// NewRaw, yeni bir Raw SQL ifadesi oluşturur.
//
//	b.Update("posts").Set("views", sqlchain.NewRaw("views + ?", 1))
//	b.Where("created_at", ">", sqlchain.NewRaw("NOW() - INTERVAL 1 DAY"))
func NewRaw(sql string, bindings ...any) Raw {
	return Raw{
		SQL:      sql,
		Bindings: bindings,
	}
}

// String, ham SQL ifadesini string olarak döndürür.
func (r Raw) String() string {
	return r.SQL
}
