package sqlchain

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Config, veritabanı bağlantısının nereye ve nasıl yapılacağını tanımlar.
//
// mapstructure etiketleri LoadConfig'in dosya ve ortam değişkenlerinden
// okuyabilmesi içindir.
type Config struct {
	Driver       string        `mapstructure:"driver"`         // "mysql", "postgres", "pgx", "sqlite"
	Host         string        `mapstructure:"host"`           // sunucu adresi
	Port         int           `mapstructure:"port"`           // bağlantı portu
	Database     string        `mapstructure:"database"`       // veritabanı adı (sqlite için dosya yolu)
	Username     string        `mapstructure:"username"`       // kullanıcı adı
	Password     string        `mapstructure:"password"`       // parola
	Charset      string        `mapstructure:"charset"`        // MySQL karakter seti
	Collation    string        `mapstructure:"collation"`      // MySQL collation
	SSLMode      string        `mapstructure:"sslmode"`        // PostgreSQL sslmode
	Prefix       string        `mapstructure:"prefix"`         // tablo öneki
	MaxOpenConns int           `mapstructure:"max_open_conns"` // 0 = sınırsız
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnMaxLife  time.Duration `mapstructure:"conn_max_life"`
	ConnMaxIdle  time.Duration `mapstructure:"conn_max_idle"`
	TLS          bool          `mapstructure:"tls"`
	Debug        bool          `mapstructure:"debug"`   // her ifade Logger'a gider
	Retries      uint64        `mapstructure:"retries"` // geçici hatalarda tekrar sayısı
}

// DefaultConfig, üretim için makul varsayılanları döndürür.
func DefaultConfig() *Config {
	return &Config{
		Driver:       "mysql",
		Host:         "localhost",
		Port:         3306,
		Charset:      "utf8mb4",
		Collation:    "utf8mb4_unicode_ci",
		SSLMode:      "disable",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
		ConnMaxLife:  5 * time.Minute,
		ConnMaxIdle:  5 * time.Minute,
	}
}

// DSN, sürücünün anlayacağı bağlantı dizesini üretir.
//
// MySQL için go-sql-driver/mysql Config.FormatDSN kullanılır; parseTime her zaman
// açıktır. PostgreSQL için "postgres://" URL'i, SQLite için dosya yolu döner.
func (c *Config) DSN() string {
	switch c.Driver {
	case "postgres", "pgx":
		return c.postgresDSN()
	case "sqlite", "sqlite3":
		return c.Database
	default:
		return c.mysqlDSN()
	}
}

func (c *Config) mysqlDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.Username
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.Host
	if c.Port > 0 {
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	mc.DBName = c.Database
	mc.ParseTime = true
	mc.Collation = c.Collation
	if c.Charset != "" {
		mc.Params = map[string]string{"charset": c.Charset}
	}
	if c.TLS {
		mc.TLSConfig = "true"
	}
	return mc.FormatDSN()
}

func (c *Config) postgresDSN() string {
	host := c.Host
	if c.Port > 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}

	q := url.Values{}
	switch {
	case c.TLS:
		q.Set("sslmode", "require")
	case c.SSLMode != "":
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Options, yapılandırmadan türeyen DB seçeneklerini döndürür.
func (c *Config) Options() []Option {
	opts := []Option{WithDebug(c.Debug)}
	if c.Prefix != "" {
		opts = append(opts, WithTablePrefix(c.Prefix))
	}
	if c.Retries > 0 {
		policy := DefaultRetryPolicy()
		policy.MaxRetries = c.Retries
		opts = append(opts, WithRetry(policy))
	}
	return opts
}

// LoadConfig, yapılandırmayı varsayılanlar, isteğe bağlı dosya ve ortam
// değişkenleri sırasıyla birleştirerek okur. Ortam değişkenleri
// "<PREFIX>_<KEY>" biçimindedir, örn. SQLCHAIN_MAX_OPEN_CONNS.
//
// path boşsa dosya okunmaz; dosya yoksa hata döner.
func LoadConfig(path, envPrefix string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, WrapError("read config", err)
		}
	}

	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, WrapError("decode config", err)
	}
	if cfg.Driver == "" {
		return nil, errors.New("sqlchain: config has no driver")
	}
	return cfg, nil
}

// setDefaults, her anahtarı viper'a tanıtır; AutomaticEnv yalnızca bilinen
// anahtarları Unmarshal'a taşır.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("driver", d.Driver)
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("database", d.Database)
	v.SetDefault("username", d.Username)
	v.SetDefault("password", d.Password)
	v.SetDefault("charset", d.Charset)
	v.SetDefault("collation", d.Collation)
	v.SetDefault("sslmode", d.SSLMode)
	v.SetDefault("prefix", d.Prefix)
	v.SetDefault("max_open_conns", d.MaxOpenConns)
	v.SetDefault("max_idle_conns", d.MaxIdleConns)
	v.SetDefault("conn_max_life", d.ConnMaxLife)
	v.SetDefault("conn_max_idle", d.ConnMaxIdle)
	v.SetDefault("tls", d.TLS)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("retries", d.Retries)
}
