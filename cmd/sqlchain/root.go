package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	sqlchain "github.com/biyonik/go-sqlchain"
	"github.com/biyonik/go-sqlchain/dialect"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// envPrefix, yapılandırma ortam değişkenlerinin önekidir (SQLCHAIN_HOST, SQLCHAIN_DATABASE ...).
const envPrefix = "SQLCHAIN"

type globalOptions struct {
	configFile string
	driver     string
	dsn        string
	debug      bool
	output     string

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "sqlchain",
		Short:         "Build and run SQL statements from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.debug {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return validFormat(opts.output)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file (yaml, json or toml)")
	flags.StringVar(&opts.driver, "driver", "", "database driver: mysql, postgres, pgx, sqlite (sqlite3 is an alias)")
	flags.StringVar(&opts.dsn, "dsn", "", "data source name; overrides the configuration file")
	flags.BoolVar(&opts.debug, "debug", false, "log every statement")
	flags.StringVarP(&opts.output, "output", "o", "table", "output format: table, csv, markdown, json, yaml")

	root.AddCommand(
		newSelectCmd(opts),
		newQueryCmd(opts),
		newExecCmd(opts),
		newPingCmd(opts),
	)
	return root
}

// connect, --dsn verilmişse doğrudan, aksi halde yapılandırma dosyası ve
// SQLCHAIN_* ortam değişkenleriyle bağlanır.
func (o *globalOptions) connect(ctx context.Context) (*sqlchain.DB, error) {
	logOpts := []sqlchain.Option{
		sqlchain.WithLogger(sqlchain.NewZapLogger(o.logger)),
		sqlchain.WithDebug(o.debug),
	}

	if o.dsn != "" {
		driver := o.driver
		if driver == "" {
			driver = "mysql"
		}
		o.logger.Debug("connecting", zap.String("driver", driver))
		return sqlchain.ConnectContext(ctx, driver, o.dsn, logOpts...)
	}

	cfg, err := sqlchain.LoadConfig(o.configFile, envPrefix)
	if err != nil {
		return nil, err
	}
	if o.driver != "" {
		cfg.Driver = o.driver
	}
	if o.debug {
		cfg.Debug = true
	}
	o.logger.Debug("connecting", zap.String("driver", cfg.Driver), zap.String("host", cfg.Host))
	return sqlchain.ConnectWithConfig(cfg, logOpts...)
}

// dialect, bağlantı gerektirmeyen işlemler için sürücüye uygun dialect'i döndürür.
func (o *globalOptions) dialect() (dialect.Dialect, error) {
	driver := o.driver
	if driver == "" && o.dsn == "" {
		cfg, err := sqlchain.LoadConfig(o.configFile, envPrefix)
		if err != nil {
			return nil, err
		}
		driver = cfg.Driver
	}
	if driver == "" {
		driver = "mysql"
	}

	d, ok := dialect.Get(driver)
	if !ok {
		return nil, fmt.Errorf("unsupported driver %q (known: %v)", driver, dialect.Drivers())
	}
	return d, nil
}
