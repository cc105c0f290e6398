package dialect_test

import (
	"testing"

	"github.com/biyonik/go-sqlchain/dialect"
)

func TestNames(t *testing.T) {
	tests := []struct {
		d    dialect.Dialect
		want string
	}{
		{dialect.MySQL(), "mysql"},
		{dialect.Postgres(), "postgres"},
		{dialect.SQLite(), "sqlite"},
	}
	for _, tt := range tests {
		if got := tt.d.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name       string
		d          dialect.Dialect
		identifier string
		want       string
		wantErr    bool
	}{
		{"mysql simple", dialect.MySQL(), "users", "`users`", false},
		{"mysql table.column", dialect.MySQL(), "users.id", "`users`.`id`", false},
		{"mysql star", dialect.MySQL(), "*", "*", false},
		{"postgres simple", dialect.Postgres(), "users", `"users"`, false},
		{"postgres table.column", dialect.Postgres(), "u.id", `"u"."id"`, false},
		{"sqlite simple", dialect.SQLite(), "user_name", `"user_name"`, false},
		{"invalid", dialect.MySQL(), "users;DROP", "", true},
		{"empty", dialect.Postgres(), "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.d.Quote(tt.identifier)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Quote(%q) error = %v, wantErr %v", tt.identifier, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Quote(%q) = %q, want %q", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestQuoteTable(t *testing.T) {
	tests := []struct {
		name    string
		d       dialect.Dialect
		table   string
		want    string
		wantErr bool
	}{
		{"mysql simple", dialect.MySQL(), "users", "`users`", false},
		{"mysql alias AS", dialect.MySQL(), "users as u", "`users` AS `u`", false},
		{"mysql alias space", dialect.MySQL(), "users u", "`users` AS `u`", false},
		{"postgres schema", dialect.Postgres(), "public.users u", `"public"."users" AS "u"`, false},
		{"invalid", dialect.MySQL(), "users;DROP", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.d.QuoteTable(tt.table)
			if (err != nil) != tt.wantErr {
				t.Fatalf("QuoteTable(%q) error = %v, wantErr %v", tt.table, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("QuoteTable(%q) = %q, want %q", tt.table, got, tt.want)
			}
		})
	}
}

func TestQuoteColumn(t *testing.T) {
	d := dialect.Postgres()
	tests := map[string]string{
		"*":                `*`,
		"u.*":              `"u".*`,
		"name":             `"name"`,
		"u.name as author": `"u"."name" AS "author"`,
	}
	for in, want := range tests {
		got, err := d.QuoteColumn(in)
		if err != nil {
			t.Fatalf("QuoteColumn(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("QuoteColumn(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := d.QuoteColumn("COUNT(*)"); err == nil {
		t.Error("QuoteColumn should reject expressions; SelectRaw exists for that")
	}
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM t WHERE a = ? AND b IN (?, ?)"

	if got := dialect.MySQL().Rebind(query); got != query {
		t.Errorf("mysql Rebind changed query: %q", got)
	}
	if got := dialect.SQLite().Rebind(query); got != query {
		t.Errorf("sqlite Rebind changed query: %q", got)
	}

	want := "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)"
	if got := dialect.Postgres().Rebind(query); got != want {
		t.Errorf("postgres Rebind = %q, want %q", got, want)
	}
}

func TestRebind_SkipsQuotedText(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single quoted", "title <> 'why?' AND id = ?", "title <> 'why?' AND id = $1"},
		{"doubled quote", "note = 'it''s ?' AND id = ?", "note = 'it''s ?' AND id = $1"},
		{"double quoted", `SELECT "odd?col" FROM t WHERE a = ?`, `SELECT "odd?col" FROM t WHERE a = $1`},
		{"backtick", "SELECT `q?` FROM t WHERE a = ? AND b = ?", "SELECT `q?` FROM t WHERE a = $1 AND b = $2"},
		{"escaped", "data ?? ? AND tags ?| ?", "data ? $1 AND tags $2| $3"},
		{"escaped pair", "data ??| ?", "data ?| $1"},
		{"no placeholders", "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dialect.Postgres().Rebind(tt.query); got != tt.want {
				t.Errorf("postgres Rebind(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}

	query := "title <> 'why?' AND data ?? ?"
	if got := dialect.MySQL().Rebind(query); got != query {
		t.Errorf("mysql Rebind changed query: %q", got)
	}
}

func TestOffsetWithoutLimit(t *testing.T) {
	if got := dialect.MySQL().OffsetWithoutLimit(); got != " LIMIT 18446744073709551615" {
		t.Errorf("mysql OffsetWithoutLimit() = %q", got)
	}
	if got := dialect.SQLite().OffsetWithoutLimit(); got != " LIMIT -1" {
		t.Errorf("sqlite OffsetWithoutLimit() = %q", got)
	}
	if got := dialect.Postgres().OffsetWithoutLimit(); got != "" {
		t.Errorf("postgres OffsetWithoutLimit() = %q", got)
	}
}

func TestUpsert(t *testing.T) {
	tests := []struct {
		name     string
		d        dialect.Dialect
		conflict []string
		update   []string
		want     string
		wantErr  bool
	}{
		{
			name:   "mysql",
			d:      dialect.MySQL(),
			update: []string{"name", "email"},
			want:   " ON DUPLICATE KEY UPDATE `name` = VALUES(`name`), `email` = VALUES(`email`)",
		},
		{
			name:     "postgres",
			d:        dialect.Postgres(),
			conflict: []string{"id"},
			update:   []string{"name"},
			want:     ` ON CONFLICT ("id") DO UPDATE SET "name" = EXCLUDED."name"`,
		},
		{
			name:     "sqlite composite",
			d:        dialect.SQLite(),
			conflict: []string{"tenant_id", "slug"},
			update:   []string{"title"},
			want:     ` ON CONFLICT ("tenant_id", "slug") DO UPDATE SET "title" = EXCLUDED."title"`,
		},
		{name: "postgres without target", d: dialect.Postgres(), update: []string{"name"}, wantErr: true},
		{name: "mysql nothing to update", d: dialect.MySQL(), wantErr: true},
		{name: "mysql invalid column", d: dialect.MySQL(), update: []string{"a;b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.d.Upsert(tt.conflict, tt.update)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Upsert() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Upsert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSupportsReturning(t *testing.T) {
	if dialect.MySQL().SupportsReturning() {
		t.Error("mysql should not support RETURNING")
	}
	if !dialect.Postgres().SupportsReturning() || !dialect.SQLite().SupportsReturning() {
		t.Error("postgres and sqlite support RETURNING")
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"mysql", "postgres", "pgx", "sqlite", "sqlite3"} {
		if _, ok := dialect.Get(name); !ok {
			t.Errorf("Get(%q) not registered", name)
		}
	}

	if _, ok := dialect.Get("oracle"); ok {
		t.Error("Get(oracle) should not be registered")
	}

	dialect.Register("mariadb", dialect.MySQL())
	if d := dialect.MustGet("mariadb"); d.Name() != "mysql" {
		t.Errorf("MustGet(mariadb).Name() = %q", d.Name())
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGet(unknown) should panic")
		}
	}()
	dialect.MustGet("unknown")
}
