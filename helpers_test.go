package sqlchain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	sqlchain "github.com/biyonik/go-sqlchain"
)

type user struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
	Role   string
	Age    int
	Status *string `db:"status"`
}

const schema = `
CREATE TABLE users (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT NOT NULL,
	email  TEXT NOT NULL UNIQUE,
	role   TEXT NOT NULL DEFAULT 'member',
	age    INTEGER NOT NULL DEFAULT 0,
	status TEXT
)`

// openTestDB, tek bağlantılı bellek içi SQLite üzerinde users tablosunu
// kurar ve beş kullanıcı ekler.
func openTestDB(t *testing.T, opts ...sqlchain.Option) *sqlchain.DB {
	t.Helper()

	db, err := sqlchain.Connect("sqlite", ":memory:", opts...)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Raw(schema).Execute()
	require.NoError(t, err)

	seed := db.InsertInto("users", "name", "email", "role", "age", "status")
	for _, u := range []struct {
		name, role string
		age        int
		status     any
	}{
		{"alice", "admin", 34, "active"},
		{"bob", "member", 27, "active"},
		{"carol", "member", 41, nil},
		{"dave", "owner", 19, "banned"},
		{"erin", "member", 52, "active"},
	} {
		seed.Values(u.name, u.name+"@example.com", u.role, u.age, u.status)
	}
	_, err = seed.Execute()
	require.NoError(t, err)

	return db
}
