package sqlchain_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	sqlchain "github.com/biyonik/go-sqlchain"
	"github.com/biyonik/go-sqlchain/cache"
)

func TestExecute(t *testing.T) {
	db := openTestDB(t)

	res, err := db.InsertInto("users", "name", "email").Values("frank", "frank@example.com").Execute()
	require.NoError(t, err)

	id, err := res.LastInsertID()
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)

	res, err = db.Update("users").Set("role", "member").Where("role", "=", "admin").Execute()
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	res, err = db.DeleteFrom("users").Where("age", "<", 20).Execute()
	require.NoError(t, err)
	n, err = res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestExecute_DriverErrorKeepsStatement(t *testing.T) {
	db := openTestDB(t)

	_, err := db.InsertInto("users", "name", "email").Values("dup", "alice@example.com").Execute()
	require.Error(t, err)
	assert.True(t, sqlchain.IsDuplicateKey(err))

	var qerr *sqlchain.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "execute", qerr.Op)
	assert.Contains(t, qerr.Query, `INSERT INTO "users"`)
	assert.Equal(t, []any{"dup", "alice@example.com"}, qerr.Args)
}

func TestExecute_ValidationErrorSkipsDriver(t *testing.T) {
	var calls int
	db := openTestDB(t, sqlchain.WithObserver(sqlchain.LoggerFunc(func(string, []any, time.Duration, error) {
		calls++
	})))
	calls = 0

	_, err := db.DeleteFrom("users").Where("id or 1=1", "=", 1).Execute()
	assert.ErrorIs(t, err, sqlchain.ErrInvalidIdentifier)
	assert.Zero(t, calls)

	count, err := db.Select().From("users").Count()
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestFetch(t *testing.T) {
	db := openTestDB(t)

	var u user
	err := db.Select().From("users").Where("name", "=", "carol").Fetch(&u)
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Name)
	assert.Equal(t, "carol@example.com", u.Email)
	assert.Equal(t, "member", u.Role)
	assert.Equal(t, 41, u.Age)
	assert.Nil(t, u.Status)

	err = db.Select().From("users").Where("name", "=", "nobody").Fetch(&u)
	assert.ErrorIs(t, err, sqlchain.ErrNoRows)
	assert.True(t, sqlchain.IsNoRows(err))
}

func TestFetch_Destinations(t *testing.T) {
	db := openTestDB(t)

	t.Run("map", func(t *testing.T) {
		var row map[string]any
		err := db.Select("name", "age").From("users").Where("id", "=", 1).Fetch(&row)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "alice", "age": int64(34)}, row)
	})

	t.Run("scalar", func(t *testing.T) {
		var name string
		err := db.Select("name").From("users").Where("id", "=", 2).Fetch(&name)
		require.NoError(t, err)
		assert.Equal(t, "bob", name)
	})

	t.Run("nil destination", func(t *testing.T) {
		var u *user
		err := db.Select().From("users").Fetch(u)
		assert.ErrorIs(t, err, sqlchain.ErrNilDestination)
	})

	t.Run("non pointer", func(t *testing.T) {
		err := db.Select().From("users").Fetch(user{})
		assert.ErrorIs(t, err, sqlchain.ErrInvalidDestination)
	})
}

func TestFetchAll(t *testing.T) {
	db := openTestDB(t)

	var users []user
	err := db.Select().From("users").Where("role", "=", "member").OrderByDesc("age").FetchAll(&users)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"erin", "carol", "bob"}, []string{users[0].Name, users[1].Name, users[2].Name})

	var ptrs []*user
	err = db.Select("id", "name").From("users").WhereIn("id", []any{1, 3}).OrderByAsc("id").FetchAll(&ptrs)
	require.NoError(t, err)
	require.Len(t, ptrs, 2)
	assert.Equal(t, "carol", ptrs[1].Name)

	var names []string
	err = db.Select("name").From("users").WhereNull("status").FetchAll(&names)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, names)
}

func TestFetchAll_EmptyResultIsEmptySlice(t *testing.T) {
	db := openTestDB(t)

	users := []user{{Name: "stale"}}
	err := db.Select().From("users").Where("age", ">", 100).FetchAll(&users)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestFetchAll_RejectsNonSlice(t *testing.T) {
	db := openTestDB(t)

	var u user
	err := db.Select().From("users").FetchAll(&u)
	assert.ErrorIs(t, err, sqlchain.ErrInvalidDestination)
}

func TestFetchColumn(t *testing.T) {
	db := openTestDB(t)

	var maxAge int
	err := db.SelectRaw("MAX(age)").From("users").FetchColumn(&maxAge)
	require.NoError(t, err)
	assert.Equal(t, 52, maxAge)

	var email string
	err = db.Select("email", "name").From("users").Where("name", "=", "dave").FetchColumn(&email)
	require.NoError(t, err)
	assert.Equal(t, "dave@example.com", email)

	err = db.Select("email").From("users").Where("id", "=", 99).FetchColumn(&email)
	assert.ErrorIs(t, err, sqlchain.ErrNoRows)
}

func TestFetchRecords(t *testing.T) {
	db := openTestDB(t)

	set, err := db.Select("name", "status").From("users").WhereIn("id", []any{3, 4}).OrderByAsc("id").FetchRecords()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "status"}, set.Columns)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, [][]any{{"carol", nil}, {"dave", "banned"}}, set.Rows)

	maps, err := db.Select("name").From("users").Where("role", "=", "owner").FetchAllMaps()
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "dave"}}, maps)
}

func TestCountAndExists(t *testing.T) {
	db := openTestDB(t)

	count, err := db.Select().From("users").Where("status", "=", "active").Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = db.Select("role").From("users").GroupBy("role").Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	ok, err := db.Select("id").From("users").Where("role", "=", "owner").Exists()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.Select("id").From("users").Where("role", "=", "guest").Exists()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPaginate(t *testing.T) {
	db := openTestDB(t)

	base := db.Select().From("users").OrderByAsc("id")

	var page []user
	p, err := base.Paginate(2, 2, &page)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	require.Len(t, page, 2)
	assert.Equal(t, "carol", page[0].Name)
	assert.Equal(t, "dave", page[1].Name)

	p, err = base.Paginate(3, 2, &page)
	require.NoError(t, err)
	assert.False(t, p.HasNext())
	require.Len(t, page, 1)
	assert.Equal(t, "erin", page[0].Name)

	// The base builder is untouched by paging.
	assert.NotContains(t, base.String(), "LIMIT")

	_, err = db.Select().From("users").Limit(1).Paginate(1, 2, &page)
	assert.ErrorContains(t, err, "paginate requires a statement without LIMIT or OFFSET")

	_, err = db.Select().From("users").Offset(1).Paginate(1, 2, &page)
	assert.ErrorContains(t, err, "paginate requires a statement without LIMIT or OFFSET")
}

func TestContextCancellation(t *testing.T) {
	db := openTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var users []user
	err := db.Select().From("users").FetchAllContext(ctx, &users)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemember(t *testing.T) {
	store := cache.NewMemory(16)
	db := openTestDB(t, sqlchain.WithCache(store))
	ctx := context.Background()

	query := func() *sqlchain.Builder {
		return db.Select("name").From("users").Where("role", "=", "member").OrderByAsc("id").Remember(time.Minute)
	}

	var first []string
	require.NoError(t, query().FetchAll(&first))
	assert.Equal(t, []string{"bob", "carol", "erin"}, first)
	assert.Equal(t, 1, store.Len())

	_, err := db.Update("users").Set("role", "admin").Where("name", "=", "bob").Execute()
	require.NoError(t, err)

	var cached []string
	require.NoError(t, query().FetchAll(&cached))
	assert.Equal(t, first, cached)

	require.NoError(t, query().Forget(ctx))
	assert.Zero(t, store.Len())

	var fresh []string
	require.NoError(t, query().FetchAll(&fresh))
	assert.Equal(t, []string{"carol", "erin"}, fresh)
}

// account, db etiketi olan ama JSON'a kapalı bir alan taşır.
type account struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	PasswordHash string `db:"email" json:"-"`
}

func TestRemember_StructAndMapDestinations(t *testing.T) {
	store := cache.NewMemory(16)
	db := openTestDB(t, sqlchain.WithCache(store))

	query := func() *sqlchain.Builder {
		return db.Select("id", "name", "email").From("users").Where("id", "=", 1)
	}

	var plain account
	require.NoError(t, query().Fetch(&plain))
	assert.Equal(t, "alice@example.com", plain.PasswordHash)

	var miss, hit account
	require.NoError(t, query().Remember(time.Minute).Fetch(&miss))
	require.NoError(t, query().Remember(time.Minute).Fetch(&hit))
	assert.Equal(t, plain, miss)
	assert.Equal(t, plain, hit)
	assert.Equal(t, 1, store.Len())

	var m map[string]any
	require.NoError(t, query().Remember(time.Minute).Fetch(&m))
	assert.Equal(t, map[string]any{"id": int64(1), "name": "alice", "email": "alice@example.com"}, m)

	set, err := query().Remember(time.Minute).FetchRecords()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email"}, set.Columns)
	assert.Equal(t, [][]any{{int64(1), "alice", "alice@example.com"}}, set.Rows)
	assert.Equal(t, 1, store.Len())
}

func TestRemember_MatchesUncachedRows(t *testing.T) {
	db := openTestDB(t, sqlchain.WithCache(cache.NewMemory(16)))

	query := func() *sqlchain.Builder {
		return db.Select().From("users").OrderByAsc("id")
	}

	var plain []user
	require.NoError(t, query().FetchAll(&plain))

	for i := 0; i < 2; i++ {
		var cached []*user
		require.NoError(t, query().Remember(time.Minute).FetchAll(&cached))
		require.Len(t, cached, len(plain))
		for j := range plain {
			assert.Equal(t, plain[j], *cached[j])
		}
		assert.Nil(t, cached[2].Status)
	}

	var count int64
	require.NoError(t, db.Select().From("users").Remember(time.Minute).FetchColumn(&count))
	assert.Equal(t, int64(1), count)

	n, err := query().Remember(time.Minute).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestRemember_KeepsValueTypes(t *testing.T) {
	db := openTestDB(t, sqlchain.WithCache(cache.NewMemory(4)))

	for i := 0; i < 2; i++ {
		var m map[string]any
		err := db.SelectRaw("9007199254740993 AS big, 1.5 AS ratio, 'x' AS label, NULL AS missing").
			Remember(time.Minute).
			Fetch(&m)
		require.NoError(t, err)
		assert.Equal(t, int64(9007199254740993), m["big"])
		assert.Equal(t, 1.5, m["ratio"])
		assert.Equal(t, "x", m["label"])
		assert.Nil(t, m["missing"])
	}

	var big int64
	require.NoError(t, db.SelectRaw("9007199254740993").Remember(time.Minute).FetchColumn(&big))
	require.NoError(t, db.SelectRaw("9007199254740993").Remember(time.Minute).FetchColumn(&big))
	assert.Equal(t, int64(9007199254740993), big)
}

func TestRemember_ConcurrentDestinations(t *testing.T) {
	db := openTestDB(t, sqlchain.WithCache(cache.NewMemory(16)))

	query := func() *sqlchain.Builder {
		return db.Select("id", "name").From("users").Where("id", "=", 2).Remember(time.Minute)
	}

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		if i%2 == 0 {
			g.Go(func() error {
				var u user
				if err := query().Fetch(&u); err != nil {
					return err
				}
				if u.Name != "bob" {
					return fmt.Errorf("struct name = %q", u.Name)
				}
				return nil
			})
			continue
		}
		g.Go(func() error {
			var m map[string]any
			if err := query().Fetch(&m); err != nil {
				return err
			}
			if m["name"] != "bob" {
				return fmt.Errorf("map = %v", m)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestRemember_WithoutStoreReadsThrough(t *testing.T) {
	db := openTestDB(t)

	var names []string
	err := db.Select("name").From("users").Where("id", "=", 1).Remember(time.Minute).FetchAll(&names)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, names)
	assert.NoError(t, db.Select().From("users").Forget(context.Background()))
}

func TestUpsertOnSQLite(t *testing.T) {
	db := openTestDB(t)

	_, err := db.InsertInto("users", "email", "name", "age").
		Values("alice@example.com", "alice2", 35).
		OnConflictUpdate([]string{"email"}).
		Execute()
	require.NoError(t, err)

	var u user
	require.NoError(t, db.Select().From("users").Where("email", "=", "alice@example.com").Fetch(&u))
	assert.Equal(t, "alice2", u.Name)
	assert.Equal(t, 35, u.Age)

	count, err := db.Select().From("users").Count()
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestReturningOnSQLite(t *testing.T) {
	db := openTestDB(t)

	var id int64
	err := db.InsertInto("users", "name", "email").
		Values("gina", "gina@example.com").
		Returning("id").
		FetchColumn(&id)
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)
}

func TestLoggerAndObservers(t *testing.T) {
	var logged, observed []string
	logger := sqlchain.LoggerFunc(func(query string, _ []any, _ time.Duration, _ error) {
		logged = append(logged, query)
	})
	observer := sqlchain.LoggerFunc(func(query string, _ []any, _ time.Duration, _ error) {
		observed = append(observed, query)
	})

	db := openTestDB(t, sqlchain.WithLogger(logger), sqlchain.WithObserver(observer))
	logged, observed = nil, nil

	var names []string
	require.NoError(t, db.Select("name").From("users").FetchAll(&names))
	assert.Empty(t, logged)
	assert.Len(t, observed, 1)

	_, err := db.Raw("SELECT * FROM missing_table").Execute()
	require.Error(t, err)
	assert.Equal(t, []string{"SELECT * FROM missing_table"}, logged)
	assert.Len(t, observed, 2)
}

func TestDebugLogsEveryStatement(t *testing.T) {
	var logged []string
	db := openTestDB(t, sqlchain.WithDebug(true), sqlchain.WithLogger(sqlchain.LoggerFunc(
		func(query string, _ []any, _ time.Duration, _ error) {
			logged = append(logged, query)
		})))
	logged = nil

	_, err := db.Select().From("users").Count()
	require.NoError(t, err)
	assert.Equal(t, []string{`SELECT COUNT(*) FROM (SELECT * FROM "users") AS sqlchain_sub`}, logged)
}
