// Package sqlchain provides a fluent statement-buffer query builder for Go.
//
// Each chained call appends a fragment of SQL to a buffer and returns the
// same Builder. Values are always bound as parameters; identifiers are
// validated and quoted by the active dialect. The buffer is finally run
// through database/sql with Execute, Fetch or FetchAll.
//
// # Quick Start
//
// Connect to a database and start building statements:
//
//	db, err := sqlchain.Connect("mysql", "user:pass@tcp(localhost:3306)/dbname")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// # Select Statements
//
//	var users []User
//	err := db.Select("id", "name", "email").
//	    From("users").
//	    Where("status", "=", "active").
//	    OrderByDesc("created_at").
//	    Limit(10).
//	    FetchAll(&users)
//
// # Where Clauses
//
// The first condition writes WHERE, later ones are joined with AND or OR:
//
//	b.Where("age", ">", 18)
//	b.OrWhere("role", "=", "admin")
//	b.WhereIn("status", []any{"active", "pending"})
//	b.WhereBetween("created_at", start, end)
//	b.WhereNull("deleted_at")
//	b.WhereGroup(func(q *sqlchain.Builder) {
//	    q.Where("a", "=", 1).OrWhere("b", "=", 2)
//	})
//
// # Insert, Update, Delete
//
//	res, err := db.InsertInto("users", "name", "email").
//	    Values("John", "john@example.com").
//	    Execute()
//
//	res, err = db.Update("users").
//	    Set("status", "inactive").
//	    Where("id", "=", 1).
//	    Execute()
//
//	res, err = db.DeleteFrom("users").
//	    Where("status", "=", "banned").
//	    Execute()
//
// # Transactions
//
//	err := db.Transaction(ctx, func(tx *sqlchain.Transaction) error {
//	    if _, err := tx.Update("accounts").Set("balance", sqlchain.NewRaw("balance - ?", 10)).
//	        Where("id", "=", 1).ExecuteContext(ctx); err != nil {
//	        return err
//	    }
//	    _, err := tx.Update("accounts").Set("balance", sqlchain.NewRaw("balance + ?", 10)).
//	        Where("id", "=", 2).ExecuteContext(ctx)
//	    return err
//	})
//
// # Security
//
// go-sqlchain protects against SQL injection through:
//   - Bound parameters for all values
//   - Identifier validation (table/column names)
//   - Operator whitelisting
//
// Raw fragments (Raw, WhereRaw, SelectRaw, NewRaw) are written verbatim and
// must never carry user input.
//
// # Thread Safety
//
// Builder instances are NOT thread-safe. DB is safe for concurrent use;
// create a new Builder for each goroutine or statement.
//
// # Supported Databases
//
//   - MySQL / MariaDB (go-sql-driver/mysql)
//   - PostgreSQL (lib/pq, pgx)
//   - SQLite (modernc.org/sqlite)
package sqlchain
