package sqlchain

import (
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for go-sqlchain.
// These errors can be checked using errors.Is().
var (
	// ErrInvalidIdentifier is returned when a table or column name contains invalid characters.
	ErrInvalidIdentifier = errors.New("sqlchain: invalid SQL identifier")

	// ErrInvalidOperator is returned when an unsupported SQL operator is used.
	ErrInvalidOperator = errors.New("sqlchain: invalid SQL operator")

	// ErrNoRows is returned when Fetch finds no row.
	ErrNoRows = errors.New("sqlchain: no rows in result set")

	// ErrNoExecutor is returned when a builder without a connection is executed.
	ErrNoExecutor = errors.New("sqlchain: builder has no executor")

	// ErrEmptyStatement is returned when an empty buffer is compiled.
	ErrEmptyStatement = errors.New("sqlchain: statement buffer is empty")

	// ErrNoColumns is returned when an insert/update has no columns.
	ErrNoColumns = errors.New("sqlchain: no columns specified")

	// ErrValueCount is returned when Values receives a different number of
	// values than InsertInto declared columns.
	ErrValueCount = errors.New("sqlchain: value count does not match column count")

	// ErrEmptyWhereIn is returned when WhereIn is called with an empty slice.
	ErrEmptyWhereIn = errors.New("sqlchain: empty slice passed to WhereIn")

	// ErrUnsupported is returned when the dialect cannot express a fragment.
	ErrUnsupported = errors.New("sqlchain: not supported by dialect")

	// ErrNilDestination is returned when a nil pointer is passed as scan destination.
	ErrNilDestination = errors.New("sqlchain: nil destination pointer")

	// ErrInvalidDestination is returned when the destination has an unsupported type.
	ErrInvalidDestination = errors.New("sqlchain: destination must be a pointer to struct, map, slice or scalar")

	// ErrTxClosed is returned when a committed or rolled back transaction is used.
	ErrTxClosed = errors.New("sqlchain: transaction already closed")

	// ErrNoResult is returned by QueryResult accessors when no driver result exists.
	ErrNoResult = errors.New("sqlchain: no driver result")
)

// QueryError wraps a driver error with the statement that caused it.
type QueryError struct {
	Op    string
	Query string
	Args  []any
	Err   error
}

func (e *QueryError) Error() string {
	return "sqlchain: " + e.Op + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError.
func NewQueryError(op, query string, args []any, err error) *QueryError {
	return &QueryError{
		Op:    op,
		Query: query,
		Args:  args,
		Err:   err,
	}
}

// ValidationError represents an identifier or operator rejected while a
// fragment was appended.
type ValidationError struct {
	Fragment string
	Err      error
}

func (e *ValidationError) Error() string {
	return "sqlchain: invalid " + e.Fragment + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the identifier and operator sentinels.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrInvalidIdentifier:
		return e.Fragment != "operator"
	case ErrInvalidOperator:
		return e.Fragment == "operator"
	}
	return false
}

// WrapError annotates err with the operation that failed. A nil err stays nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Op: op, Err: err}
}

// IsNoRows reports whether err means "no row matched", from this package or database/sql.
func IsNoRows(err error) bool {
	return errors.Is(err, ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// IsDuplicateKey reports whether err is a unique or primary key violation
// reported by one of the supported drivers.
func IsDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgerrcode.UniqueViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

// IsRetryable reports whether a statement that failed with err may succeed
// when sent again: broken connections, deadlocks, lock timeouts and
// serialization failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// 1205: lock wait timeout, 1213: deadlock
		return myErr.Number == 1205 || myErr.Number == 1213
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return retryablePgCode(string(pqErr.Code))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return retryablePgCode(pgErr.Code)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		primary := liteErr.Code() & 0xff
		return primary == sqlite3.SQLITE_BUSY || primary == sqlite3.SQLITE_LOCKED
	}

	return false
}

func retryablePgCode(code string) bool {
	return pgerrcode.IsTransactionRollback(code) ||
		pgerrcode.IsConnectionException(code) ||
		code == pgerrcode.LockNotAvailable
}
