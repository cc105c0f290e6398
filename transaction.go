package sqlchain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/biyonik/go-sqlchain/internal/validation"
)

// -----------------------------------------------------------------------------
//  Transaction Yapısı
//
//  Aynı *sql.Tx üzerinde art arda ifade yürütmeyi, Commit/Rollback ile işlemi
//  sonlandırmayı ve Savepoint/RollbackTo ile kısmi geri dönüşü sağlar.
//
//  Transaction içindeki ifadeler loglanır ve gözlemcilere iletilir, ancak
//  tekrar denenmez ve önbelleğe alınmaz.
//
//  Aynı transaction birden çok goroutine tarafından kullanılmamalıdır.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
// -----------------------------------------------------------------------------

// Transaction struct'ı bir SQL transaction’ı temsil eder.
type Transaction struct {
	tx   *sql.Tx
	exec *instrumented
	settings

	mu     sync.Mutex
	closed bool
}

func newTransaction(tx *sql.Tx, s settings) *Transaction {
	t := &Transaction{tx: tx, settings: s}
	t.exec = s.instrument(tx, nil)
	return t
}

// Query, transaction kapsamında boş bir Builder döndürür.
//
//	tx, _ := db.Begin()
//	_, err := tx.Update("users").Set("status", "banned").Where("id", "=", 1).Execute()
func (t *Transaction) Query() *Builder {
	return t.builder(t, nil)
}

// Select, transaction kapsamında "SELECT ..." ile başlayan bir Builder döndürür.
func (t *Transaction) Select(columns ...string) *Builder {
	return t.Query().Select(columns...)
}

// SelectDistinct, "SELECT DISTINCT ..." ile başlayan bir Builder döndürür.
func (t *Transaction) SelectDistinct(columns ...string) *Builder {
	return t.Query().SelectDistinct(columns...)
}

// SelectRaw, ham select ifadesiyle başlayan bir Builder döndürür.
func (t *Transaction) SelectRaw(expr string, bindings ...any) *Builder {
	return t.Query().SelectRaw(expr, bindings...)
}

// InsertInto, "INSERT INTO ..." ile başlayan bir Builder döndürür.
func (t *Transaction) InsertInto(table string, columns ...string) *Builder {
	return t.Query().InsertInto(table, columns...)
}

// Update, "UPDATE ..." ile başlayan bir Builder döndürür.
func (t *Transaction) Update(table string) *Builder {
	return t.Query().Update(table)
}

// DeleteFrom, "DELETE FROM ..." ile başlayan bir Builder döndürür.
func (t *Transaction) DeleteFrom(table string) *Builder {
	return t.Query().DeleteFrom(table)
}

// Raw, ham parçayla başlayan bir Builder döndürür.
func (t *Transaction) Raw(fragment string, bindings ...any) *Builder {
	return t.Query().Raw(fragment, bindings...)
}

// Commit metodu, yapılan tüm işlemleri kalıcı hale getirir. İkinci çağrı ErrTxClosed döner.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}

	t.closed = true
	if err := t.tx.Commit(); err != nil {
		return WrapError("commit transaction", err)
	}
	return nil
}

// Rollback metodu tüm değişiklikleri geri alır. Tekrar tekrar çağrılabilir (idempotent).
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return WrapError("rollback transaction", err)
	}
	return nil
}

// IsClosed transaction'ın commit ya da rollback sonrası kapanıp kapanmadığını bildirir.
func (t *Transaction) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Transaction) checkOpen() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTxClosed
	}
	return nil
}

// ExecContext, Builder kullanmadan ham SQL çalıştırır.
func (t *Transaction) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.exec.ExecContext(ctx, query, args...)
}

// QueryContext, satır döndüren ham SQL çalıştırır.
func (t *Transaction) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.exec.QueryContext(ctx, query, args...)
}

// QueryRowContext tek satır dönen sorgular içindir. Kapalı transaction'da
// dönen satırın Scan çağrısı sql.ErrTxDone verir.
func (t *Transaction) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.exec.QueryRowContext(ctx, query, args...)
}

// Savepoint, geri dönülebilecek bir nokta oluşturur.
func (t *Transaction) Savepoint(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "SAVEPOINT ", "create savepoint", name)
}

// RollbackTo, transaction'ı tamamen geri almadan belirtilen savepoint'e döner.
func (t *Transaction) RollbackTo(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "ROLLBACK TO SAVEPOINT ", "rollback to savepoint", name)
}

// ReleaseSavepoint, savepoint'i serbest bırakır. Transaction bitmez.
func (t *Transaction) ReleaseSavepoint(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "RELEASE SAVEPOINT ", "release savepoint", name)
}

func (t *Transaction) savepointExec(ctx context.Context, stmt, op, name string) error {
	if err := validation.ValidateSavepoint(name); err != nil {
		return &ValidationError{Fragment: "savepoint", Err: err}
	}
	quoted, err := t.dialect.Quote(name)
	if err != nil {
		return &ValidationError{Fragment: "savepoint", Err: err}
	}

	if _, err := t.ExecContext(ctx, stmt+quoted); err != nil {
		if errors.Is(err, ErrTxClosed) {
			return err
		}
		return WrapError(op, err)
	}
	return nil
}

// Nested, fn'i otomatik adlandırılmış bir savepoint içinde çalıştırır.
// fn hata dönerse ya da panic olursa savepoint'e geri dönülür; transaction açık kalır.
func (t *Transaction) Nested(ctx context.Context, fn func(*Transaction) error) error {
	name := "sp_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	if err := t.Savepoint(ctx, name); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = t.RollbackTo(ctx, name)
			panic(p)
		}
	}()

	if err := fn(t); err != nil {
		if rbErr := t.RollbackTo(ctx, name); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return t.ReleaseSavepoint(ctx, name)
}

// Tx, alttaki *sql.Tx referansına doğrudan erişim sağlar.
func (t *Transaction) Tx() *sql.Tx {
	return t.tx
}
