package sqlchain

import (
	"context"
	"errors"
	"time"
)

// errAlreadyLimited, LIMIT/OFFSET içeren bir ifadeye Paginate uygulandığında döner.
var errAlreadyLimited = errors.New("sqlchain: paginate requires a statement without LIMIT or OFFSET")

// prepare, ifadeyi çalıştırmaya hazır hale getirir.
func (b *Builder) prepare() (string, []any, error) {
	if b.executor == nil {
		return "", nil, ErrNoExecutor
	}
	return b.SQL()
}

// ----------------------------------------------------------------------------
// Execute
// ----------------------------------------------------------------------------

// ExecuteContext, satır döndürmeyen ifadeyi (INSERT, UPDATE, DELETE, DDL) çalıştırır.
func (b *Builder) ExecuteContext(ctx context.Context) (*QueryResult, error) {
	query, args, err := b.prepare()
	if err != nil {
		return nil, err
	}

	res, err := b.executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, NewQueryError("execute", query, args, err)
	}
	return NewQueryResult(res), nil
}

// Execute, context.Background() ile ExecuteContext çağırır.
func (b *Builder) Execute() (*QueryResult, error) {
	return b.ExecuteContext(context.Background())
}

// ----------------------------------------------------------------------------
// Okumalar
// ----------------------------------------------------------------------------

// read, ifadeyi çalıştırıp scan ile dest'i doldurur. Remember ile işaretlenmiş
// ve önbellek bağlıysa ham satırlar önbellekten gelir ve aynı scan ile taranır.
func (b *Builder) read(ctx context.Context, op string, dest any, scan func(Rows, any) error) error {
	query, args, err := b.prepare()
	if err != nil {
		return err
	}
	if _, err := destination(dest); err != nil {
		return err
	}

	if b.cache != nil && b.ttl > 0 {
		set, err := b.cache.load(ctx, b.cache.key(query, args), b.ttl, func() (*RecordSet, error) {
			rows, err := b.executor.QueryContext(ctx, query, args...)
			if err != nil {
				return nil, NewQueryError(op, query, args, err)
			}
			return scanRecords(rows)
		})
		if err != nil {
			return err
		}
		return scan(set.replay(), dest)
	}

	rows, err := b.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return NewQueryError(op, query, args, err)
	}
	defer rows.Close()
	return scan(rows, dest)
}

// FetchContext, ilk satırı *struct, *map[string]any veya *scalar hedefe yazar.
// Satır yoksa ErrNoRows döner.
func (b *Builder) FetchContext(ctx context.Context, dest any) error {
	return b.read(ctx, "fetch", dest, b.scanner.ScanOne)
}

// Fetch, context.Background() ile FetchContext çağırır.
func (b *Builder) Fetch(dest any) error {
	return b.FetchContext(context.Background(), dest)
}

// FetchAllContext, tüm satırları *[]T, *[]*T, *[]map[string]any veya *[]scalar hedefe yazar.
func (b *Builder) FetchAllContext(ctx context.Context, dest any) error {
	return b.read(ctx, "fetch all", dest, b.scanner.ScanAll)
}

// FetchAll, context.Background() ile FetchAllContext çağırır.
func (b *Builder) FetchAll(dest any) error {
	return b.FetchAllContext(context.Background(), dest)
}

// FetchColumnContext, ilk satırın ilk kolonunu dest'e yazar.
func (b *Builder) FetchColumnContext(ctx context.Context, dest any) error {
	return b.read(ctx, "fetch column", dest, scanColumn)
}

// FetchColumn, context.Background() ile FetchColumnContext çağırır.
func (b *Builder) FetchColumn(dest any) error {
	return b.FetchColumnContext(context.Background(), dest)
}

// FetchRecordsContext, satırları kolon sırasını koruyarak döndürür.
func (b *Builder) FetchRecordsContext(ctx context.Context) (*RecordSet, error) {
	set := &RecordSet{}
	err := b.read(ctx, "fetch records", set, func(rows Rows, dest any) error {
		out, err := scanRecords(rows)
		if err != nil {
			return err
		}
		*dest.(*RecordSet) = *out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// FetchRecords, context.Background() ile FetchRecordsContext çağırır.
func (b *Builder) FetchRecords() (*RecordSet, error) {
	return b.FetchRecordsContext(context.Background())
}

// FetchAllMapsContext, her satırı kolon adı → değer eşlemesi olarak döndürür.
func (b *Builder) FetchAllMapsContext(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := b.FetchAllContext(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAllMaps, context.Background() ile FetchAllMapsContext çağırır.
func (b *Builder) FetchAllMaps() ([]map[string]any, error) {
	return b.FetchAllMapsContext(context.Background())
}

// ----------------------------------------------------------------------------
// Sarmalayan okumalar
// ----------------------------------------------------------------------------

// wrap, tampon içeriğini prefix ve suffix arasına alan bir kopya döndürür.
func (b *Builder) wrap(prefix, suffix string) *Builder {
	c := b.Clone()
	c.buf.Reset()
	c.write(prefix, b.buf.String(), suffix)
	return c
}

// CountContext, ifadenin döndüreceği satır sayısını hesaplar:
// SELECT COUNT(*) FROM (<ifade>) AS sqlchain_sub
func (b *Builder) CountContext(ctx context.Context) (int64, error) {
	var n int64
	if err := b.wrap("SELECT COUNT(*) FROM (", ") AS sqlchain_sub").FetchColumnContext(ctx, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Count, context.Background() ile CountContext çağırır.
func (b *Builder) Count() (int64, error) {
	return b.CountContext(context.Background())
}

// ExistsContext, ifadenin en az bir satır döndürüp döndürmediğini söyler:
// SELECT EXISTS(<ifade>)
func (b *Builder) ExistsContext(ctx context.Context) (bool, error) {
	var ok bool
	if err := b.wrap("SELECT EXISTS(", ")").FetchColumnContext(ctx, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Exists, context.Background() ile ExistsContext çağırır.
func (b *Builder) Exists() (bool, error) {
	return b.ExistsContext(context.Background())
}

// PaginateContext, önce toplam satırı sayar, ardından istenen sayfayı
// LIMIT/OFFSET ekleyerek dest'e yazar. Builder'ın kendisi değişmez.
func (b *Builder) PaginateContext(ctx context.Context, page, perPage int, dest any) (*Pagination, error) {
	if b.limited || b.offset {
		return nil, errAlreadyLimited
	}

	total, err := b.CountContext(ctx)
	if err != nil {
		return nil, err
	}

	p := NewPagination(page, perPage, total)
	if err := b.Clone().Limit(p.PerPage).Offset(p.Offset()).FetchAllContext(ctx, dest); err != nil {
		return nil, err
	}
	return p, nil
}

// Paginate, context.Background() ile PaginateContext çağırır.
func (b *Builder) Paginate(page, perPage int, dest any) (*Pagination, error) {
	return b.PaginateContext(context.Background(), page, perPage, dest)
}

// ----------------------------------------------------------------------------
// Önbellek
// ----------------------------------------------------------------------------

// Remember, bu Builder'ın okumalarını ttl süresince önbellekte tutar.
// DB'ye WithCache ile bir depo bağlanmamışsa etkisizdir.
//
//	n, err := db.Select().From("users").Remember(time.Minute).Count()
func (b *Builder) Remember(ttl time.Duration) *Builder {
	b.ttl = ttl
	return b
}

// Forget, ifadenin önbellekteki sonucunu siler. Count ve Exists sonuçları
// ayrı anahtarlarda tutulur ve bu çağrıdan etkilenmez.
func (b *Builder) Forget(ctx context.Context) error {
	if b.cache == nil {
		return nil
	}
	query, args, err := b.SQL()
	if err != nil {
		return err
	}
	return WrapError("forget", b.cache.forget(ctx, b.cache.key(query, args)))
}

// scanColumn, ilk satırın ilk kolonunu dest'e yazar.
func scanColumn(rows Rows, dest any) error {
	defer rows.Close()

	target, err := destination(dest)
	if err != nil {
		return err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return WrapError("rows iteration", err)
		}
		return ErrNoRows
	}

	columns, err := rows.Columns()
	if err != nil {
		return WrapError("get columns", err)
	}
	if err := scanScalar(rows, columns, target); err != nil {
		return err
	}
	return WrapError("close rows", rows.Close())
}
