package sqlchain

import (
	"database/sql"
	"reflect"

	"github.com/iancoleman/strcase"
	"github.com/jmoiron/sqlx/reflectx"
)

//
// =====================================================================================
// SQLCHAIN – SCANNER BİRİMİ
// -------------------------------------------------------------------------------------
// Tampondaki ifade çalıştırıldıktan sonra dönen satırları Go değerlerine aktarır.
//
// Çalışma biçimi:
//   1. Kolon adları sqlx/reflectx ile struct alanlarına eşlenir
//   2. `db:"column"` etiketi yoksa alan adı snake_case'e çevrilir (CreatedAt → created_at)
//   3. Gömülü struct'lar düzleştirilir, eşleşmeyen kolonlar yok sayılır
//   4. Struct dışında map[string]any ve tekil (scalar) hedefler de desteklenir
//
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// =====================================================================================
//

// Rows, tarayıcının okuduğu satır kaynağıdır. *sql.Rows bu arayüzü karşılar;
// önbellekten gelen sonuçlar da aynı arayüz üzerinden yeniden oynatılır.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

var _ Rows = (*sql.Rows)(nil)

// Scanner, Rows içeriğini hedef değere aktaran sözleşmedir.
type Scanner interface {
	// ScanOne, ilk satırı dest'e yazar. Satır yoksa ErrNoRows döner.
	ScanOne(rows Rows, dest any) error

	// ScanAll, tüm satırları dest'in gösterdiği slice'a yazar.
	ScanAll(rows Rows, dest any) error
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// DefaultScanner, reflectx tabanlı varsayılan tarayıcıdır.
// Mapper tip bilgisini kendi içinde önbelleğe aldığı için eşzamanlı kullanım güvenlidir.
type DefaultScanner struct {
	mapper *reflectx.Mapper
}

// NewDefaultScanner, "db" etiketini ve snake_case isimlendirmeyi kullanan bir scanner döndürür.
func NewDefaultScanner() *DefaultScanner {
	return &DefaultScanner{mapper: reflectx.NewMapperFunc("db", strcase.ToSnake)}
}

// NewScannerWithMapper, özel bir reflectx.Mapper ile scanner oluşturur.
func NewScannerWithMapper(m *reflectx.Mapper) *DefaultScanner {
	return &DefaultScanner{mapper: m}
}

// ScanOne, ilk satırı *struct, *map[string]any veya *scalar hedefe işler.
func (s *DefaultScanner) ScanOne(rows Rows, dest any) error {
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

	if err := s.scanRow(rows, columns, target); err != nil {
		return err
	}
	return WrapError("close rows", rows.Close())
}

// ScanAll, satırları *[]T, *[]*T, *[]map[string]any veya *[]scalar hedefe işler.
// Hedef slice önce boşaltılır; satır yoksa boş (nil olmayan) slice kalır.
func (s *DefaultScanner) ScanAll(rows Rows, dest any) error {
	defer rows.Close()

	target, err := destination(dest)
	if err != nil {
		return err
	}
	if target.Kind() != reflect.Slice {
		return ErrInvalidDestination
	}

	sliceType := target.Type()
	elemType := sliceType.Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}

	columns, err := rows.Columns()
	if err != nil {
		return WrapError("get columns", err)
	}

	out := reflect.MakeSlice(sliceType, 0, 0)
	for rows.Next() {
		elem := reflect.New(elemType)
		if err := s.scanRow(rows, columns, elem.Elem()); err != nil {
			return err
		}
		if isPtr {
			out = reflect.Append(out, elem)
		} else {
			out = reflect.Append(out, elem.Elem())
		}
	}
	if err := rows.Err(); err != nil {
		return WrapError("rows iteration", err)
	}

	target.Set(out)
	return nil
}

// scanRow, geçerli satırı target'a yazar. target adreslenebilir olmalıdır.
func (s *DefaultScanner) scanRow(rows Rows, columns []string, target reflect.Value) error {
	switch {
	case target.Kind() == reflect.Map:
		return scanMap(rows, columns, target)
	case s.scannable(target.Type()):
		return scanScalar(rows, columns, target)
	default:
		return s.scanStruct(rows, columns, target)
	}
}

// scannable, tipin tek kolon olarak taranıp taranmayacağını söyler.
// sql.Scanner uygulayanlar ve dışa açık alanı olmayan struct'lar (time.Time) tekil sayılır.
func (s *DefaultScanner) scannable(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(scannerType) {
		return true
	}
	if t.Kind() != reflect.Struct {
		return true
	}
	return len(s.mapper.TypeMap(t).Index) == 0
}

func (s *DefaultScanner) scanStruct(rows Rows, columns []string, target reflect.Value) error {
	traversals := s.mapper.TraversalsByName(target.Type(), columns)

	dests := make([]any, len(columns))
	for i, index := range traversals {
		if len(index) == 0 {
			dests[i] = new(any)
			continue
		}
		dests[i] = reflectx.FieldByIndexes(target, index).Addr().Interface()
	}

	if err := rows.Scan(dests...); err != nil {
		return WrapError("scan row", err)
	}
	return nil
}

func scanMap(rows Rows, columns []string, target reflect.Value) error {
	if target.Type().Key().Kind() != reflect.String || target.Type().Elem().Kind() != reflect.Interface {
		return ErrInvalidDestination
	}

	values, err := scanValues(rows, len(columns))
	if err != nil {
		return err
	}

	if target.IsNil() {
		target.Set(reflect.MakeMapWithSize(target.Type(), len(columns)))
	}
	for i, col := range columns {
		v := reflect.Zero(target.Type().Elem())
		if values[i] != nil {
			v = reflect.ValueOf(values[i])
		}
		target.SetMapIndex(reflect.ValueOf(col), v)
	}
	return nil
}

// scanScalar, ilk kolonu target'a yazar; kalan kolonlar atılır.
func scanScalar(rows Rows, columns []string, target reflect.Value) error {
	if len(columns) == 0 {
		return ErrInvalidDestination
	}
	dests := make([]any, len(columns))
	dests[0] = target.Addr().Interface()
	for i := 1; i < len(dests); i++ {
		dests[i] = new(any)
	}

	if err := rows.Scan(dests...); err != nil {
		return WrapError("scan value", err)
	}
	return nil
}

// scanValues, satırı []any olarak okur; []byte değerleri string'e çevrilir.
func scanValues(rows Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, WrapError("scan row", err)
	}

	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

// scanRecords, kolon sırasını koruyarak tüm satırları okur.
func scanRecords(rows Rows) (*RecordSet, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapError("get columns", err)
	}

	set := &RecordSet{Columns: columns, Rows: make([][]any, 0)}
	for rows.Next() {
		values, err := scanValues(rows, len(columns))
		if err != nil {
			return nil, err
		}
		set.Rows = append(set.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError("rows iteration", err)
	}
	return set, nil
}

// destination, dest'in nil olmayan bir pointer olduğunu doğrular ve gösterdiği değeri döndürür.
func destination(dest any) (reflect.Value, error) {
	if dest == nil {
		return reflect.Value{}, ErrNilDestination
	}
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr {
		return reflect.Value{}, ErrInvalidDestination
	}
	if v.IsNil() {
		return reflect.Value{}, ErrNilDestination
	}
	return v.Elem(), nil
}
