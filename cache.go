package sqlchain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/gob"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/biyonik/go-sqlchain/cache"
)

// cacheKeyPrefix, önbellek anahtarlarının ortak önekidir.
const cacheKeyPrefix = "sqlchain:"

func init() {
	// gob temel tipleri kendisi kaydeder; sürücülerin döndürdüğü diğerleri burada.
	gob.Register(time.Time{})
}

// resultCache, Remember ile işaretlenmiş okumaların ham satırlarını bir
// cache.Store üzerinde saklar. Hedef tipinden bağımsızdır: aynı ifade struct,
// map veya RecordSet hedefe aynı kayıtlardan taranır.
// Aynı anahtar için eşzamanlı dolumlar singleflight ile tek sorguya indirilir.
type resultCache struct {
	store cache.Store
	group singleflight.Group
}

func newResultCache(store cache.Store) *resultCache {
	return &resultCache{store: store}
}

// key, derlenmiş SQL ve argümanlardan kararlı bir anahtar üretir.
func (c *resultCache) key(query string, args []any) string {
	h := xxhash.New()
	_, _ = h.WriteString(query)
	for _, a := range args {
		_, _ = fmt.Fprintf(h, "\x00%T:%v", a, a)
	}
	return cacheKeyPrefix + strconv.FormatUint(h.Sum64(), 16)
}

// load, kayıtları önbellekten okur; yoksa fill ile veritabanından okuyup saklar.
// Depo ve kodlama hataları ıska sayılır, okuma veritabanından devam eder.
func (c *resultCache) load(ctx context.Context, key string, ttl time.Duration, fill func() (*RecordSet, error)) (*RecordSet, error) {
	if data, ok, err := c.store.Get(ctx, key); err == nil && ok {
		if set, err := decodeRecords(data); err == nil {
			return set, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		set, err := fill()
		if err != nil {
			return nil, err
		}
		if data, err := encodeRecords(set); err == nil {
			_ = c.store.Set(ctx, key, data, ttl)
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RecordSet), nil
}

func (c *resultCache) forget(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

func encodeRecords(set *RecordSet) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(set); err != nil {
		return nil, WrapError("encode cached result", err)
	}
	return buf.Bytes(), nil
}

func decodeRecords(data []byte) (*RecordSet, error) {
	set := &RecordSet{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(set); err != nil {
		return nil, WrapError("decode cached result", err)
	}
	return set, nil
}

// ----------------------------------------------------------------------------
// Kayıtların yeniden oynatılması
// ----------------------------------------------------------------------------

// replay, kümeyi Scanner'ın okuyabileceği bir Rows olarak döndürür.
func (r *RecordSet) replay() Rows {
	return &recordRows{set: r}
}

// recordRows, bellekteki bir RecordSet'i *sql.Rows gibi dolaşır.
type recordRows struct {
	set *RecordSet
	pos int
}

func (r *recordRows) Columns() ([]string, error) { return r.set.Columns, nil }

func (r *recordRows) Next() bool {
	if r.pos >= len(r.set.Rows) {
		return false
	}
	r.pos++
	return true
}

func (r *recordRows) Scan(dest ...any) error {
	if r.pos == 0 {
		return errors.New("sqlchain: Scan called without calling Next")
	}
	row := r.set.Rows[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("sqlchain: expected %d destination arguments in Scan, not %d", len(row), len(dest))
	}
	for i, src := range row {
		if err := assign(dest[i], src); err != nil {
			return fmt.Errorf("sqlchain: converting column index %d, name %q: %w", i, r.set.Columns[i], err)
		}
	}
	return nil
}

func (r *recordRows) Err() error { return nil }

func (r *recordRows) Close() error { return nil }

// assign, src değerini dest pointer'ına database/sql'in Scan kurallarıyla yazar.
func assign(dest, src any) error {
	switch d := dest.(type) {
	case *any:
		if b, ok := src.([]byte); ok {
			src = bytes.Clone(b)
		}
		*d = src
		return nil
	case sql.Scanner:
		return d.Scan(src)
	}

	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return ErrInvalidDestination
	}
	return assignValue(dv.Elem(), src)
}

func assignValue(dv reflect.Value, src any) error {
	if src == nil {
		switch dv.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
			dv.SetZero()
			return nil
		}
		return fmt.Errorf("converting NULL to %s is unsupported", dv.Type())
	}

	switch dv.Kind() {
	case reflect.Ptr:
		elem := reflect.New(dv.Type().Elem())
		if err := assign(elem.Interface(), src); err != nil {
			return err
		}
		dv.Set(elem)
		return nil
	case reflect.Interface:
		dv.Set(reflect.ValueOf(src))
		return nil
	}

	if b, ok := src.([]byte); ok && dv.Kind() == reflect.Slice && dv.Type().Elem().Kind() == reflect.Uint8 {
		dv.SetBytes(bytes.Clone(b))
		return nil
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dv.Type()) {
		dv.Set(sv)
		return nil
	}

	switch dv.Kind() {
	case reflect.String:
		if t, ok := src.(time.Time); ok {
			dv.SetString(t.Format(time.RFC3339Nano))
			return nil
		}
		dv.SetString(asString(src))
		return nil
	case reflect.Slice:
		if s, ok := src.(string); ok && dv.Type().Elem().Kind() == reflect.Uint8 {
			dv.SetBytes([]byte(s))
			return nil
		}
	case reflect.Bool:
		v, err := driver.Bool.ConvertValue(src)
		if err != nil {
			return err
		}
		dv.SetBool(v.(bool))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(asString(src), 10, dv.Type().Bits())
		if err != nil {
			return fmt.Errorf("converting %T to %s: %w", src, dv.Type(), err)
		}
		dv.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(asString(src), 10, dv.Type().Bits())
		if err != nil {
			return fmt.Errorf("converting %T to %s: %w", src, dv.Type(), err)
		}
		dv.SetUint(u)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(asString(src), dv.Type().Bits())
		if err != nil {
			return fmt.Errorf("converting %T to %s: %w", src, dv.Type(), err)
		}
		dv.SetFloat(f)
		return nil
	}

	if sv.Type().ConvertibleTo(dv.Type()) && sv.Kind() == dv.Kind() {
		dv.Set(sv.Convert(dv.Type()))
		return nil
	}
	return fmt.Errorf("unsupported Scan, storing %T into %s", src, dv.Type())
}

func asString(src any) string {
	switch v := src.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprintf("%v", src)
}
