package sqlchain

import (
	"database/sql"
	"time"
)

/*
 * ----------------------------------------------------------------------------
 * SQLCHAIN TYPE DEFINITIONS
 * ----------------------------------------------------------------------------
 *
 * Bu dosya, tampon (buffer) üzerinde biriken ifadenin çalıştırılmasından sonra
 * geri dönen değerleri taşıyan tipleri içerir:
 *
 * 1. QueryResult: ham `sql.Result` nesnesini nil güvenli erişimle sarar.
 * 2. RecordSet: kolon sırasını koruyan ham satır kümesi (CLI ve map çıktıları için).
 * 3. Pagination: Paginate çağrısının meta verisi.
 * 4. Logger: her ifadenin süresini ve hatasını gözlemleyen arayüz.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * ----------------------------------------------------------------------------
 */

// ----------------------------------------------------------------------------
// Query Result Types
// ----------------------------------------------------------------------------

// QueryResult, INSERT, UPDATE veya DELETE sonrasında sürücüden dönen yanıtı sarar.
type QueryResult struct {
	result sql.Result
}

// NewQueryResult, ham `sql.Result` nesnesinden bir QueryResult üretir.
func NewQueryResult(result sql.Result) *QueryResult {
	return &QueryResult{result: result}
}

// LastInsertID, son eklenen kaydın kimliğini döndürür.
//
// PostgreSQL sürücüleri bunu desteklemez; orada Returning("id") ile Fetch kullanılır.
func (r *QueryResult) LastInsertID() (int64, error) {
	if r == nil || r.result == nil {
		return 0, ErrNoResult
	}
	return r.result.LastInsertId()
}

// RowsAffected, ifadeden etkilenen satır sayısını döndürür.
func (r *QueryResult) RowsAffected() (int64, error) {
	if r == nil || r.result == nil {
		return 0, ErrNoResult
	}
	return r.result.RowsAffected()
}

// ----------------------------------------------------------------------------
// Record Set
// ----------------------------------------------------------------------------

// RecordSet, kolon sırasını koruyarak okunan satırlardır.
// []byte değerler okunurken string'e çevrilir.
type RecordSet struct {
	Columns []string
	Rows    [][]any
}

// Len, satır sayısını döndürür.
func (r *RecordSet) Len() int {
	return len(r.Rows)
}

// Maps, her satırı kolon adı → değer eşlemesine çevirir.
func (r *RecordSet) Maps() []map[string]any {
	out := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		m := make(map[string]any, len(r.Columns))
		for j, col := range r.Columns {
			m[col] = row[j]
		}
		out[i] = m
	}
	return out
}

// ----------------------------------------------------------------------------
// Pagination Types
// ----------------------------------------------------------------------------

// Pagination, sayfalı okumaların meta verisidir.
type Pagination struct {
	Page       int   `json:"page" yaml:"page"`
	PerPage    int   `json:"per_page" yaml:"per_page"`
	Total      int64 `json:"total" yaml:"total"`
	TotalPages int   `json:"total_pages" yaml:"total_pages"`
	HasMore    bool  `json:"has_more" yaml:"has_more"`
}

// DefaultPerPage, perPage verilmediğinde kullanılan sayfa boyutudur.
const DefaultPerPage = 15

// NewPagination, ham parametrelerden Pagination üretir. Geçersiz sayfa 1'e,
// geçersiz sayfa boyutu DefaultPerPage'e çekilir.
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	totalPages := int(total / int64(perPage))
	if total%int64(perPage) > 0 {
		totalPages++
	}

	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// Offset, sayfanın başlangıç satırını hesaplar: (page-1) * perPage.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasPrev, önceki sayfanın olup olmadığını bildirir.
func (p *Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext, sonraki sayfanın olup olmadığını bildirir.
func (p *Pagination) HasNext() bool {
	return p.HasMore
}

// ----------------------------------------------------------------------------
// Logger Interface
// ----------------------------------------------------------------------------

// Logger, çalıştırılan her ifadeyi, argümanlarını, süresini ve hatasını alır.
// metrics.Collector da aynı imzayı taşıdığı için WithObserver ile bağlanabilir.
type Logger interface {
	Log(query string, args []any, duration time.Duration, err error)
}

// NopLogger, tüm kayıtları yutar.
type NopLogger struct{}

// Log, hiçbir şey yapmaz.
func (NopLogger) Log(string, []any, time.Duration, error) {}

// LoggerFunc, sıradan bir fonksiyonu Logger'a çevirir.
type LoggerFunc func(query string, args []any, duration time.Duration, err error)

// Log, f'yi çağırır.
func (f LoggerFunc) Log(query string, args []any, duration time.Duration, err error) {
	f(query, args, duration, err)
}
