package sqlchain

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/biyonik/go-sqlchain/dialect"
	"github.com/biyonik/go-sqlchain/internal/validation"
)

// section, tamponun en son hangi cümlecikte kaldığını tutar. Aynı cümleciğe
// tekrar yazılırken anahtar kelime yerine ayraç (AND, OR, ", ") eklenir.
type section int

const (
	sectionNone section = iota
	sectionSelect
	sectionJoin
	sectionWhere
	sectionGroup
	sectionHaving
	sectionOrder
	sectionSet
	sectionValues
)

// Builder, SQL ifadesini zincirli çağrılarla parça parça bir tampona (buffer) yazar.
//
// Her metot tampona bir SQL parçası ekler ve aynı Builder'ı döndürür. Değerler
// hiçbir zaman metne gömülmez; "?" yer tutucusu yazılır ve değer args listesine
// eklenir. Tanımlayıcılar dialect tarafından doğrulanıp tırnaklanır.
//
// Geçersiz ilk girdi Err() içinde saklanır; sonraki parçalar yazılmaya devam
// eder ancak ifade çalıştırılmaz.
//
// Builder örnekleri **concurrent-safe** değildir; paralel kullanımlar için Clone() ile çoğaltılmalıdır.
//
// Genel kullanım örneği:
//
//	var users []User
//	err := db.Select("id", "name", "email").
//	    From("users").
//	    Where("status", "=", "active").
//	    OrderByDesc("created_at").
//	    Limit(10).
//	    FetchAll(&users)
//
// @author Ahmet ALTUN
// @github github.com/biyonik
type Builder struct {
	executor QueryExecutor
	dialect  dialect.Dialect
	scanner  Scanner
	prefix   string
	cache    *resultCache
	ttl      time.Duration

	buf  strings.Builder
	args []any

	section    section
	conditions int
	limited    bool
	offset     bool

	// INSERT INTO ile bildirilen kolonlar; Values sayım kontrolü ve upsert için.
	insertColumns []string

	err error
}

// NewBuilder, belirtilen executor, dialect ve scanner ile boş bir Builder oluşturur.
// executor nil olabilir; bu durumda yalnızca SQL üretilebilir.
func NewBuilder(executor QueryExecutor, d dialect.Dialect, scanner Scanner) *Builder {
	if d == nil {
		d = dialect.MySQL()
	}
	if scanner == nil {
		scanner = NewDefaultScanner()
	}
	return &Builder{
		executor: executor,
		dialect:  d,
		scanner:  scanner,
	}
}

// ----------------------------------------------------------------------------
// Tampon yardımcıları
// ----------------------------------------------------------------------------

// fail, ilk hatayı saklar. Doğrulama hataları ValidationError ile sarılır.
func (b *Builder) fail(fragment string, err error) {
	if err == nil || b.err != nil {
		return
	}

	var idErr *validation.IdentifierError
	var opErr *validation.OperatorError
	switch {
	case errors.As(err, &opErr):
		b.err = &ValidationError{Fragment: "operator", Err: err}
	case errors.As(err, &idErr):
		b.err = &ValidationError{Fragment: fragment, Err: err}
	case errors.Is(err, dialect.ErrNoColumns):
		b.err = ErrNoColumns
	default:
		b.err = err
	}
}

func (b *Builder) write(parts ...string) {
	for _, p := range parts {
		b.buf.WriteString(p)
	}
}

// bind, değeri yer tutucu olarak yazar. Raw değerler metne olduğu gibi girer.
func (b *Builder) bind(value any) {
	switch v := value.(type) {
	case Raw:
		b.buf.WriteString(v.SQL)
		b.args = append(b.args, v.Bindings...)
	case *Raw:
		b.buf.WriteString(v.SQL)
		b.args = append(b.args, v.Bindings...)
	default:
		b.buf.WriteByte('?')
		b.args = append(b.args, value)
	}
}

func (b *Builder) bindList(values []any) {
	for i, v := range values {
		if i > 0 {
			b.buf.WriteString(", ")
		}
		b.bind(v)
	}
}

func (b *Builder) quote(column string) (string, bool) {
	q, err := b.dialect.Quote(column)
	if err != nil {
		b.fail("column", err)
		return "", false
	}
	return q, true
}

func (b *Builder) quoteList(columns []string) (string, bool) {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		q, ok := b.quote(col)
		if !ok {
			return "", false
		}
		quoted[i] = q
	}
	return strings.Join(quoted, ", "), true
}

func (b *Builder) quoteTable(table string) (string, bool) {
	q, err := b.dialect.QuoteTable(b.prefix + strings.TrimSpace(table))
	if err != nil {
		b.fail("table", err)
		return "", false
	}
	return q, true
}

// open, bir cümleciğe giriş yapar: ilk çağrıda keyword, sonrakilerde sep yazılır.
func (b *Builder) open(s section, keyword, sep string) {
	if b.section == s {
		b.buf.WriteString(sep)
		return
	}
	b.buf.WriteString(keyword)
	b.section = s
	b.conditions = 0
}

// condition, WHERE veya HAVING koşulunun önünü yazar. boolean "AND" ya da "OR" olur.
// Grup içindeki ilk koşul hiçbir önek almaz.
func (b *Builder) condition(s section, keyword, boolean string) {
	switch {
	case b.section == s && b.conditions > 0:
		b.write(" ", boolean, " ")
	case b.section == s:
	default:
		b.buf.WriteString(keyword)
		b.section = s
	}
	b.conditions++
}

// fork, aynı dialect ile boş bir alt Builder döndürür (gruplar için).
func (b *Builder) fork() *Builder {
	return &Builder{
		dialect: b.dialect,
		scanner: b.scanner,
		prefix:  b.prefix,
	}
}

// ----------------------------------------------------------------------------
// SELECT / FROM / JOIN
// ----------------------------------------------------------------------------

// Select, "SELECT c1, c2" yazar. Kolon verilmezse "*" seçilir.
// "t.c", "t.*", "c as alias" ve "t.c alias" biçimleri kabul edilir.
func (b *Builder) Select(columns ...string) *Builder {
	return b.selectColumns("SELECT ", columns)
}

// SelectDistinct, "SELECT DISTINCT ..." yazar.
func (b *Builder) SelectDistinct(columns ...string) *Builder {
	return b.selectColumns("SELECT DISTINCT ", columns)
}

func (b *Builder) selectColumns(keyword string, columns []string) *Builder {
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		q, err := b.dialect.QuoteColumn(col)
		if err != nil {
			b.fail("column", err)
			return b
		}
		quoted[i] = q
	}

	b.write(keyword, strings.Join(quoted, ", "))
	b.section = sectionSelect
	return b
}

// SelectRaw, ham select ifadesi yazar: "SELECT expr".
// Dikkat: ifade doğrulanmaz, kullanıcı girdisi taşımamalıdır.
func (b *Builder) SelectRaw(expr string, bindings ...any) *Builder {
	b.write("SELECT ", expr)
	b.args = append(b.args, bindings...)
	b.section = sectionSelect
	return b
}

// From, " FROM table" yazar. Tablo önekine ve "table alias" biçimine uyar.
func (b *Builder) From(table string) *Builder {
	if q, ok := b.quoteTable(table); ok {
		b.write(" FROM ", q)
		b.section = sectionNone
	}
	return b
}

// Join, INNER JOIN ekler.
func (b *Builder) Join(table, first, operator, second string) *Builder {
	return b.join("INNER", table, first, operator, second)
}

// LeftJoin, LEFT JOIN ekler.
func (b *Builder) LeftJoin(table, first, operator, second string) *Builder {
	return b.join("LEFT", table, first, operator, second)
}

// RightJoin, RIGHT JOIN ekler.
func (b *Builder) RightJoin(table, first, operator, second string) *Builder {
	return b.join("RIGHT", table, first, operator, second)
}

// CrossJoin, CROSS JOIN ekler.
func (b *Builder) CrossJoin(table string) *Builder {
	if q, ok := b.quoteTable(table); ok {
		b.write(" CROSS JOIN ", q)
		b.section = sectionJoin
	}
	return b
}

func (b *Builder) join(kind, table, first, operator, second string) *Builder {
	q, ok := b.quoteTable(table)
	if !ok {
		return b
	}
	left, ok := b.quote(first)
	if !ok {
		return b
	}
	right, ok := b.quote(second)
	if !ok {
		return b
	}
	op, err := validation.NormalizeOperator(operator)
	if err != nil {
		b.fail("operator", err)
		return b
	}

	b.write(" ", kind, " JOIN ", q, " ON ", left, " ", op, " ", right)
	b.section = sectionJoin
	return b
}

// ----------------------------------------------------------------------------
// WHERE
// ----------------------------------------------------------------------------

// Where, " WHERE c op ?" yazar; sonraki koşullar " AND" ile bağlanır.
// value nil ise "=" / "IS" → "IS NULL", "!=" / "<>" / "IS NOT" → "IS NOT NULL" olur.
func (b *Builder) Where(column, operator string, value any) *Builder {
	return b.where(sectionWhere, " WHERE ", "AND", column, operator, value)
}

// OrWhere, koşulu " OR" ile bağlar.
func (b *Builder) OrWhere(column, operator string, value any) *Builder {
	return b.where(sectionWhere, " WHERE ", "OR", column, operator, value)
}

func (b *Builder) where(s section, keyword, boolean, column, operator string, value any) *Builder {
	col, ok := b.quote(column)
	if !ok {
		return b
	}
	op, err := validation.NormalizeOperator(operator)
	if err != nil {
		b.fail("operator", err)
		return b
	}

	b.condition(s, keyword, boolean)

	if value == nil && (op == "=" || op == "!=" || op == "<>" || validation.IsNullOperator(op)) {
		if op == "=" || op == "IS" {
			b.write(col, " IS NULL")
		} else {
			b.write(col, " IS NOT NULL")
		}
		return b
	}

	b.write(col, " ", op, " ")
	b.bind(value)
	return b
}

// WhereRaw, ham koşul ifadesi ekler.
func (b *Builder) WhereRaw(expr string, bindings ...any) *Builder {
	return b.whereRaw("AND", expr, bindings)
}

// OrWhereRaw, ham koşulu " OR" ile ekler.
func (b *Builder) OrWhereRaw(expr string, bindings ...any) *Builder {
	return b.whereRaw("OR", expr, bindings)
}

func (b *Builder) whereRaw(boolean, expr string, bindings []any) *Builder {
	b.condition(sectionWhere, " WHERE ", boolean)
	b.buf.WriteString(expr)
	b.args = append(b.args, bindings...)
	return b
}

// WhereIn, " c IN (?, ?)" yazar. Boş liste ErrEmptyWhereIn üretir.
func (b *Builder) WhereIn(column string, values []any) *Builder {
	return b.whereIn("AND", column, "IN", values)
}

// WhereNotIn, " c NOT IN (?, ?)" yazar.
func (b *Builder) WhereNotIn(column string, values []any) *Builder {
	return b.whereIn("AND", column, "NOT IN", values)
}

// OrWhereIn, IN koşulunu " OR" ile bağlar.
func (b *Builder) OrWhereIn(column string, values []any) *Builder {
	return b.whereIn("OR", column, "IN", values)
}

// OrWhereNotIn, NOT IN koşulunu " OR" ile bağlar.
func (b *Builder) OrWhereNotIn(column string, values []any) *Builder {
	return b.whereIn("OR", column, "NOT IN", values)
}

func (b *Builder) whereIn(boolean, column, op string, values []any) *Builder {
	if len(values) == 0 {
		b.fail("where in", ErrEmptyWhereIn)
		return b
	}
	col, ok := b.quote(column)
	if !ok {
		return b
	}

	b.condition(sectionWhere, " WHERE ", boolean)
	b.write(col, " ", op, " (")
	b.bindList(values)
	b.buf.WriteByte(')')
	return b
}

// WhereBetween, " c BETWEEN ? AND ?" yazar.
func (b *Builder) WhereBetween(column string, min, max any) *Builder {
	return b.whereBetween("BETWEEN", column, min, max)
}

// WhereNotBetween, " c NOT BETWEEN ? AND ?" yazar.
func (b *Builder) WhereNotBetween(column string, min, max any) *Builder {
	return b.whereBetween("NOT BETWEEN", column, min, max)
}

func (b *Builder) whereBetween(op, column string, min, max any) *Builder {
	col, ok := b.quote(column)
	if !ok {
		return b
	}

	b.condition(sectionWhere, " WHERE ", "AND")
	b.write(col, " ", op, " ")
	b.bind(min)
	b.buf.WriteString(" AND ")
	b.bind(max)
	return b
}

// WhereNull, " c IS NULL" yazar.
func (b *Builder) WhereNull(column string) *Builder {
	return b.whereNull("AND", column, " IS NULL")
}

// WhereNotNull, " c IS NOT NULL" yazar.
func (b *Builder) WhereNotNull(column string) *Builder {
	return b.whereNull("AND", column, " IS NOT NULL")
}

// OrWhereNull, IS NULL koşulunu " OR" ile bağlar.
func (b *Builder) OrWhereNull(column string) *Builder {
	return b.whereNull("OR", column, " IS NULL")
}

// OrWhereNotNull, IS NOT NULL koşulunu " OR" ile bağlar.
func (b *Builder) OrWhereNotNull(column string) *Builder {
	return b.whereNull("OR", column, " IS NOT NULL")
}

func (b *Builder) whereNull(boolean, column, suffix string) *Builder {
	col, ok := b.quote(column)
	if !ok {
		return b
	}
	b.condition(sectionWhere, " WHERE ", boolean)
	b.write(col, suffix)
	return b
}

// WhereLike, " c LIKE ?" yazar.
func (b *Builder) WhereLike(column, pattern string) *Builder {
	return b.Where(column, "LIKE", pattern)
}

// WhereNotLike, " c NOT LIKE ?" yazar.
func (b *Builder) WhereNotLike(column, pattern string) *Builder {
	return b.Where(column, "NOT LIKE", pattern)
}

// WhereGroup, fn içinde yazılan koşulları parantez içinde " AND" ile ekler.
//
//	b.Where("active", "=", true).WhereGroup(func(q *Builder) {
//	    q.Where("role", "=", "admin").OrWhere("role", "=", "owner")
//	})
//	// WHERE `active` = ? AND (`role` = ? OR `role` = ?)
func (b *Builder) WhereGroup(fn func(*Builder)) *Builder {
	return b.group("AND", fn)
}

// OrWhereGroup, grubu " OR" ile bağlar.
func (b *Builder) OrWhereGroup(fn func(*Builder)) *Builder {
	return b.group("OR", fn)
}

func (b *Builder) group(boolean string, fn func(*Builder)) *Builder {
	nested := b.fork()
	nested.section = sectionWhere
	fn(nested)

	if nested.err != nil {
		b.fail("group", nested.err)
		return b
	}
	if nested.buf.Len() == 0 {
		return b
	}

	b.condition(sectionWhere, " WHERE ", boolean)
	b.write("(", nested.buf.String(), ")")
	b.args = append(b.args, nested.args...)
	return b
}

// ----------------------------------------------------------------------------
// GROUP BY / HAVING / ORDER BY / LIMIT
// ----------------------------------------------------------------------------

// GroupBy, " GROUP BY a, b" yazar; sonraki çağrılar ", c" ekler.
func (b *Builder) GroupBy(columns ...string) *Builder {
	if len(columns) == 0 {
		b.fail("group by", ErrNoColumns)
		return b
	}
	list, ok := b.quoteList(columns)
	if !ok {
		return b
	}
	b.open(sectionGroup, " GROUP BY ", ", ")
	b.buf.WriteString(list)
	return b
}

// Having, " HAVING c op ?" yazar; sonraki koşullar " AND" ile bağlanır.
func (b *Builder) Having(column, operator string, value any) *Builder {
	return b.where(sectionHaving, " HAVING ", "AND", column, operator, value)
}

// OrHaving, HAVING koşulunu " OR" ile bağlar.
func (b *Builder) OrHaving(column, operator string, value any) *Builder {
	return b.where(sectionHaving, " HAVING ", "OR", column, operator, value)
}

// HavingRaw, ham HAVING ifadesi ekler: HavingRaw("COUNT(*) > ?", 5).
func (b *Builder) HavingRaw(expr string, bindings ...any) *Builder {
	b.condition(sectionHaving, " HAVING ", "AND")
	b.buf.WriteString(expr)
	b.args = append(b.args, bindings...)
	return b
}

// OrderBy, " ORDER BY c DIR" yazar; sonraki çağrılar ", " ile eklenir.
// Yön yalnızca ASC veya DESC olabilir, boş yön ASC kabul edilir.
func (b *Builder) OrderBy(column, direction string) *Builder {
	col, ok := b.quote(column)
	if !ok {
		return b
	}
	dir, err := validation.NormalizeDirection(direction)
	if err != nil {
		b.fail("operator", err)
		return b
	}
	b.open(sectionOrder, " ORDER BY ", ", ")
	b.write(col, " ", dir)
	return b
}

// OrderByAsc, artan sırada ORDER BY ekler.
func (b *Builder) OrderByAsc(column string) *Builder {
	return b.OrderBy(column, "ASC")
}

// OrderByDesc, azalan sırada ORDER BY ekler.
func (b *Builder) OrderByDesc(column string) *Builder {
	return b.OrderBy(column, "DESC")
}

// OrderByRaw, ham ORDER BY ifadesi ekler.
func (b *Builder) OrderByRaw(expr string, bindings ...any) *Builder {
	b.open(sectionOrder, " ORDER BY ", ", ")
	b.buf.WriteString(expr)
	b.args = append(b.args, bindings...)
	return b
}

// Limit, " LIMIT n" yazar. Sayı metne tam sayı olarak girer.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		b.fail("limit", errors.New("sqlchain: limit cannot be negative"))
		return b
	}
	b.write(" LIMIT ", strconv.Itoa(n))
	b.limited = true
	b.section = sectionNone
	return b
}

// Offset, " OFFSET n" yazar. Öncesinde LIMIT yoksa dialect'in gerektirdiği
// sınırsız LIMIT araya eklenir (MySQL, SQLite).
func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		b.fail("offset", errors.New("sqlchain: offset cannot be negative"))
		return b
	}
	if !b.limited {
		b.buf.WriteString(b.dialect.OffsetWithoutLimit())
	}
	b.write(" OFFSET ", strconv.Itoa(n))
	b.offset = true
	b.section = sectionNone
	return b
}

// ForPage, sayfa bazlı limit ve offset yazar. Sayfalar 1'den başlar.
func (b *Builder) ForPage(page, perPage int) *Builder {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return b.Limit(perPage).Offset((page - 1) * perPage)
}

// ----------------------------------------------------------------------------
// INSERT / UPDATE / DELETE
// ----------------------------------------------------------------------------

// InsertInto, "INSERT INTO t (a, b)" yazar. Kolonlar Values sayım kontrolü
// ve OnConflictUpdate varsayılanı için saklanır.
func (b *Builder) InsertInto(table string, columns ...string) *Builder {
	q, ok := b.quoteTable(table)
	if !ok {
		return b
	}

	b.write("INSERT INTO ", q)
	if len(columns) > 0 {
		list, ok := b.quoteList(columns)
		if !ok {
			return b
		}
		b.write(" (", list, ")")
	}

	b.insertColumns = append(b.insertColumns[:0], columns...)
	b.section = sectionNone
	return b
}

// Values, " VALUES (?, ?)" yazar; sonraki çağrılar ", (?, ?)" ekler.
// InsertInto kolon bildirdiyse değer sayısı eşleşmelidir.
func (b *Builder) Values(values ...any) *Builder {
	if len(values) == 0 || (len(b.insertColumns) > 0 && len(values) != len(b.insertColumns)) {
		b.fail("values", ErrValueCount)
		return b
	}

	b.open(sectionValues, " VALUES ", ", ")
	b.buf.WriteByte('(')
	b.bindList(values)
	b.buf.WriteByte(')')
	return b
}

// Update, "UPDATE t" yazar.
func (b *Builder) Update(table string) *Builder {
	if q, ok := b.quoteTable(table); ok {
		b.write("UPDATE ", q)
		b.section = sectionNone
	}
	return b
}

// Set, " SET c = ?" yazar; sonraki çağrılar ", c = ?" ekler.
func (b *Builder) Set(column string, value any) *Builder {
	col, ok := b.quote(column)
	if !ok {
		return b
	}
	b.open(sectionSet, " SET ", ", ")
	b.write(col, " = ")
	b.bind(value)
	return b
}

// SetMap, map içeriğini anahtar sırasına göre Set ile yazar.
func (b *Builder) SetMap(values map[string]any) *Builder {
	if len(values) == 0 {
		b.fail("set", ErrNoColumns)
		return b
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.Set(k, values[k])
	}
	return b
}

// DeleteFrom, "DELETE FROM t" yazar.
func (b *Builder) DeleteFrom(table string) *Builder {
	if q, ok := b.quoteTable(table); ok {
		b.write("DELETE FROM ", q)
		b.section = sectionNone
	}
	return b
}

// OnConflictUpdate, dialect'e özgü upsert kuyruğunu yazar.
// update boşsa InsertInto kolonlarından conflict dışında kalanlar güncellenir.
//
// MySQL:    ON DUPLICATE KEY UPDATE `name` = VALUES(`name`)
// Postgres: ON CONFLICT ("email") DO UPDATE SET "name" = EXCLUDED."name"
func (b *Builder) OnConflictUpdate(conflict []string, update ...string) *Builder {
	if len(update) == 0 {
		skip := make(map[string]bool, len(conflict))
		for _, c := range conflict {
			skip[c] = true
		}
		for _, c := range b.insertColumns {
			if !skip[c] {
				update = append(update, c)
			}
		}
	}

	tail, err := b.dialect.Upsert(conflict, update)
	if err != nil {
		b.fail("column", err)
		return b
	}
	b.buf.WriteString(tail)
	b.section = sectionNone
	return b
}

// Returning, " RETURNING a, b" yazar. Desteklemeyen dialect'te ErrUnsupported üretir.
func (b *Builder) Returning(columns ...string) *Builder {
	if !b.dialect.SupportsReturning() {
		b.fail("returning", ErrUnsupported)
		return b
	}
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	list, ok := b.quoteList(columns)
	if !ok {
		return b
	}
	b.write(" RETURNING ", list)
	b.section = sectionNone
	return b
}

// ----------------------------------------------------------------------------
// Ham parçalar
// ----------------------------------------------------------------------------

// Raw, parçayı tampona olduğu gibi ekler. Tampon boş değilse ve araya boşluk
// gerekiyorsa tek bir boşluk eklenir. Cümlecik durumu değişmez.
func (b *Builder) Raw(fragment string, bindings ...any) *Builder {
	if b.buf.Len() > 0 && fragment != "" && !strings.HasPrefix(fragment, " ") && !strings.HasSuffix(b.buf.String(), " ") {
		b.buf.WriteByte(' ')
	}
	b.buf.WriteString(fragment)
	b.args = append(b.args, bindings...)
	return b
}

// RawNamed, ":name" parametreli parçayı map veya struct değerleriyle ekler.
//
//	b.RawNamed("WHERE id = :id AND status = :status", map[string]any{"id": 1, "status": "active"})
func (b *Builder) RawNamed(fragment string, arg any) *Builder {
	query, args, err := sqlx.Named(fragment, arg)
	if err != nil {
		b.fail("named", WrapError("bind named", err))
		return b
	}
	return b.Raw(query, args...)
}

// Bind, daha önce ham olarak yazılmış "?" yer tutucuları için değer ekler.
func (b *Builder) Bind(values ...any) *Builder {
	b.args = append(b.args, values...)
	return b
}

// When, koşul doğruysa fn'i uygular.
func (b *Builder) When(condition bool, fn func(*Builder)) *Builder {
	if condition {
		fn(b)
	}
	return b
}

// Unless, When’in tersidir.
func (b *Builder) Unless(condition bool, fn func(*Builder)) *Builder {
	return b.When(!condition, fn)
}

// ----------------------------------------------------------------------------
// Derleme ve durum
// ----------------------------------------------------------------------------

// SQL, tampondaki ifadeyi dialect yer tutucularına çevrilmiş halde ve
// argümanlarla birlikte döndürür. Birikmiş hata varsa o döner.
func (b *Builder) SQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if b.buf.Len() == 0 {
		return "", nil, ErrEmptyStatement
	}

	args := make([]any, len(b.args))
	copy(args, b.args)
	return b.dialect.Rebind(b.buf.String()), args, nil
}

// String, ifadenin metnini döndürür. Hata durumunu dikkate almaz.
func (b *Builder) String() string {
	return b.dialect.Rebind(b.buf.String())
}

// Args, bağlanmış argümanların kopyasını döndürür.
func (b *Builder) Args() []any {
	args := make([]any, len(b.args))
	copy(args, b.args)
	return args
}

// Err, birikmiş hatayı döndürür.
func (b *Builder) Err() error {
	return b.err
}

// Dialect, Builder'ın kullandığı dialect'i döndürür.
func (b *Builder) Dialect() dialect.Dialect {
	return b.dialect
}

// Reset, tamponu, argümanları, durumu ve hatayı temizler (bağlantı ve dialect hariç).
func (b *Builder) Reset() *Builder {
	b.buf.Reset()
	b.args = nil
	b.section = sectionNone
	b.conditions = 0
	b.limited = false
	b.offset = false
	b.insertColumns = nil
	b.ttl = 0
	b.err = nil
	return b
}

// Clone, Builder'ın derin kopyasını oluşturur.
func (b *Builder) Clone() *Builder {
	clone := &Builder{
		executor:   b.executor,
		dialect:    b.dialect,
		scanner:    b.scanner,
		prefix:     b.prefix,
		cache:      b.cache,
		ttl:        b.ttl,
		section:    b.section,
		conditions: b.conditions,
		limited:    b.limited,
		offset:     b.offset,
		err:        b.err,
	}
	clone.buf.WriteString(b.buf.String())

	clone.args = make([]any, len(b.args))
	copy(clone.args, b.args)

	clone.insertColumns = make([]string, len(b.insertColumns))
	copy(clone.insertColumns, b.insertColumns)

	return clone
}
