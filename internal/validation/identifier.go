// Package validation, ifade tamponuna (statement buffer) yazılmadan önce tablo,
// kolon, alias ve savepoint isimlerini doğrulayan dahili yardımcıları içerir.
//
// Builder değerleri her zaman "?" ile bağlar; ancak tanımlayıcılar (identifier)
// doğrudan SQL metnine girer. Bu yüzden tampona eklenen her isim buradan geçer:
//  1. Geçerli bir SQL tanımlayıcısı mı? (harf, rakam, alt çizgi, tek nokta)
//  2. Alias kullanılmışsa alias da geçerli mi?
//  3. Uzunluk sınırı aşılıyor mu?
//
// Başarısız doğrulamalar IdentifierError döner.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
package validation

import (
	"regexp"
	"strings"
)

// MaxIdentifierLength, kabul edilen en uzun tanımlayıcı uzunluğudur.
const MaxIdentifierLength = 128

var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// aliasRegex, "name as alias" veya "name alias" biçimini eşler. Name kısmı
// "table.column" olabilir.
var aliasRegex = regexp.MustCompile(`(?i)^([a-zA-Z_][a-zA-Z0-9_]*(?:\.[a-zA-Z_][a-zA-Z0-9_]*)?)\s+(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*)$`)

// starRegex, "*" ve "table.*" seçimlerini eşler.
var starRegex = regexp.MustCompile(`^(?:[a-zA-Z_][a-zA-Z0-9_]*\.)?\*$`)

var reservedWords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"insert": true, "update": true, "delete": true, "into": true, "values": true,
	"set": true, "order": true, "by": true, "asc": true, "desc": true,
	"limit": true, "offset": true, "join": true, "left": true, "right": true,
	"inner": true, "outer": true, "on": true, "as": true, "in": true,
	"between": true, "like": true, "is": true, "null": true, "not": true,
	"group": true, "having": true, "distinct": true, "union": true,
	"create": true, "drop": true, "alter": true, "table": true, "index": true,
	"primary": true, "key": true, "foreign": true, "references": true,
	"default": true, "constraint": true, "unique": true, "check": true,
	"returning": true, "conflict": true,
}

// ValidateIdentifier, id'nin tek bir tanımlayıcı ya da "table.column" olduğunu doğrular.
func ValidateIdentifier(id string) error {
	if id == "" {
		return &IdentifierError{Identifier: id, Reason: "identifier cannot be empty"}
	}

	if len(id) > MaxIdentifierLength {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier exceeds maximum length of 128 characters",
		}
	}

	if !identifierRegex.MatchString(id) {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier contains invalid characters; only letters, numbers, underscores, and dots are allowed",
		}
	}

	return nil
}

// ValidateTableWithAlias, "table", "table alias" ve "table as alias" biçimlerini doğrular.
// Tablo adında nokta (schema.table) kabul edilir.
func ValidateTableWithAlias(table string) (name, alias string, err error) {
	if table == "" {
		return "", "", &IdentifierError{Identifier: table, Reason: "table name cannot be empty"}
	}
	return splitAlias(table)
}

// ValidateColumnWithAlias, SELECT listesindeki bir kolonu doğrular.
// "*", "t.*", "col", "t.col", "col as c" ve "t.col c" kabul edilir.
// Yıldızlı seçimlerde alias boş döner ve star true olur.
func ValidateColumnWithAlias(column string) (name, alias string, star bool, err error) {
	column = strings.TrimSpace(column)
	if starRegex.MatchString(column) {
		return column, "", true, nil
	}
	name, alias, err = splitAlias(column)
	return name, alias, false, err
}

func splitAlias(ref string) (name, alias string, err error) {
	ref = strings.TrimSpace(ref)

	if matches := aliasRegex.FindStringSubmatch(ref); matches != nil {
		name, alias = matches[1], matches[2]

		if err := ValidateIdentifier(name); err != nil {
			return "", "", err
		}
		if err := ValidateIdentifier(alias); err != nil || strings.Contains(alias, ".") {
			return "", "", &IdentifierError{Identifier: alias, Reason: "invalid alias"}
		}
		if IsReservedWord(alias) {
			return "", "", &IdentifierError{Identifier: alias, Reason: "alias cannot be a reserved word"}
		}
		return name, alias, nil
	}

	if err := ValidateIdentifier(ref); err != nil {
		return "", "", err
	}
	return ref, "", nil
}

// ValidateColumn, "column" veya "table.column" referansını doğrular.
func ValidateColumn(column string) error {
	return ValidateIdentifier(column)
}

// ValidateSavepoint, savepoint adlarını doğrular. Noktaya izin verilmez.
func ValidateSavepoint(name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if strings.Contains(name, ".") {
		return &IdentifierError{Identifier: name, Reason: "savepoint name cannot contain dots"}
	}
	return nil
}

// IsReservedWord, id'nin SQL rezerv kelimesi olup olmadığını söyler.
func IsReservedWord(id string) bool {
	return reservedWords[strings.ToLower(id)]
}

// SplitTableColumn, "table.column" referansını doğrulayıp parçalar.
// Tablo belirtilmemişse table boş döner.
func SplitTableColumn(ref string) (table, column string, err error) {
	if err := ValidateColumn(ref); err != nil {
		return "", "", err
	}
	if table, column, ok := strings.Cut(ref, "."); ok {
		return table, column, nil
	}
	return "", ref, nil
}

// IdentifierError, tanımlayıcı doğrulama hatasıdır.
type IdentifierError struct {
	Identifier string
	Reason     string
}

// Error, error arayüzünü uygular.
func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "sqlchain: invalid identifier: " + e.Reason
	}
	return "sqlchain: invalid identifier '" + e.Identifier + "': " + e.Reason
}
