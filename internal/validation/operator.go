package validation

import (
	"sort"
	"strings"
)

// allowedOperators, WHERE/HAVING/JOIN koşullarında kullanılabilecek operatörlerdir.
// IN, BETWEEN ve NULL kontrolleri Builder'ın kendi metotlarıyla yazılır.
var allowedOperators = map[string]bool{
	"=":  true,
	"!=": true,
	"<>": true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,

	"LIKE":      true,
	"NOT LIKE":  true,
	"ILIKE":     true, // PostgreSQL
	"NOT ILIKE": true,

	"IS":     true,
	"IS NOT": true,

	"<=>": true, // MySQL NULL-safe equality
}

// ValidateOperator, operatörün izin listesinde olup olmadığını kontrol eder.
func ValidateOperator(op string) error {
	_, err := NormalizeOperator(op)
	return err
}

// NormalizeOperator, operatörü büyük harfe çevirip kırpar ve doğrular.
// Kelimeler arasındaki fazla boşluklar tek boşluğa indirilir.
func NormalizeOperator(op string) (string, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(op), " "))

	if !allowedOperators[normalized] {
		return "", &OperatorError{
			Operator: op,
			Reason:   "operator not in allowed list",
		}
	}

	return normalized, nil
}

// IsNullOperator, operatörün IS / IS NOT olup olmadığını döndürür.
func IsNullOperator(op string) bool {
	normalized := strings.ToUpper(strings.Join(strings.Fields(op), " "))
	return normalized == "IS" || normalized == "IS NOT"
}

// NormalizeDirection, sıralama yönünü "ASC" veya "DESC" olarak döndürür.
// Boş yön ASC kabul edilir.
func NormalizeDirection(dir string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", "ASC":
		return "ASC", nil
	case "DESC":
		return "DESC", nil
	default:
		return "", &OperatorError{Operator: dir, Reason: "order direction must be ASC or DESC"}
	}
}

// AllowedOperators, izin verilen tüm operatörleri sıralı döndürür.
func AllowedOperators() []string {
	ops := make([]string, 0, len(allowedOperators))
	for op := range allowedOperators {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// OperatorError, operatör doğrulama hatasıdır.
type OperatorError struct {
	Operator string
	Reason   string
}

// Error, error arayüzünü uygular.
func (e *OperatorError) Error() string {
	return "sqlchain: invalid operator '" + e.Operator + "': " + e.Reason
}
