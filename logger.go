package sqlchain

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// maxLoggedSQL, log kayıtlarında SQL metninin kesildiği uzunluktur.
const maxLoggedSQL = 2048

// maxLoggedArgs, log kayıtlarında gösterilen en fazla argüman sayısıdır.
const maxLoggedArgs = 20

// LogrusLogger, ifadeleri logrus'a yazar. Başarılı ifadeler Debug,
// hatalı ifadeler Error seviyesindedir.
type LogrusLogger struct {
	Entry *logrus.Entry
}

// NewLogrusLogger, verilen logger ile bir LogrusLogger döndürür. nil ise standart logger kullanılır.
func NewLogrusLogger(l *logrus.Logger) *LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusLogger{Entry: logrus.NewEntry(l).WithField("component", "sqlchain")}
}

// Log, Logger arayüzünü uygular.
func (l *LogrusLogger) Log(query string, args []any, duration time.Duration, err error) {
	entry := l.Entry.WithFields(logrus.Fields{
		"sql":      truncateSQL(query),
		"args":     FormatArgs(args),
		"duration": duration,
	})

	if err != nil {
		entry.WithError(err).Error("query failed")
		return
	}
	entry.Debug("query")
}

// ZapLogger, ifadeleri zap'e yazar.
type ZapLogger struct {
	Logger *zap.Logger
}

// NewZapLogger, verilen logger ile bir ZapLogger döndürür. nil ise Nop logger kullanılır.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{Logger: l.Named("sqlchain")}
}

// Log, Logger arayüzünü uygular.
func (l *ZapLogger) Log(query string, args []any, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("sql", truncateSQL(query)),
		zap.String("args", FormatArgs(args)),
		zap.Duration("duration", duration),
	}

	if err != nil {
		l.Logger.Error("query failed", append(fields, zap.Error(err))...)
		return
	}
	l.Logger.Debug("query", fields...)
}

// FormatArgs, argümanları log için güvenli biçimde yazar. Metin ve byte
// değerlerinin içeriği yerine uzunluğu gösterilir.
func FormatArgs(args []any) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < len(args) && i < maxLoggedArgs; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(redact(args[i]))
	}
	if len(args) > maxLoggedArgs {
		b.WriteString(", …")
	}
	b.WriteByte(']')
	return b.String()
}

func redact(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("redacted(len=%d)", len(x))
	case []byte:
		return fmt.Sprintf("bytes(len=%d)", len(x))
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%T(redacted)", v)
	}
}

func truncateSQL(query string) string {
	if len(query) <= maxLoggedSQL {
		return query
	}
	return query[:maxLoggedSQL] + "…"
}
