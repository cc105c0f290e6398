package sqlchain

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy, geçici hatalarda (kopan bağlantı, deadlock, kilit zaman aşımı)
// ifadenin kaç kez ve hangi aralıklarla tekrar gönderileceğini belirler.
//
// Yalnızca transaction dışındaki ifadelere uygulanır; transaction içinde bir
// ifadeyi tekrar göndermek önceki adımların geri alınmış olabileceğini gizler.
type RetryPolicy struct {
	MaxRetries uint64        // ilk denemeden sonraki en fazla tekrar
	Base       time.Duration // üstel bekleme başlangıcı
	Max        time.Duration // tek bir beklemenin üst sınırı
}

// DefaultRetryPolicy, 3 tekrar, 50ms başlangıç ve 1s üst sınır kullanır.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		Base:       50 * time.Millisecond,
		Max:        time.Second,
	}
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.Base
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	b := retry.NewExponential(base)
	if p.Max > 0 {
		b = retry.WithCappedDuration(p.Max, b)
	}
	return retry.WithMaxRetries(p.MaxRetries, b)
}

// run, fn'i politika çerçevesinde çalıştırır. Yalnızca IsRetryable hatalar tekrarlanır;
// politika yoksa fn bir kez çağrılır.
func (p *RetryPolicy) run(ctx context.Context, fn func(context.Context) error) error {
	if p == nil || p.MaxRetries == 0 {
		return fn(ctx)
	}

	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		err := fn(ctx)
		if IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
