// Package cache, Remember ile işaretlenen okuma sonuçlarının saklandığı
// depoları içerir. Değerler kodlanmış byte dizileri olarak tutulur; hangi
// biçimde kodlandığı depoyu ilgilendirmez.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

// Store, sonuç önbelleği sözleşmesidir. Get bulunamayan anahtar için
// (nil, false, nil) döner.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
)

// DefaultSize, NewMemory'ye geçersiz boyut verildiğinde kullanılan kapasitedir.
const DefaultSize = 1024

type entry struct {
	value   []byte
	expires time.Time
}

// Memory, süreç içi LRU önbellektir. Kapasite dolduğunda en eski kullanılan
// kayıt atılır; süresi geçen kayıt okunduğunda silinir.
type Memory struct {
	mu    sync.Mutex
	items *lru.Cache[string, entry]
	now   func() time.Time
}

// NewMemory, en fazla size kayıt tutan bir Memory döndürür.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultSize
	}
	// lru.New yalnızca size <= 0 için hata döner.
	items, _ := lru.New[string, entry](size)
	return &Memory{items: items, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.items.Remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set, değeri ttl süresince saklar. ttl <= 0 süresiz demektir.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.items.Add(key, e)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items.Remove(key)
	return nil
}

// Len, tutulan kayıt sayısını döndürür (süresi geçmiş ama okunmamış kayıtlar dahil).
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Len()
}

// Redis, go-redis üzerinden paylaşılan önbellektir. Anahtarlar Prefix ile saklanır.
type Redis struct {
	Client redis.Cmdable
	Prefix string
}

// NewRedis, client üzerinde prefix'li bir Redis deposu döndürür.
func NewRedis(client redis.Cmdable, prefix string) *Redis {
	return &Redis{Client: client, Prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.Client.Get(ctx, r.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set, değeri ttl süresince saklar. ttl <= 0 süresiz demektir.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.Client.Set(ctx, r.Prefix+key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, r.Prefix+key).Err()
}
