package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/calendar"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

const (
	DefaultTTL    = 5 * time.Minute
	DefaultPrefix = "availability"
)

// Cache кэш чтения доступности в Redis
// У каждого номера есть ключ версии, он входит в ключ записи
// Инвалидация увеличивает версию, старые записи истекают по TTL
type Cache struct {
	rdb    Client
	ttl    time.Duration
	prefix string
}

// NewCache создает кэш поверх клиента Redis
func NewCache(rdb Client, ttl time.Duration, prefix string) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{rdb: rdb, ttl: ttl, prefix: prefix}
}

// Connect создает клиента Redis и проверяет соединение
// При ошибке вызывающий работает без кэша
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrRead, addr, err)
	}
	return client, nil
}

// Get возвращает закэшированные дни диапазона и текущую версию номера
// При промахе версию нужно передать в Set вместе с ответом из БД
func (c *Cache) Get(ctx context.Context, roomID int64, dates types.DateRange) ([]calendar.Day, calendar.CacheVersion, bool, error) {
	version, err := c.version(ctx, roomID)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.rdb.Get(ctx, c.entryKey(roomID, version, dates)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("%w: Get - room=%d: %v", ErrRead, roomID, err)
	}

	var days []calendar.Day
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, version, false, fmt.Errorf("%w: Get - room=%d: %v", ErrDecode, roomID, err)
	}
	return days, version, true, nil
}

// Set сохраняет дни диапазона под версией, полученной из Get
// Ответ, прочитанный до инвалидации, попадает под старую версию и больше не отдаётся
func (c *Cache) Set(ctx context.Context, roomID int64, version calendar.CacheVersion, dates types.DateRange, days []calendar.Day) error {
	payload, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("%w: Set - marshal: %v", ErrWrite, err)
	}

	if err := c.rdb.SetEx(ctx, c.entryKey(roomID, version, dates), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - room=%d: %v", ErrWrite, roomID, err)
	}
	return nil
}

// Invalidate делает недоступными все записи номера
func (c *Cache) Invalidate(ctx context.Context, roomID int64) error {
	if err := c.rdb.Incr(ctx, c.versionKey(roomID)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - room=%d: %v", ErrWrite, roomID, err)
	}
	return nil
}

func (c *Cache) version(ctx context.Context, roomID int64) (calendar.CacheVersion, error) {
	v, err := c.rdb.Get(ctx, c.versionKey(roomID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: version - room=%d: %v", ErrRead, roomID, err)
	}
	return calendar.CacheVersion(v), nil
}

func (c *Cache) versionKey(roomID int64) string {
	return c.prefix + ":room:" + strconv.FormatInt(roomID, 10) + ":ver"
}

func (c *Cache) entryKey(roomID int64, version calendar.CacheVersion, dates types.DateRange) string {
	return fmt.Sprintf("%s:room:%d:v%d:%s:%s", c.prefix, roomID, version,
		dates.Start.Format(domain.DateFormat), dates.End.Format(domain.DateFormat))
}
