package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"workforce/config"
	"workforce/internal/core"
	client "workforce/internal/database/client"
	"workforce/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// globEscaper 讓前綴內的 glob 字元照字面比對
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// ListingCacheRepository 租戶列表快取，key = <prefix>:listing:<tenantId>:<entity>[:<suffix>]
type ListingCacheRepository struct {
	trace     *telemetry.Trace
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewListingCacheRepository(trace *telemetry.Trace, client *client.RedisClient, config *config.Configuration) *ListingCacheRepository {
	prefix := string(core.RedisKeyServerName)
	if config.Cache.KeyPrefix != "" {
		prefix = config.Cache.KeyPrefix
	}
	ttl := 5 * time.Minute
	if config.Cache.TTLSeconds > 0 {
		ttl = time.Duration(config.Cache.TTLSeconds) * time.Second
	}
	return &ListingCacheRepository{trace: trace, client: client.Client(), keyPrefix: prefix, ttl: ttl}
}

// Key 組出列表快取 key
func (repository *ListingCacheRepository) Key(tenantID string, entity core.EntityType, suffix ...string) string {
	parts := append([]string{repository.keyPrefix, string(core.RedisKeyListing), tenantID, string(entity)}, suffix...)
	return strings.Join(parts, ":")
}

// Get 回傳 (內容, 是否命中)
func (repository *ListingCacheRepository) Get(contextValue context.Context, key string) (_ []byte, hit bool, returnedError error) {
	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	value, err := repository.client.Get(contextValue, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set ttl <= 0 使用設定檔的預設值
func (repository *ListingCacheRepository) Set(contextValue context.Context, key string, value []byte, ttl time.Duration) (returnedError error) {
	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	if ttl <= 0 {
		ttl = repository.ttl
	}
	return repository.client.Set(contextValue, key, value, ttl).Err()
}

// Invalidate 以 SCAN 找出前綴相符的 key 後刪除，回傳刪除數量；prefix 以字面比對
func (repository *ListingCacheRepository) Invalidate(contextValue context.Context, prefix string) (deleted int64, returnedError error) {
	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	var cursor uint64
	for {
		keys, next, err := repository.client.Scan(contextValue, cursor, globEscaper.Replace(prefix)+"*", scanBatch).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := repository.client.Del(contextValue, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}

// InvalidateListings 清除租戶下指定實體類型的所有列表快取
func (repository *ListingCacheRepository) InvalidateListings(contextValue context.Context, tenantID string, entities ...core.EntityType) error {
	var errs []error
	for _, entity := range entities {
		if _, err := repository.Invalidate(contextValue, repository.Key(tenantID, entity)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
