package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const keyPrefix = "salon:catalog:services:"

// CatalogCache кэш публичного списка активных услуг в Redis.
// Не является источником истины: инвалидируется при каждом изменении услуг.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// GetActive возвращает закэшированный список. ok=false при промахе.
func (c *CatalogCache) GetActive(ctx context.Context, category *domain.ServiceCategory) ([]*domain.Service, bool, error) {
	data, err := c.client.Get(ctx, key(category)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get catalog: %w", err)
	}

	var services []*domain.Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, false, fmt.Errorf("cache: decode catalog: %w", err)
	}
	return services, true, nil
}

// SetActive сохраняет список с TTL
func (c *CatalogCache) SetActive(ctx context.Context, category *domain.ServiceCategory, services []*domain.Service) error {
	payload, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("cache: encode catalog: %w", err)
	}
	if err := c.client.Set(ctx, key(category), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set catalog: %w", err)
	}
	return nil
}

// Invalidate удаляет все варианты списка (общий и по категориям)
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	keys := []string{key(nil)}
	for i := range domain.Categories {
		keys = append(keys, key(&domain.Categories[i]))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: invalidate catalog: %w", err)
	}
	return nil
}

// Ping проверка доступности Redis для /readyz
func (c *CatalogCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func key(category *domain.ServiceCategory) string {
	if category == nil {
		return keyPrefix + "all"
	}
	return keyPrefix + string(*category)
}
