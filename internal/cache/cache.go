package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abdurrazzak7395/travelapi/internal/models"
)

// Cache stores the merged, pre-pagination offer list for a search payload.
// Pagination is always applied after retrieval, so a cached sequence pages
// exactly like a fresh one.
type Cache interface {
	Get(ctx context.Context, req *models.SearchRequest) ([]models.Offer, bool)
	Set(ctx context.Context, req *models.SearchRequest, offers []models.Offer) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, req *models.SearchRequest) ([]models.Offer, bool) {
	data, err := c.client.Get(ctx, generateKey(req)).Bytes()
	if err != nil {
		return nil, false
	}

	var offers []models.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, false
	}

	return offers, true
}

func (c *RedisCache) Set(ctx context.Context, req *models.SearchRequest, offers []models.Offer) error {
	data, err := json.Marshal(offers)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, generateKey(req), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req *models.SearchRequest) ([]models.Offer, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req *models.SearchRequest, offers []models.Offer) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// generateKey hashes the fields that determine the merged sequence: the
// selector, point of sale and the full shopping request.
func generateKey(req *models.SearchRequest) string {
	keyData := struct {
		Source      string
		PointOfSale string
		Request     *models.ShoppingRequest
	}{
		Source:      req.Source,
		PointOfSale: req.PointOfSale,
		Request:     req.Request,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "combined:" + hex.EncodeToString(hash[:])
}
