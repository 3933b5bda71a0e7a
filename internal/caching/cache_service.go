package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fairway/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type CacheService interface {
	// Tenant resolution caching, keyed by request host
	GetTenantByHost(ctx context.Context, host string) (*models.Tenant, error)
	SetTenantByHost(ctx context.Context, host string, tenant *models.Tenant, ttl time.Duration) error
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient accepts either host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

func NewRedisCacheService(client *redis.Client) CacheService {
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("addr", client.Options().Addr).Msg("redis ping failed on initialization")
	}
	return &redisCacheService{client: client}
}

func hostKey(host string) string {
	return fmt.Sprintf("fairway:tenant_host:%s", strings.ToLower(host))
}

func tenantHostsKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("fairway:tenant_hosts:%s", tenantID.String())
}

func (r *redisCacheService) GetTenantByHost(ctx context.Context, host string) (*models.Tenant, error) {
	data, err := r.client.Get(ctx, hostKey(host)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var tenant models.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *redisCacheService) SetTenantByHost(ctx context.Context, host string, tenant *models.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, hostKey(host), data, ttl)
		pipe.SAdd(ctx, tenantHostsKey(tenant.ID), hostKey(host))
		pipe.Expire(ctx, tenantHostsKey(tenant.ID), ttl)
		return nil
	})
	return err
}

// InvalidateTenant drops every cached host entry of the tenant.
func (r *redisCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	keys, err := r.client.SMembers(ctx, tenantHostsKey(tenantID)).Result()
	if err != nil {
		return err
	}
	keys = append(keys, tenantHostsKey(tenantID))
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("fairway:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
