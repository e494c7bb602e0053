package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"booking-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const approvedTechniciansKey = "technicians:approved"

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// CacheApprovedTechnicians stores the approved technician directory
func (c *Client) CacheApprovedTechnicians(ctx context.Context, technicians []models.Technician, ttl time.Duration) error {
	data, err := json.Marshal(technicians)
	if err != nil {
		return fmt.Errorf("failed to marshal technicians: %w", err)
	}
	return c.rdb.Set(ctx, approvedTechniciansKey, data, ttl).Err()
}

// GetCachedApprovedTechnicians returns the cached directory and whether
// it was present.
func (c *Client) GetCachedApprovedTechnicians(ctx context.Context) ([]models.Technician, bool, error) {
	data, err := c.rdb.Get(ctx, approvedTechniciansKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var technicians []models.Technician
	if err := json.Unmarshal(data, &technicians); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached technicians: %w", err)
	}
	return technicians, true, nil
}

// InvalidateTechnicianCache drops the cached directory after an
// approval or profile change
func (c *Client) InvalidateTechnicianCache(ctx context.Context) error {
	return c.rdb.Del(ctx, approvedTechniciansKey).Err()
}

// SetIdempotencyKey records the booking created for an idempotency key
func (c *Client) SetIdempotencyKey(ctx context.Context, key, bookingID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), bookingID, ttl).Err()
}

// GetIdempotencyKey returns the booking id stored for an idempotency
// key, or "" when none is set.
func (c *Client) GetIdempotencyKey(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// AcquireInvoiceLock takes a short-lived lock guarding invoice creation
// for one booking. The database unique index remains the authority; the
// lock only narrows the race window.
func (c *Client) AcquireInvoiceLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:invoice:%s", bookingID), "1", ttl).Result()
}

// ReleaseInvoiceLock releases the invoice creation lock
func (c *Client) ReleaseInvoiceLock(ctx context.Context, bookingID string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:invoice:%s", bookingID)).Err()
}
