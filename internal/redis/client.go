package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// RunSummary is the cached outcome of the most recent pipeline run.
type RunSummary struct {
	RecommendationID uint      `json:"recommendation_id"`
	Date             string    `json:"date"`
	TotalItems       int       `json:"total_items"`
	TotalCost        string    `json:"total_cost"`
	Trigger          string    `json:"trigger"`
	GeneratedAt      time.Time `json:"generated_at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Latest pipeline run

func (c *Client) SetLatestRun(summary *RunSummary, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	return c.rdb.Set(ctx, "recommendation:latest", jsonData, ttl).Err()
}

func (c *Client) GetLatestRun() (*RunSummary, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "recommendation:latest").Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no pipeline run recorded")
		}
		return nil, fmt.Errorf("failed to get run summary: %w", err)
	}

	var summary RunSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}
	return &summary, nil
}

// Order statistics cache, keyed by month (YYYY-MM)

func (c *Client) SetOrderStatistics(month string, value interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal statistics: %w", err)
	}
	return c.rdb.Set(ctx, "order_stats:"+month, jsonData, ttl).Err()
}

func (c *Client) GetOrderStatistics(month string, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "order_stats:"+month).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("statistics not cached")
		}
		return fmt.Errorf("failed to get statistics: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Client) InvalidateOrderStatistics(month string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "order_stats:"+month).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
