package cache

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config for the Redis/Valkey cache and OTP store.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client caches the public events listing and stores short-lived OTP codes.
// Both uses tolerate the cache being down: callers fall back to the database
// for listings, and OTP issuance simply fails with an error.
type Client struct {
	rdb *redis.Client
}

const (
	eventsListTTL = 60 * time.Second
	otpTTL        = 5 * time.Minute

	// otpVerifiedTTL is the window between a successful verify-otp call and
	// the reset-password call that consumes it.
	otpVerifiedTTL = 10 * time.Minute
)

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func eventsListKey(page, pageSize int) string {
	return fmt.Sprintf("events:list:%d:%d", page, pageSize)
}

// GetEventsListRaw returns the cached JSON body for a listing page, avoiding
// an unmarshal/marshal round trip on the hot path.
func (c *Client) GetEventsListRaw(ctx context.Context, page, pageSize int) ([]byte, error) {
	data, err := c.rdb.Get(ctx, eventsListKey(page, pageSize)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("cache miss")
	}
	return data, err
}

// SetEventsList stores a listing page. Errors are returned but callers treat
// them as advisory.
func (c *Client) SetEventsList(ctx context.Context, page, pageSize int, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, eventsListKey(page, pageSize), data, eventsListTTL).Err()
}

// InvalidateEventsList drops all cached listing pages after a catalog change.
func (c *Client) InvalidateEventsList(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, "events:list:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func otpKey(email string) string         { return "otp:code:" + email }
func otpVerifiedKey(email string) string { return "otp:verified:" + email }

// IssueOTP generates and stores a 6-digit code for the email, replacing any
// outstanding one.
func (c *Client) IssueOTP(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := c.rdb.Set(ctx, otpKey(email), code, otpTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store OTP: %w", err)
	}
	return code, nil
}

// VerifyOTP checks the code and, on success, marks the email verified for a
// follow-up password reset. The code itself is consumed.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (bool, error) {
	stored, err := c.rdb.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != code {
		return false, nil
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, otpKey(email))
	pipe.Set(ctx, otpVerifiedKey(email), code, otpVerifiedTTL)
	_, err = pipe.Exec(ctx)
	return err == nil, err
}

// ConsumeVerifiedOTP checks and burns the verified marker: a reset-password
// call must present the same code that passed verification.
func (c *Client) ConsumeVerifiedOTP(ctx context.Context, email, code string) (bool, error) {
	stored, err := c.rdb.Get(ctx, otpVerifiedKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != code {
		return false, nil
	}
	return true, c.rdb.Del(ctx, otpVerifiedKey(email)).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
