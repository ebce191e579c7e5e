// Package config collects the service's deployment configuration from
// environment variables, with local-development defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is everything the checkout service reads from its environment.
type Config struct {
	// HTTPAddr is the listen address of the owning-service HTTP surface.
	HTTPAddr string

	// RedisAddr enables the Redis basket store and distributed per-basket
	// locks when set. Empty means in-process store and locks.
	RedisAddr string

	// OrdersDBPath is the SQLite file holding the order aggregates.
	OrdersDBPath string

	// Currency is the deployment-fixed payment currency.
	Currency string

	// PaymentMethodTypes restricts accepted payment methods.
	PaymentMethodTypes []string

	// FreeShippingThreshold and FlatDeliveryFee drive the delivery fee
	// rule, in minor currency units.
	FreeShippingThreshold int64
	FlatDeliveryFee       int64

	// BasketTTL bounds how long abandoned baskets are kept in Redis.
	BasketTTL time.Duration

	// LockTTL bounds how long a per-basket lock may be held.
	LockTTL time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		OrdersDBPath:          getEnv("ORDERS_DB_PATH", "./data/orders.db"),
		Currency:              getEnv("PAYMENT_CURRENCY", "inr"),
		PaymentMethodTypes:    getList("PAYMENT_METHOD_TYPES", []string{"card"}),
		FreeShippingThreshold: getInt64("FREE_SHIPPING_THRESHOLD", 10000),
		FlatDeliveryFee:       getInt64("FLAT_DELIVERY_FEE", 500),
		BasketTTL:             getDuration("BASKET_TTL", 7*24*time.Hour),
		LockTTL:               getDuration("BASKET_LOCK_TTL", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
