// Package redisrepo is the Redis implementation of the basket repository.
//
// Baskets are stored as JSON under "checkout:basket:<id>". Save runs inside
// a WATCH/MULTI transaction so the version check and the write are one
// atomic step; a concurrent writer aborts the transaction and the caller
// gets ErrVersionConflict.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/monsterstore/checkout/internal/basket/domain"
	"github.com/monsterstore/checkout/internal/basket/repository"
)

var _ repository.Repository = (*Repository)(nil)

// Repository persists baskets in Redis.
type Repository struct {
	client *redis.Client
	// ttl bounds how long an abandoned basket lingers. Zero means no expiry.
	ttl time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Repository {
	return &Repository{client: client, ttl: ttl}
}

// NewFromAddr dials a Redis server and returns a repository over it.
func NewFromAddr(addr string, ttl time.Duration) *Repository {
	return New(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

func basketKey(id string) string {
	return fmt.Sprintf("checkout:basket:%s", id)
}

func buyerKey(buyerID string) string {
	return fmt.Sprintf("checkout:buyer:%s:active", buyerID)
}

// record is the stored shape. The domain type is kept free of storage tags.
type record struct {
	ID              string            `json:"id"`
	BuyerID         string            `json:"buyer_id"`
	Items           []domain.LineItem `json:"items"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	ClientSecret    string            `json:"client_secret,omitempty"`
	Version         int64             `json:"version"`
	Active          bool              `json:"active"`
	CreatedAt       time.Time         `json:"created_at"`
}

func toRecord(b *domain.Basket) record {
	return record{
		ID:              b.ID,
		BuyerID:         b.BuyerID,
		Items:           b.Items,
		PaymentIntentID: b.PaymentIntentID,
		ClientSecret:    b.ClientSecret,
		Version:         b.Version,
		Active:          b.Active,
		CreatedAt:       b.CreatedAt,
	}
}

func (rec record) toDomain() *domain.Basket {
	return &domain.Basket{
		ID:              rec.ID,
		BuyerID:         rec.BuyerID,
		Items:           rec.Items,
		PaymentIntentID: rec.PaymentIntentID,
		ClientSecret:    rec.ClientSecret,
		Version:         rec.Version,
		Active:          rec.Active,
		CreatedAt:       rec.CreatedAt,
	}
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Basket, error) {
	raw, err := r.client.Get(ctx, basketKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get basket %q: %w", id, err)
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("redis: decode basket %q: %w", id, err)
	}
	return rec.toDomain(), nil
}

func (r *Repository) FindActiveByBuyer(ctx context.Context, buyerID string) (*domain.Basket, error) {
	id, err := r.client.Get(ctx, buyerKey(buyerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: lookup active basket for buyer %q: %w", buyerID, err)
	}

	b, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Active {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

// Save writes the basket if and only if the stored version still matches
// b.Version. The WATCH protects the read-check-write; when another client
// touches the key mid-transaction, go-redis returns TxFailedErr and we
// report it as a version conflict as well.
func (r *Repository) Save(ctx context.Context, b *domain.Basket) error {
	key := basketKey(b.ID)

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			if b.Version != 0 {
				return repository.ErrNotFound
			}
		case err != nil:
			return fmt.Errorf("redis: read basket %q: %w", b.ID, err)
		default:
			var stored record
			if err := json.Unmarshal([]byte(raw), &stored); err != nil {
				return fmt.Errorf("redis: decode basket %q: %w", b.ID, err)
			}
			if stored.Version != b.Version {
				return repository.ErrVersionConflict
			}
		}

		rec := toRecord(b)
		rec.Version = b.Version + 1
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("redis: encode basket %q: %w", b.ID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			if rec.Active {
				pipe.Set(ctx, buyerKey(rec.BuyerID), rec.ID, r.ttl)
			} else {
				pipe.Del(ctx, buyerKey(rec.BuyerID))
			}
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		return repository.ErrVersionConflict
	}
	if err != nil {
		return err
	}

	b.Version++
	return nil
}
