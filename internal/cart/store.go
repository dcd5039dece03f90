package cart

import (
	"context"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
	"github.com/angelmondragon/storefront-checkout/pkg/redis"
)

// Store keeps cart quantities in a Redis hash per owner (field = product id).
// Every write slides the hash TTL.
type Store struct {
	redis redis.HashStore
	ttl   time.Duration
}

func NewStore(client redis.HashStore, ttl time.Duration) *Store {
	return &Store{redis: client, ttl: ttl}
}

// Quantities returns the quantity-by-product mapping. Malformed or
// non-positive entries are skipped.
func (s *Store) Quantities(ctx context.Context, owner Owner) (map[string]int, error) {
	if err := owner.validate(); err != nil {
		return nil, err
	}
	fields, err := s.redis.HGetAll(ctx, s.redis.CartKey(owner.String()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
	}
	out := make(map[string]int, len(fields))
	for id, raw := range fields {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			continue
		}
		out[id] = qty
	}
	return out, nil
}

// Add increases the quantity of productID by qty and returns the new quantity.
func (s *Store) Add(ctx context.Context, owner Owner, productID string, qty int) (int, error) {
	if err := owner.validate(); err != nil {
		return 0, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	if qty <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	key := s.redis.CartKey(owner.String())
	total, err := s.redis.HIncrBy(ctx, key, productID, int64(qty))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
	}
	if err := s.redis.Expire(ctx, key, s.ttl); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh cart ttl")
	}
	return int(total), nil
}

// Decrement lowers the quantity of productID by one. Quantities never drop
// below one; use Remove to delete the line.
func (s *Store) Decrement(ctx context.Context, owner Owner, productID string) (int, error) {
	quantities, err := s.Quantities(ctx, owner)
	if err != nil {
		return 0, err
	}
	productID = strings.TrimSpace(productID)
	current, ok := quantities[productID]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	if current <= 1 {
		return current, nil
	}
	key := s.redis.CartKey(owner.String())
	total, err := s.redis.HIncrBy(ctx, key, productID, -1)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
	}
	if err := s.redis.Expire(ctx, key, s.ttl); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh cart ttl")
	}
	return int(total), nil
}

// Remove deletes productID from the cart.
func (s *Store) Remove(ctx context.Context, owner Owner, productID string) error {
	if err := owner.validate(); err != nil {
		return err
	}
	if err := s.redis.HDel(ctx, s.redis.CartKey(owner.String()), strings.TrimSpace(productID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return nil
}

// Clear empties the owner's cart.
func (s *Store) Clear(ctx context.Context, owner Owner) error {
	if err := owner.validate(); err != nil {
		return err
	}
	if err := s.redis.Del(ctx, s.redis.CartKey(owner.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
