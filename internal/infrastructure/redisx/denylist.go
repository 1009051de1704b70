// Package redisx adaptadores sobre Redis. Por ahora solo la denylist de
// tokens revocados en logout.
package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
)

var _ auth.TokenDenylist = (*Denylist)(nil)

// Denylist guarda los jti revocados con TTL igual a la vida restante del
// token: expirado el token, la clave desaparece sola.
type Denylist struct {
	client *redis.Client
}

// NewDenylist construye la denylist sobre un cliente Redis ya conectado.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

func key(jti string) string { return "denylist:" + jti }

// Deny marca el jti como revocado hasta until.
func (d *Denylist) Deny(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // ya expiró, nada que revocar
	}
	if err := d.client.Set(ctx, key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("denylist set: %w", err)
	}
	return nil
}

// Denied indica si el jti fue revocado.
func (d *Denylist) Denied(ctx context.Context, jti string) (bool, error) {
	err := d.client.Get(ctx, key(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("denylist get: %w", err)
	}
	return true, nil
}
