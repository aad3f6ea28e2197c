package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ledger:proposal:"

// Redis guarda as propostas com TTL nativo do Redis. Útil quando mais de
// uma instância do serviço atende a confirmação
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis { return &Redis{rdb: rdb} }

func (r *Redis) Put(ctx context.Context, p Proposal, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, keyPrefix+p.Token, b, ttl).Err()
}

func (r *Redis) Consume(ctx context.Context, token string) (*Proposal, error) {
	// GETDEL garante uso único mesmo com confirmações concorrentes
	val, err := r.rdb.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var p Proposal
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Redis) Delete(ctx context.Context, token string) error {
	n, err := r.rdb.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
