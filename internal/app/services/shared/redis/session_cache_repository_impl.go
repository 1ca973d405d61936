package redis

import (
	"claimdesk-service/internal/app/contracts"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/dto/responses"
	"claimdesk-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type sessionCacheRepository struct {
	client *redis.Client
}

func NewSessionCacheRepository(client *redis.Client) contracts.SessionCacheRepository {
	return &sessionCacheRepository{client: client}
}

func (r *sessionCacheRepository) SaveSnapshot(ctx context.Context, claimID string, snapshot *responses.ClaimSnapshot) error {
	jsonValue, err := json.Marshal(snapshot)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	key := fmt.Sprintf(constvars.RedisKeyClaimSessionFormat, claimID)
	err = r.client.Set(ctx, key, jsonValue, constvars.ClaimSessionCacheTTLHours*time.Hour).Err()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

func (r *sessionCacheRepository) GetSnapshot(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error) {
	key := fmt.Sprintf(constvars.RedisKeyClaimSessionFormat, claimID)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrRedisGetNoData(err, key)
	}

	var snapshot responses.ClaimSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &snapshot, nil
}

func (r *sessionCacheRepository) DeleteSnapshot(ctx context.Context, claimID string) error {
	key := fmt.Sprintf(constvars.RedisKeyClaimSessionFormat, claimID)
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return nil
}
