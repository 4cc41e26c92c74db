// Package redisstore shares pending verification codes between API nodes.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/notify"
)

const (
	codeKeyTpl = "verification:%s" // verification:${userID}

	// expired codes are kept a little longer so a late attempt reads as expired rather than unknown
	expiryGrace = time.Hour
)

// NewClient connects to the Redis server at conf.Redis.URL.
func NewClient(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(conf.Redis.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

type codeStore struct {
	redis *redis.Client
}

var _ notify.CodeStore = (*codeStore)(nil)

func NewCodeStore(client *redis.Client) notify.CodeStore {
	return &codeStore{redis: client}
}

func (s *codeStore) Put(ctx context.Context, code notify.PendingCode) error {
	key := fmt.Sprintf(codeKeyTpl, code.UserID)
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]interface{}{
			"email":      code.Email,
			"code":       code.Code,
			"expires_at": code.ExpiresAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.PExpireAt(ctx, key, code.ExpiresAt.Add(expiryGrace))
		return nil
	})
	if err != nil {
		return errors.Wrapf(core.ErrStoreUnavailable, "storing verification code: %v", err)
	}
	return nil
}

func (s *codeStore) Get(ctx context.Context, userID string) (notify.PendingCode, error) {
	fields, err := s.redis.HGetAll(ctx, fmt.Sprintf(codeKeyTpl, userID)).Result()
	if err != nil {
		return notify.PendingCode{}, errors.Wrapf(core.ErrStoreUnavailable, "reading verification code: %v", err)
	}
	if len(fields) == 0 {
		return notify.PendingCode{}, notify.ErrCodeNotFound
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return notify.PendingCode{}, errors.Wrap(err, "parsing verification code expiry")
	}
	return notify.PendingCode{
		UserID:    userID,
		Email:     fields["email"],
		Code:      fields["code"],
		ExpiresAt: expiresAt,
	}, nil
}

func (s *codeStore) Delete(ctx context.Context, userID string) error {
	if err := s.redis.Del(ctx, fmt.Sprintf(codeKeyTpl, userID)).Err(); err != nil {
		return errors.Wrapf(core.ErrStoreUnavailable, "deleting verification code: %v", err)
	}
	return nil
}
