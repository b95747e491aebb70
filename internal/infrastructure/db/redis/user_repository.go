package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// Key layout:
//
//	users:seq             last issued id
//	users:ids             list of ids in insertion order
//	users:<id>            JSON record
//	users:byname:<name>   id claimed by username
//	users:byemail:<email> id claimed by email
const (
	keySeq     = "users:seq"
	keyIDs     = "users:ids"
	keyRecord  = "users:%d"
	keyByName  = "users:byname:%s"
	keyByEmail = "users:byemail:%s"
	keyPattern = "users:*"
)

// UserRepository keeps users in Redis. Username and email uniqueness is
// claimed with SETNX before the record is written.
type UserRepository struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	nameKey := fmt.Sprintf(keyByName, user.Username)
	emailKey := fmt.Sprintf(keyByEmail, user.Email)

	ok, err := r.client.SetNX(ctx, nameKey, "pending", 0).Result()
	if err != nil {
		return nil, fmt.Errorf("claim username: %w", err)
	}
	if !ok {
		return nil, domain.ErrUserExists
	}

	ok, err = r.client.SetNX(ctx, emailKey, "pending", 0).Result()
	if err != nil || !ok {
		r.client.Del(ctx, nameKey)
		if err != nil {
			return nil, fmt.Errorf("claim email: %w", err)
		}
		return nil, domain.ErrUserExists
	}

	id, err := r.client.Incr(ctx, keySeq).Result()
	if err != nil {
		r.client.Del(ctx, nameKey, emailKey)
		return nil, fmt.Errorf("next user id: %w", err)
	}

	stored := *user
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(stored)
	if err != nil {
		r.client.Del(ctx, nameKey, emailKey)
		return nil, fmt.Errorf("encode user: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, fmt.Sprintf(keyRecord, id), data, 0)
		p.Set(ctx, nameKey, id, 0)
		p.Set(ctx, emailKey, id, 0)
		p.RPush(ctx, keyIDs, id)
		return nil
	})
	if err != nil {
		r.client.Del(ctx, nameKey, emailKey)
		return nil, fmt.Errorf("store user: %w", err)
	}
	return &stored, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findByIndex(ctx, fmt.Sprintf(keyByName, username))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByIndex(ctx, fmt.Sprintf(keyByEmail, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf(keyRecord, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	ids, err := r.client.LRange(ctx, keyIDs, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}

	users := make([]domain.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "users:" + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var u domain.User
		if err := json.Unmarshal([]byte(s), &u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

// Clear deletes every users:* key, including the id sequence.
func (r *UserRepository) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan user keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *UserRepository) findByIndex(ctx context.Context, key string) (*domain.User, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user index: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Claimed by a Create still in flight.
		return nil, nil
	}
	return r.FindByID(ctx, id)
}
