package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"coa-service/internal/entities"
	apperrors "coa-service/pkg/errors"
)

const (
	workingSetKeyFmt  = "coa:session:%s:accounts"
	sessionMetaKeyFmt = "coa:session:%s:meta"
)

// WorkingSetRepositoryInterface stores per-session working copies of the COA
// plus session metadata.
type WorkingSetRepositoryInterface interface {
	SaveAccounts(ctx context.Context, sessionID string, accounts []entities.Account, ttl time.Duration) error
	GetAccounts(ctx context.Context, sessionID string) ([]entities.Account, error)
	SaveMeta(ctx context.Context, meta entities.SessionMeta, ttl time.Duration) error
	GetMeta(ctx context.Context, sessionID string) (*entities.SessionMeta, error)
	Delete(ctx context.Context, sessionID string) error
}

type workingSetRepository struct {
	client *redis.Client
}

func NewWorkingSetRepository(client *redis.Client) WorkingSetRepositoryInterface {
	return &workingSetRepository{client: client}
}

func (r *workingSetRepository) SaveAccounts(ctx context.Context, sessionID string, accounts []entities.Account, ttl time.Duration) error {
	payload, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("marshaling working set: %w", err)
	}
	return r.client.Set(ctx, fmt.Sprintf(workingSetKeyFmt, sessionID), payload, ttl).Err()
}

func (r *workingSetRepository) GetAccounts(ctx context.Context, sessionID string) ([]entities.Account, error) {
	payload, err := r.client.Get(ctx, fmt.Sprintf(workingSetKeyFmt, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var accounts []entities.Account
	if err := json.Unmarshal([]byte(payload), &accounts); err != nil {
		return nil, fmt.Errorf("unmarshaling working set: %w", err)
	}
	return accounts, nil
}

func (r *workingSetRepository) SaveMeta(ctx context.Context, meta entities.SessionMeta, ttl time.Duration) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling session meta: %w", err)
	}
	return r.client.Set(ctx, fmt.Sprintf(sessionMetaKeyFmt, meta.SessionID), payload, ttl).Err()
}

func (r *workingSetRepository) GetMeta(ctx context.Context, sessionID string) (*entities.SessionMeta, error) {
	payload, err := r.client.Get(ctx, fmt.Sprintf(sessionMetaKeyFmt, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var meta entities.SessionMeta
	if err := json.Unmarshal([]byte(payload), &meta); err != nil {
		return nil, fmt.Errorf("unmarshaling session meta: %w", err)
	}
	return &meta, nil
}

func (r *workingSetRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx,
		fmt.Sprintf(workingSetKeyFmt, sessionID),
		fmt.Sprintf(sessionMetaKeyFmt, sessionID),
	).Err()
}
