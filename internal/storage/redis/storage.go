package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Member operations

func (s *Storage) SaveMember(ctx context.Context, member *model.Member) error {
	data, err := json.Marshal(member)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, memberKey(member.ID), data, 0).Err()
}

func (s *Storage) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	data, err := s.client.Get(ctx, memberKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMemberNotFound
		}
		return nil, err
	}

	var member model.Member
	if err := json.Unmarshal(data, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Storage) DeleteMember(ctx context.Context, id model.MemberID) error {
	return s.client.Del(ctx, memberKey(id)).Err()
}

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, credentialKey(cred.MemberID), data, 0)
	pipe.Set(ctx, loginIDIndexKey(cred.LoginID), string(cred.MemberID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredential(ctx context.Context, memberID model.MemberID) (*model.Credential, error) {
	data, err := s.client.Get(ctx, credentialKey(memberID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMemberNotFound
		}
		return nil, err
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (s *Storage) GetCredentialByLoginID(ctx context.Context, loginID string) (*model.Credential, error) {
	memberID, err := s.client.Get(ctx, loginIDIndexKey(loginID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMemberNotFound
		}
		return nil, err
	}

	return s.GetCredential(ctx, model.MemberID(memberID))
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	key := sessionKey(session.Token)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.SessionTTL)
	pipe.SAdd(ctx, sessionsIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	key := sessionKey(token)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, sessionsIndexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	keys, err := s.client.SMembers(ctx, sessionsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.Session{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*model.Session, 0, len(values))
	var stale []any
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			// Expired by TTL, drop it from the index
			stale = append(stale, keys[i])
			continue
		}
		var session model.Session
		if err := json.Unmarshal([]byte(str), &session); err != nil {
			continue // Skip invalid data
		}
		sessions = append(sessions, &session)
	}

	if len(stale) > 0 {
		if err := s.client.SRem(ctx, sessionsIndexKey(), stale...).Err(); err != nil {
			return nil, err
		}
	}

	return sessions, nil
}
