package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"foodie/assistant-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// MaxHistory bounds the stored conversation per session.
const MaxHistory = 50

type RedisStore struct {
	Client     *redis.Client
	SessionTTL time.Duration
	QuoteTTL   time.Duration
}

func NewRedisStore(client *redis.Client, sessionTTL, quoteTTL time.Duration) *RedisStore {
	return &RedisStore{
		Client:     client,
		SessionTTL: sessionTTL,
		QuoteTTL:   quoteTTL,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func historyKey(id string) string {
	return "session:" + id + ":history"
}

func quoteKey(customerID int, fingerprint string) string {
	return fmt.Sprintf("quote:%d:%s", customerID, fingerprint)
}

func (s *RedisStore) CreateSession(ctx context.Context, session domain.Session) error {
	key := sessionKey(session.ID)
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"customer_id": session.CustomerID,
			"name":        session.Name,
			"language":    session.Language,
			"turn":        session.Turn,
			"created_at":  session.CreatedAt.Unix(),
		})
		pipe.Expire(ctx, key, s.SessionTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *RedisStore) Session(ctx context.Context, id string) (*domain.Session, error) {
	fields, err := s.Client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	customerID, _ := strconv.Atoi(fields["customer_id"])
	turn, _ := strconv.Atoi(fields["turn"])
	created, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	return &domain.Session{
		ID:         id,
		CustomerID: customerID,
		Name:       fields["name"],
		Language:   fields["language"],
		Turn:       turn,
		CreatedAt:  time.Unix(created, 0).UTC(),
	}, nil
}

// BeginTurn increments the turn counter and refreshes the session expiry.
func (s *RedisStore) BeginTurn(ctx context.Context, id string) (int, error) {
	key := sessionKey(id)
	exists, err := s.Client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to begin turn: %w", err)
	}
	if exists == 0 {
		return 0, domain.ErrSessionNotFound
	}

	var incr *redis.IntCmd
	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, "turn", 1)
		pipe.Expire(ctx, key, s.SessionTTL)
		pipe.Expire(ctx, historyKey(id), s.SessionTTL)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to begin turn: %w", err)
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) AppendHistory(ctx context.Context, id string, messages ...domain.Message) error {
	if len(messages) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	key := historyKey(id)
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, -MaxHistory, -1)
		pipe.Expire(ctx, key, s.SessionTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// History returns the last limit messages oldest first, or all of them when
// limit is not positive.
func (s *RedisStore) History(ctx context.Context, id string, limit int) ([]domain.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	raw, err := s.Client.LRange(ctx, historyKey(id), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	messages := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (s *RedisStore) SaveQuote(ctx context.Context, customerID int, token domain.QuoteToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err := s.Client.Set(ctx, quoteKey(customerID, token.Fingerprint), data, s.QuoteTTL).Err(); err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}
	return nil
}

// Quote returns nil without error when no live token exists.
func (s *RedisStore) Quote(ctx context.Context, customerID int, fingerprint string) (*domain.QuoteToken, error) {
	data, err := s.Client.Get(ctx, quoteKey(customerID, fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}

	var token domain.QuoteToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}
	return &token, nil
}

func (s *RedisStore) DeleteQuote(ctx context.Context, customerID int, fingerprint string) error {
	if err := s.Client.Del(ctx, quoteKey(customerID, fingerprint)).Err(); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	return nil
}
