package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/participant-service/internal/domain"
)

// participantKeyPrefix namespaces participant records in the store.
const participantKeyPrefix = "participant:"

// ParticipantRepository defines key-value persistence for participants. The
// email is the key; the backing store offers no queries beyond key listing.
type ParticipantRepository interface {
	// Get returns the record for the email, ErrNotFound when absent.
	Get(ctx context.Context, email string) (*domain.Participant, error)
	// Create writes the record only if the key is free; ErrAlreadyExists
	// otherwise. This is the conditional put that keeps creation race-free.
	Create(ctx context.Context, participant *domain.Participant) error
	// Put unconditionally overwrites the full record.
	Put(ctx context.Context, participant *domain.Participant) error
	// Delete physically removes the record. Not part of the normal
	// lifecycle; soft deletes go through Put.
	Delete(ctx context.Context, email string) error
	// ListEmails enumerates every stored participant key. Order is
	// whatever the store yields.
	ListEmails(ctx context.Context) ([]string, error)
}

type redisParticipantRepository struct {
	client *redis.Client
}

// NewParticipantRepository returns a Redis-backed implementation.
func NewParticipantRepository(client *redis.Client) ParticipantRepository {
	return &redisParticipantRepository{client: client}
}

func (r *redisParticipantRepository) Get(ctx context.Context, email string) (*domain.Participant, error) {
	raw, err := r.client.Get(ctx, participantKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get participant %q: %w", email, err)
	}

	var participant domain.Participant
	if err := json.Unmarshal([]byte(raw), &participant); err != nil {
		return nil, fmt.Errorf("decode participant %q: %w", email, err)
	}
	return &participant, nil
}

func (r *redisParticipantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	raw, err := json.Marshal(participant)
	if err != nil {
		return fmt.Errorf("encode participant %q: %w", participant.Email, err)
	}

	created, err := r.client.SetNX(ctx, participantKey(participant.Email), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("create participant %q: %w", participant.Email, err)
	}
	if !created {
		return ErrAlreadyExists
	}
	return nil
}

func (r *redisParticipantRepository) Put(ctx context.Context, participant *domain.Participant) error {
	raw, err := json.Marshal(participant)
	if err != nil {
		return fmt.Errorf("encode participant %q: %w", participant.Email, err)
	}

	if err := r.client.Set(ctx, participantKey(participant.Email), raw, 0).Err(); err != nil {
		return fmt.Errorf("put participant %q: %w", participant.Email, err)
	}
	return nil
}

func (r *redisParticipantRepository) Delete(ctx context.Context, email string) error {
	deleted, err := r.client.Del(ctx, participantKey(email)).Result()
	if err != nil {
		return fmt.Errorf("delete participant %q: %w", email, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *redisParticipantRepository) ListEmails(ctx context.Context) ([]string, error) {
	emails := make([]string, 0)

	iter := r.client.Scan(ctx, 0, participantKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		emails = append(emails, strings.TrimPrefix(iter.Val(), participantKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list participant keys: %w", err)
	}
	return emails, nil
}

func participantKey(email string) string {
	return participantKeyPrefix + email
}
