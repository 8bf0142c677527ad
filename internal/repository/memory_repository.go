package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/participant-service/internal/domain"
)

// MemoryParticipantRepository is a mutex-guarded map implementation with the
// same key semantics as the Redis store. It backs unit tests and local runs
// without a Redis instance.
type MemoryParticipantRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Participant
}

// NewMemoryParticipantRepository builds an empty in-memory store.
func NewMemoryParticipantRepository() *MemoryParticipantRepository {
	return &MemoryParticipantRepository{records: make(map[string]domain.Participant)}
}

func (r *MemoryParticipantRepository) Get(ctx context.Context, email string) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (r *MemoryParticipantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[participant.Email]; ok {
		return ErrAlreadyExists
	}
	r.records[participant.Email] = *participant
	return nil
}

func (r *MemoryParticipantRepository) Put(ctx context.Context, participant *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[participant.Email] = *participant
	return nil
}

func (r *MemoryParticipantRepository) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[email]; !ok {
		return ErrNotFound
	}
	delete(r.records, email)
	return nil
}

func (r *MemoryParticipantRepository) ListEmails(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emails := make([]string, 0, len(r.records))
	for email := range r.records {
		emails = append(emails, email)
	}
	return emails, nil
}
