//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/spec-kit/participant-service/internal/domain"
)

func newRedisRepository(t *testing.T) ParticipantRepository {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return NewParticipantRepository(client)
}

func sampleParticipant(email string) *domain.Participant {
	return &domain.Participant{
		Email:     email,
		FirstName: "A",
		LastName:  "B",
		DOB:       "1990-01-01",
		Active:    true,
		Work:      domain.WorkInfo{CompanyName: "Acme", Salary: 50000, Currency: "EUR"},
		Home:      domain.HomeInfo{Country: "NL", City: "Amsterdam"},
	}
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	repo := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleParticipant("a@x.com")))

	stored, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.Work.CompanyName)
	assert.Equal(t, "Amsterdam", stored.Home.City)
	assert.True(t, stored.Active)
}

func TestRedisRepositoryCreateIsConditional(t *testing.T) {
	repo := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleParticipant("a@x.com")))

	second := sampleParticipant("a@x.com")
	second.FirstName = "Other"
	require.ErrorIs(t, repo.Create(ctx, second), ErrAlreadyExists)

	stored, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", stored.FirstName)
}

func TestRedisRepositoryGetMissing(t *testing.T) {
	repo := newRedisRepository(t)

	_, err := repo.Get(context.Background(), "missing@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisRepositoryPutOverwrites(t *testing.T) {
	repo := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleParticipant("a@x.com")))

	updated := sampleParticipant("a@x.com")
	updated.Active = false
	require.NoError(t, repo.Put(ctx, updated))

	stored, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestRedisRepositoryDeleteAndList(t *testing.T) {
	repo := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleParticipant("a@x.com")))
	require.NoError(t, repo.Create(ctx, sampleParticipant("b@x.com")))

	emails, err := repo.ListEmails(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, emails)

	require.NoError(t, repo.Delete(ctx, "a@x.com"))
	require.ErrorIs(t, repo.Delete(ctx, "a@x.com"), ErrNotFound)

	emails, err = repo.ListEmails(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b@x.com"}, emails)
}
