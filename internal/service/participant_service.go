package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/participant-service/internal/api/dto"
	"github.com/spec-kit/participant-service/internal/domain"
	"github.com/spec-kit/participant-service/internal/events"
	"github.com/spec-kit/participant-service/internal/repository"
	"github.com/spec-kit/participant-service/internal/validation"
	apperrors "github.com/spec-kit/participant-service/pkg/util"
)

const defaultListFanoutLimit = 8

// ParticipantService owns the participant lifecycle: creation with uniqueness
// enforcement, full-record replace, soft delete, active-gated reads and the
// list fan-out over the key-value store.
type ParticipantService struct {
	participants repository.ParticipantRepository
	dispatcher   events.Dispatcher
	fanoutLimit  int
}

// ParticipantDependencies bundles collaborators for the participant service.
type ParticipantDependencies struct {
	ParticipantRepo repository.ParticipantRepository
	Dispatcher      events.Dispatcher
	ListFanoutLimit int
}

// NewParticipantService constructs the service.
func NewParticipantService(deps ParticipantDependencies) *ParticipantService {
	limit := deps.ListFanoutLimit
	if limit <= 0 {
		limit = defaultListFanoutLimit
	}
	return &ParticipantService{
		participants: deps.ParticipantRepo,
		dispatcher:   deps.Dispatcher,
		fanoutLimit:  limit,
	}
}

// Create validates the payload and stores a new participant. The record is
// always created active; a client-supplied active flag is ignored and state
// transitions only happen through Replace and SoftDelete. The write is a
// conditional put, so two concurrent creates for one email cannot both win.
func (s *ParticipantService) Create(ctx context.Context, req dto.ParticipantRequest) (*domain.Participant, error) {
	if errs := validation.ValidateParticipant(req, false); len(errs) > 0 {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{"errors": errs})
	}

	now := time.Now().UTC()
	participant := &domain.Participant{
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		DOB:       req.DOB,
		Active:    true,
		Work:      workFromPayload(req.Work),
		Home:      homeFromPayload(req.Home),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.participants.Create(ctx, participant); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperrors.NewConflict(
				fmt.Sprintf("participant with email '%s' already exists", participant.Email),
				map[string]any{"email": participant.Email},
			)
		}
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventParticipantCreated,
		Email:   participant.Email,
		Payload: events.ParticipantCreatedPayload{Participant: *participant},
	})
	return participant, nil
}

// Replace overwrites the full record for an existing participant. Every field
// including the active flag comes from the payload; the email key and the
// creation timestamp are the only things preserved.
func (s *ParticipantService) Replace(ctx context.Context, req dto.ParticipantRequest) (*domain.Participant, error) {
	if errs := validation.ValidateParticipant(req, true); len(errs) > 0 {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{"errors": errs})
	}

	email := strings.TrimSpace(req.Email)
	existing, err := s.participants.Get(ctx, email)
	if err != nil {
		return nil, s.mapLookupError(err, email)
	}

	updated := &domain.Participant{
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		DOB:       req.DOB,
		Active:    *req.Active,
		Work:      workFromPayload(req.Work),
		Home:      homeFromPayload(req.Home),
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.participants.Put(ctx, updated); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventParticipantReplaced,
		Email:   email,
		Payload: events.ParticipantReplacedPayload{Old: *existing, New: *updated},
	})
	return updated, nil
}

// SoftDelete marks the participant inactive while preserving every other
// field. Deleting an already inactive participant succeeds and stays a no-op.
func (s *ParticipantService) SoftDelete(ctx context.Context, email string) (*domain.Participant, error) {
	existing, err := s.participants.Get(ctx, email)
	if err != nil {
		return nil, s.mapLookupError(err, email)
	}

	updated := *existing
	updated.Active = false
	updated.UpdatedAt = time.Now().UTC()

	if err := s.participants.Put(ctx, &updated); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventParticipantSoftDeleted,
		Email:   email,
		Payload: events.ParticipantSoftDeletedPayload{Old: *existing, New: updated},
	})
	return &updated, nil
}

// Get returns the stored record regardless of its active flag.
func (s *ParticipantService) Get(ctx context.Context, email string) (*domain.Participant, error) {
	participant, err := s.participants.Get(ctx, email)
	if err != nil {
		return nil, s.mapLookupError(err, email)
	}
	return participant, nil
}

// GetActive returns the record only when it is active; soft deleted
// participants are reported as missing.
func (s *ParticipantService) GetActive(ctx context.Context, email string) (*domain.Participant, error) {
	participant, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if !participant.Active {
		return nil, notFound(email)
	}
	return participant, nil
}

// WorkProfile projects the work sub-object of an active participant.
func (s *ParticipantService) WorkProfile(ctx context.Context, email string) (*domain.WorkInfo, error) {
	participant, err := s.GetActive(ctx, email)
	if err != nil {
		return nil, err
	}
	work := participant.Work
	return &work, nil
}

// HomeProfile projects the home sub-object of an active participant.
func (s *ParticipantService) HomeProfile(ctx context.Context, email string) (*domain.HomeInfo, error) {
	participant, err := s.GetActive(ctx, email)
	if err != nil {
		return nil, err
	}
	home := participant.Home
	return &home, nil
}

// ListAll materializes every stored participant. The store only enumerates
// keys, so each record is fetched individually; fetches run concurrently with
// bounded parallelism. Any failed fetch fails the whole listing, except keys
// that vanish between enumeration and fetch, which are skipped. No ordering
// is guaranteed.
func (s *ParticipantService) ListAll(ctx context.Context) ([]domain.Participant, error) {
	emails, err := s.participants.ListEmails(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if len(emails) == 0 {
		return []domain.Participant{}, nil
	}

	results := make([]*domain.Participant, len(emails))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanoutLimit)

	for i, email := range emails {
		i, email := i, email
		g.Go(func() error {
			participant, err := s.participants.Get(gctx, email)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = participant
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	list := make([]domain.Participant, 0, len(results))
	for _, participant := range results {
		if participant != nil {
			list = append(list, *participant)
		}
	}
	return list, nil
}

// ListActive returns participants whose active flag is set.
func (s *ParticipantService) ListActive(ctx context.Context) ([]domain.Participant, error) {
	return s.listFiltered(ctx, func(p domain.Participant) bool { return p.Active })
}

// ListDeleted returns soft deleted participants. The predicate is "not
// active" so records missing the flag count as deleted.
func (s *ParticipantService) ListDeleted(ctx context.Context) ([]domain.Participant, error) {
	return s.listFiltered(ctx, func(p domain.Participant) bool { return !p.Active })
}

func (s *ParticipantService) listFiltered(ctx context.Context, keep func(domain.Participant) bool) ([]domain.Participant, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.Participant, 0, len(all))
	for _, participant := range all {
		if keep(participant) {
			filtered = append(filtered, participant)
		}
	}
	return filtered, nil
}

func (s *ParticipantService) mapLookupError(err error, email string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(email)
	}
	return apperrors.NewStorageError(err)
}

func (s *ParticipantService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func notFound(email string) error {
	return apperrors.NewNotFound(
		fmt.Sprintf("participant with email '%s'", email),
		map[string]any{"email": email},
	)
}

func workFromPayload(payload *dto.WorkPayload) domain.WorkInfo {
	if payload == nil {
		return domain.WorkInfo{}
	}
	return domain.WorkInfo{
		CompanyName: payload.CompanyName,
		Salary:      payload.Salary,
		Currency:    payload.Currency,
	}
}

func homeFromPayload(payload *dto.HomePayload) domain.HomeInfo {
	if payload == nil {
		return domain.HomeInfo{}
	}
	return domain.HomeInfo{
		Country: payload.Country,
		City:    payload.City,
	}
}
