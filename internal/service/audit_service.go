package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/participant-service/internal/domain"
	"github.com/spec-kit/participant-service/internal/events"
	"github.com/spec-kit/participant-service/internal/repository"
)

// AuditService records participant lifecycle transitions into the history
// table. Recording is best-effort: a failed insert is logged and never fails
// the request that produced the event.
type AuditService struct {
	dispatcher events.Dispatcher
	history    repository.ParticipantHistoryRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, history repository.ParticipantHistoryRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		history:    history,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil || a.history == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventParticipantCreated, a.handleCreated)
	a.dispatcher.Subscribe(events.EventParticipantReplaced, a.handleReplaced)
	a.dispatcher.Subscribe(events.EventParticipantSoftDeleted, a.handleSoftDeleted)
}

func (a *AuditService) handleCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ParticipantCreatedPayload)
	if !ok {
		return nil
	}
	a.record(ctx, event.Email, domain.HistoryChangeCreated, nil, &payload.Participant)
	return nil
}

func (a *AuditService) handleReplaced(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ParticipantReplacedPayload)
	if !ok {
		return nil
	}
	a.record(ctx, event.Email, domain.HistoryChangeReplaced, &payload.Old, &payload.New)
	return nil
}

func (a *AuditService) handleSoftDeleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ParticipantSoftDeletedPayload)
	if !ok {
		return nil
	}
	a.record(ctx, event.Email, domain.HistoryChangeSoftDeleted, &payload.Old, &payload.New)
	return nil
}

// History lists recorded transitions for one participant.
func (a *AuditService) History(ctx context.Context, email string) ([]domain.ParticipantHistory, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.ListByEmail(ctx, email)
}

func (a *AuditService) record(ctx context.Context, email string, change domain.HistoryChangeType, old, updated *domain.Participant) {
	entry := &domain.ParticipantHistory{
		Email:      email,
		ChangeType: change,
		OldValue:   snapshot(old),
		NewValue:   snapshot(updated),
	}
	if err := a.history.Create(ctx, entry); err != nil {
		a.logger.Warn("failed to record participant history",
			zap.String("email", email),
			zap.String("change_type", string(change)),
			zap.Error(err))
	}
}

func snapshot(participant *domain.Participant) *string {
	if participant == nil {
		return nil
	}
	raw, err := json.Marshal(participant)
	if err != nil {
		return nil
	}
	encoded := string(raw)
	return &encoded
}
