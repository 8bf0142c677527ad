package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/participant-service/internal/api/dto"
	"github.com/spec-kit/participant-service/internal/domain"
	"github.com/spec-kit/participant-service/internal/service"
	apperrors "github.com/spec-kit/participant-service/pkg/util"
)

// ParticipantsHandler exposes the participant lifecycle endpoints.
type ParticipantsHandler struct {
	service *service.ParticipantService
	audit   *service.AuditService
}

// NewParticipantsHandler constructs handler.
func NewParticipantsHandler(participantService *service.ParticipantService, auditService *service.AuditService) *ParticipantsHandler {
	return &ParticipantsHandler{service: participantService, audit: auditService}
}

// List GET /participants. Includes soft deleted records.
func (h *ParticipantsHandler) List(c *fiber.Ctx) error {
	participants, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": participantResponses(participants)})
}

// ListActive GET /participants/details.
func (h *ParticipantsHandler) ListActive(c *fiber.Ctx) error {
	participants, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": participantResponses(participants)})
}

// ListDeleted GET /participants/details/deleted.
func (h *ParticipantsHandler) ListDeleted(c *fiber.Ctx) error {
	participants, err := h.service.ListDeleted(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": participantResponses(participants)})
}

// GetDetails GET /participants/details/:email. Active participants only.
func (h *ParticipantsHandler) GetDetails(c *fiber.Ctx) error {
	participant, err := h.service.GetActive(c.UserContext(), emailParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ParticipantDetail{
		Name:     participant.FirstName,
		LastName: participant.LastName,
		Active:   participant.Active,
	}})
}

// GetWork GET /participants/work/:email.
func (h *ParticipantsHandler) GetWork(c *fiber.Ctx) error {
	work, err := h.service.WorkProfile(c.UserContext(), emailParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.WorkResponse{
		CompanyName: work.CompanyName,
		Salary:      work.Salary,
		Currency:    work.Currency,
	}})
}

// GetHome GET /participants/home/:email.
func (h *ParticipantsHandler) GetHome(c *fiber.Ctx) error {
	home, err := h.service.HomeProfile(c.UserContext(), emailParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.HomeResponse{
		Country: home.Country,
		City:    home.City,
	}})
}

// Create POST /participants.
func (h *ParticipantsHandler) Create(c *fiber.Ctx) error {
	var req dto.ParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	participant, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": participantResponse(participant)})
}

// Replace PUT /participants.
func (h *ParticipantsHandler) Replace(c *fiber.Ctx) error {
	var req dto.ParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	participant, err := h.service.Replace(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": participantResponse(participant)})
}

// SoftDelete DELETE /participants/:email.
func (h *ParticipantsHandler) SoftDelete(c *fiber.Ctx) error {
	participant, err := h.service.SoftDelete(c.UserContext(), emailParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": participantResponse(participant)})
}

// GetHistory GET /participants/history/:email. Lifecycle audit entries in
// chronological order; empty when history recording is not configured.
func (h *ParticipantsHandler) GetHistory(c *fiber.Ctx) error {
	entries, err := h.audit.History(c.UserContext(), emailParam(c))
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := dto.HistoryEntryResponse{
			ID:         entry.ID,
			Email:      entry.Email,
			ChangeType: string(entry.ChangeType),
			CreatedAt:  entry.CreatedAt,
		}
		if entry.OldValue != nil {
			item.OldValue = []byte(*entry.OldValue)
		}
		if entry.NewValue != nil {
			item.NewValue = []byte(*entry.NewValue)
		}
		items = append(items, item)
	}
	return c.JSON(fiber.Map{"data": items})
}

func emailParam(c *fiber.Ctx) string {
	raw := c.Params("email")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func participantResponse(participant *domain.Participant) dto.ParticipantResponse {
	return dto.ParticipantResponse{
		Email:     participant.Email,
		FirstName: participant.FirstName,
		LastName:  participant.LastName,
		DOB:       participant.DOB,
		Active:    participant.Active,
		Work: dto.WorkPayload{
			CompanyName: participant.Work.CompanyName,
			Salary:      participant.Work.Salary,
			Currency:    participant.Work.Currency,
		},
		Home: dto.HomePayload{
			Country: participant.Home.Country,
			City:    participant.Home.City,
		},
		CreatedAt: participant.CreatedAt,
		UpdatedAt: participant.UpdatedAt,
	}
}

func participantResponses(participants []domain.Participant) []dto.ParticipantResponse {
	items := make([]dto.ParticipantResponse, 0, len(participants))
	for i := range participants {
		items = append(items, participantResponse(&participants[i]))
	}
	return items
}
