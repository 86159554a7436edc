package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civicflo/report-service/internal/api/dto"
	"github.com/civicflo/report-service/internal/service"
	"github.com/civicflo/report-service/internal/storage"
	apperrors "github.com/civicflo/report-service/pkg/util"
)

// TicketsHandler serves the ticket listing, status workflow and seeding.
type TicketsHandler struct {
	query    *service.QueryService
	workflow *service.WorkflowService
	seed     *service.SeedService
	uploads  *storage.UploadSaver
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(query *service.QueryService, workflow *service.WorkflowService, seed *service.SeedService, uploads *storage.UploadSaver) *TicketsHandler {
	return &TicketsHandler{query: query, workflow: workflow, seed: seed, uploads: uploads}
}

// ListTickets GET /tickets. Full snapshot, highest priority first.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.query.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// UpdateStatus PUT /tickets/:id/status. Kanban move.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Status) == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	ticket, reward, err := h.workflow.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.UpdateStatusResponse{
		Message:      fmt.Sprintf("Ticket moved to %s", ticket.Status),
		Ticket:       *ticket,
		RewardPoints: reward,
	})
}

// MarkFixed POST /tickets/:id/fix. Optional proof-of-work image; the move
// itself goes through the same workflow as any other status change.
func (h *TicketsHandler) MarkFixed(c *fiber.Ctx) error {
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			return apperrors.NewInternalError(readErr)
		}
		if _, err := h.uploads.Save(fileHeader.Filename, data); err != nil {
			return apperrors.NewInternalError(err)
		}
	}

	ticket, reward, err := h.workflow.MarkFixed(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.UpdateStatusResponse{
		Message:      "Ticket marked as fixed",
		Ticket:       *ticket,
		RewardPoints: reward,
	})
}

// Seed POST /seed. Demo data convenience.
func (h *TicketsHandler) Seed(c *fiber.Ctx) error {
	count, err := h.seed.SeedDemo(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.SeedResponse{Message: "Demo data seeded!", Count: count})
}
