package handlers

import (
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type StudentHandler struct {
	complaints *services.ComplaintService
}

func NewStudentHandler(complaints *services.ComplaintService) *StudentHandler {
	return &StudentHandler{complaints: complaints}
}

func (h *StudentHandler) ListComplaints(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	rows, err := h.complaints.ListForStudent(c.UserContext(), me.ID, dto.ComplaintFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	})
	if err != nil {
		return err
	}
	return ok(c, "", fiber.Map{"complaints": rows, "count": len(rows)})
}

func (h *StudentHandler) CreateComplaint(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	var req dto.CreateComplaintRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	complaint, err := h.complaints.Create(c.UserContext(), me.ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, "Complaint created successfully", fiber.Map{"complaint": complaint})
}

func (h *StudentHandler) GetComplaint(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}

	detail, err := h.complaints.GetForStudent(c.UserContext(), me.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "", detail)
}

func (h *StudentHandler) SubmitFeedback(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var req dto.FeedbackRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	feedback, err := h.complaints.SubmitFeedback(c.UserContext(), me.ID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, "Feedback submitted successfully", fiber.Map{"feedback": feedback})
}
