package handlers

import (
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WorkerHandler struct {
	complaints *services.ComplaintService
}

func NewWorkerHandler(complaints *services.ComplaintService) *WorkerHandler {
	return &WorkerHandler{complaints: complaints}
}

func (h *WorkerHandler) ListComplaints(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	rows, err := h.complaints.ListForWorker(c.UserContext(), me.ID, dto.ComplaintFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Urgency:  c.Query("urgency"),
	})
	if err != nil {
		return err
	}
	return ok(c, "", fiber.Map{"complaints": rows, "count": len(rows)})
}

func (h *WorkerHandler) Stats(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	stats, err := h.complaints.WorkerStats(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return ok(c, "", stats)
}

func (h *WorkerHandler) GetComplaint(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}

	detail, err := h.complaints.GetForWorker(c.UserContext(), me.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "", detail)
}

func (h *WorkerHandler) UpdateStatus(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var req dto.UpdateStatusRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), me.ID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "Complaint status updated successfully", fiber.Map{"complaint": complaint})
}

func (h *WorkerHandler) AddNote(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var req dto.AddNoteRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	entry, err := h.complaints.AddNote(c.UserContext(), me.ID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, "Note added successfully", fiber.Map{"history": entry})
}

func (h *WorkerHandler) Reassign(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var req dto.ReassignRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	complaint, err := h.complaints.Reassign(c.UserContext(), me.ID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "Complaint reassigned successfully", fiber.Map{"complaint": complaint})
}
