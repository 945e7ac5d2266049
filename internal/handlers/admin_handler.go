package handlers

import (
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	admin      *services.AdminService
	complaints *services.ComplaintService
	users      *services.UserService
}

func NewAdminHandler(admin *services.AdminService, complaints *services.ComplaintService, users *services.UserService) *AdminHandler {
	return &AdminHandler{admin: admin, complaints: complaints, users: users}
}

func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.admin.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "", overview)
}

func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	rows, err := h.complaints.ListAll(c.UserContext(), dto.ComplaintFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Urgency:  c.Query("urgency"),
		WorkerID: queryUint(c, "workerId"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return err
	}
	return ok(c, "", fiber.Map{"complaints": rows, "count": len(rows)})
}

func (h *AdminHandler) AssignComplaint(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var req dto.AssignRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	complaint, err := h.complaints.Assign(c.UserContext(), me.ID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "Complaint assigned successfully", fiber.Map{"complaint": complaint})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext(), dto.UserFilter{
		Role:       c.Query("role"),
		Department: c.Query("department"),
	})
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = dto.NewUserResponse(&users[i])
	}
	return ok(c, "", fiber.Map{"users": out, "count": len(out)})
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	user, err := h.users.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, "User created successfully", fiber.Map{"user": dto.NewUserResponse(user)})
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var req dto.UpdateUserRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	user, err := h.users.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "User updated successfully", fiber.Map{"user": dto.NewUserResponse(user)})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	me, _ := middleware.CurrentIdentity(c)
	id, valid := parseID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid ID")
	}

	if err := h.users.Delete(c.UserContext(), me.ID, id); err != nil {
		return respondError(c, err)
	}
	return ok(c, "User deleted successfully", nil)
}
