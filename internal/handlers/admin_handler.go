package handlers

import (
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	creds, err := h.admin.CreateEmployee(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err, "create employee")
	}
	return c.Status(fiber.StatusCreated).JSON(creds)
}

func (h *AdminHandler) BulkUpload(c *fiber.Ctx) error {
	var req dto.BulkUploadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp := h.admin.BulkCreateEmployees(c.UserContext(), req.Employees)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	employees, err := h.admin.ListEmployees(c.UserContext())
	if err != nil {
		return serviceError(c, err, "list employees")
	}
	return c.JSON(employees)
}

func (h *AdminHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.DeleteEmployee(c.UserContext(), id); err != nil {
		return serviceError(c, err, "delete employee")
	}
	return c.JSON(dto.MessageResponse{Message: "Employee deleted successfully"})
}

func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	depts, err := h.admin.ListDepartments(c.UserContext())
	if err != nil {
		return serviceError(c, err, "list departments")
	}
	return c.JSON(depts)
}

func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	dept, err := h.admin.CreateDepartment(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err, "create department")
	}
	return c.Status(fiber.StatusCreated).JSON(dept)
}

func (h *AdminHandler) DeleteDepartment(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.DeleteDepartment(c.UserContext(), id); err != nil {
		return serviceError(c, err, "delete department")
	}
	return c.JSON(dto.MessageResponse{Message: "Department deleted successfully"})
}

func (h *AdminHandler) ListSkills(c *fiber.Ctx) error {
	var deptID *uuid.UUID
	if raw := c.Query("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid department_id")
		}
		deptID = &id
	}

	skills, err := h.admin.ListSkills(c.UserContext(), deptID)
	if err != nil {
		return serviceError(c, err, "list skills")
	}
	return c.JSON(skills)
}

func (h *AdminHandler) CreateSkill(c *fiber.Ctx) error {
	var req dto.CreateSkillRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	skill, err := h.admin.CreateSkill(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err, "create skill")
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

func (h *AdminHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	course, err := h.admin.CreateCourse(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err, "create course")
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func (h *AdminHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.DeleteCourse(c.UserContext(), id); err != nil {
		return serviceError(c, err, "delete course")
	}
	return c.JSON(dto.MessageResponse{Message: "Course deleted successfully"})
}

func (h *AdminHandler) VerifyEnrollment(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	courseID, err := uuidParam(c, "courseId")
	if err != nil {
		return err
	}

	resp, err := h.admin.VerifyEnrollment(c.UserContext(), userID, courseID)
	if err != nil {
		return serviceError(c, err, "verify enrollment")
	}
	return c.JSON(resp)
}
