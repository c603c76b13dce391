package handlers

import (
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LearningHandler struct {
	learning *services.LearningService
}

func NewLearningHandler(learning *services.LearningService) *LearningHandler {
	return &LearningHandler{learning: learning}
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := middleware.GetUserID(c)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

func (h *LearningHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.learning.ListCourses(c.UserContext(), c.Query("level"))
	if err != nil {
		return serviceError(c, err, "list courses")
	}
	return c.JSON(courses)
}

func (h *LearningHandler) AddCourse(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.AddCourseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := h.learning.AddCourse(c.UserContext(), userID, uuid.MustParse(req.CourseID)); err != nil {
		return serviceError(c, err, "add course")
	}
	return c.JSON(dto.MessageResponse{Message: "Course added to your learning bucket"})
}

func (h *LearningHandler) UpdateProgress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID, err := uuidParam(c, "courseId")
	if err != nil {
		return err
	}
	var req dto.UpdateProgressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.learning.UpdateProgress(c.UserContext(), userID, courseID, *req.Progress); err != nil {
		return serviceError(c, err, "update progress")
	}
	return c.JSON(dto.MessageResponse{Message: "Course progress updated successfully"})
}

func (h *LearningHandler) MarkComplete(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID, err := uuidParam(c, "courseId")
	if err != nil {
		return err
	}

	if err := h.learning.MarkComplete(c.UserContext(), userID, courseID); err != nil {
		return serviceError(c, err, "mark complete")
	}
	return c.JSON(dto.MessageResponse{Message: "Course marked as complete"})
}

func (h *LearningHandler) SubmitToSupervisor(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID, err := uuidParam(c, "courseId")
	if err != nil {
		return err
	}
	var req dto.SubmitToSupervisorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.learning.SubmitToSupervisor(c.UserContext(), userID, courseID, &req); err != nil {
		return serviceError(c, err, "submit to supervisor")
	}
	return c.JSON(dto.MessageResponse{Message: "Course submitted to supervisor successfully"})
}

func (h *LearningHandler) GetLearningBucket(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	bucket, err := h.learning.GetLearningBucket(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "get learning bucket")
	}
	return c.JSON(fiber.Map{"courses": bucket})
}

func (h *LearningHandler) GetScores(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	scores, err := h.learning.GetScores(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "get scores")
	}
	return c.JSON(scores)
}

func (h *LearningHandler) GetVerifiedCourses(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	courses, err := h.learning.GetVerifiedCourses(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "get verified courses")
	}
	return c.JSON(courses)
}

func (h *LearningHandler) GetSkills(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	skills, err := h.learning.GetUserSkills(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "get skills")
	}
	return c.JSON(skills)
}

func (h *LearningHandler) GetSkillsByDepartment(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	skills, err := h.learning.GetSkillsByDepartment(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "get department skills")
	}
	return c.JSON(skills)
}

func (h *LearningHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.learning.GetProfile(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "get profile")
	}
	return c.JSON(profile)
}

func (h *LearningHandler) GetCertifications(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	certs, err := h.learning.GetCertifications(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "get certifications")
	}
	return c.JSON(certs)
}
