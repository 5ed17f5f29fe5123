package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

func (s *Server) listCategories(c *fiber.Ctx) error {
	var typeFilter domain.TransactionType
	if raw := c.Query("type"); raw != "" {
		verr := domain.NewValidationError(validationFailed)
		typeFilter = parseType(verr, raw)
		if err := done(verr); err != nil {
			return err
		}
	}

	categories, err := s.deps.Categories.List(c.UserContext(), identityFrom(c).UserID, typeFilter)
	if err != nil {
		return err
	}
	return c.JSON(newCategoryList(categories))
}

func (s *Server) createCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	created, err := s.deps.Categories.Create(c.UserContext(), identityFrom(c).UserID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newCategoryResponse(created))
}

func (s *Server) getCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	found, err := s.deps.Categories.Get(c.UserContext(), id, identityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(newCategoryResponse(found))
}

func (s *Server) updateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req updateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	updated, err := s.deps.Categories.Update(c.UserContext(), id, identityFrom(c).UserID, input)
	if err != nil {
		return err
	}
	return c.JSON(newCategoryResponse(updated))
}

func (s *Server) deleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := s.deps.Categories.Delete(c.UserContext(), id, identityFrom(c).UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
