package http

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listTransactions(c *fiber.Ctx) error {
	filter, err := parseListQuery(c, identityFrom(c).UserID)
	if err != nil {
		return err
	}

	result, err := s.deps.Transactions.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(newTransactionList(result))
}

func (s *Server) createTransaction(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	created, err := s.deps.Transactions.Create(c.UserContext(), identityFrom(c).UserID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newTransactionResponse(created))
}

func (s *Server) getTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	found, err := s.deps.Transactions.Get(c.UserContext(), id, identityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(newTransactionResponse(found))
}

func (s *Server) updateTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req updateTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	updated, err := s.deps.Transactions.Update(c.UserContext(), id, identityFrom(c).UserID, input)
	if err != nil {
		return err
	}
	return c.JSON(newTransactionResponse(updated))
}

func (s *Server) deleteTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := s.deps.Transactions.Delete(c.UserContext(), id, identityFrom(c).UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
