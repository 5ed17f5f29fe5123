package http

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	result, err := s.deps.Auth.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newAuthResponse(result))
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	result, err := s.deps.Auth.Login(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(newAuthResponse(result))
}

func (s *Server) refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	pair, err := s.deps.Auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}
