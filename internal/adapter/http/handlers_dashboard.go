package http

import (
	"github.com/gofiber/fiber/v2"
)

// dashboard serves the snapshot for the authenticated user
func (s *Server) dashboard(c *fiber.Ctx) error {
	snapshot, err := s.deps.Dashboard.GetDashboard(c.UserContext(), identityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(snapshot)
}
