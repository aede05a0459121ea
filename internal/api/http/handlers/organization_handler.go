package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/service"
)

// OrganizationHandler serves the derived reporting hierarchy.
type OrganizationHandler struct {
	service *service.EmployeeService
}

// NewOrganizationHandler constructs handler.
func NewOrganizationHandler(employeeService *service.EmployeeService) *OrganizationHandler {
	return &OrganizationHandler{service: employeeService}
}

// Tree GET /api/organization.
func (h *OrganizationHandler) Tree(c *fiber.Ctx) error {
	forest, err := h.service.BuildOrganizationTree(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": forest})
}

// Subtree GET /api/organization/:id.
func (h *OrganizationHandler) Subtree(c *fiber.Ctx) error {
	node, err := h.service.GetSubtree(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": node})
}
