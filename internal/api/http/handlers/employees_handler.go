package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/api/dto"
	"github.com/spec-kit/orgchart-service/internal/service"
	"github.com/spec-kit/orgchart-service/internal/storage"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// EmployeesHandler serves the employee record endpoints.
type EmployeesHandler struct {
	service *service.EmployeeService
	assets  *storage.LocalAssetStore
}

// NewEmployeesHandler constructs handler. assets may be nil, in which case
// uploaded images are rejected.
func NewEmployeesHandler(employeeService *service.EmployeeService, assets *storage.LocalAssetStore) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService, assets: assets}
}

// List GET /api/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	employees, err := h.service.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": employees})
}

// Get GET /api/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	emp, err := h.service.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": emp})
}

// Create POST /api/employees. Accepts JSON or multipart with an optional image.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	req, header, err := parseEmployeeRequest(c)
	if err != nil {
		return err
	}
	input, err := req.ToInput()
	if err != nil {
		return err
	}

	ref, err := h.saveImage(header)
	if err != nil {
		return err
	}
	if ref != "" {
		input.ImagePath = &ref
	}

	emp, err := h.service.CreateEmployee(c.UserContext(), input)
	if err != nil {
		h.discardImage(ref)
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    emp,
		"message": "Employee added successfully",
	})
}

// Update PUT /api/employees/:id. Fields left out of the request keep their value.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	req, header, err := parseEmployeeRequest(c)
	if err != nil {
		return err
	}
	patch, err := req.ToPatch()
	if err != nil {
		return err
	}

	ref, err := h.saveImage(header)
	if err != nil {
		return err
	}
	if ref != "" {
		patch.ImagePath = &ref
	}

	emp, err := h.service.UpdateEmployee(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		h.discardImage(ref)
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    emp,
		"message": "Employee updated successfully",
	})
}

// Delete DELETE /api/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteEmployee(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Employee deleted successfully",
	})
}

func (h *EmployeesHandler) saveImage(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", nil
	}
	if h.assets == nil {
		return "", apperrors.NewValidationError("image uploads are disabled", map[string]any{"field": dto.FieldImage})
	}
	return h.assets.Save(dto.FieldImage, header)
}

// discardImage drops an upload whose record was never written.
func (h *EmployeesHandler) discardImage(ref string) {
	if ref == "" || h.assets == nil {
		return
	}
	_ = h.assets.Remove(ref)
}

func parseEmployeeRequest(c *fiber.Ctx) (dto.EmployeeRequest, *multipart.FileHeader, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return dto.EmployeeRequest{}, nil, apperrors.NewValidationError("invalid multipart payload", nil)
		}
		var header *multipart.FileHeader
		if files := form.File[dto.FieldImage]; len(files) > 0 {
			header = files[0]
		}
		return dto.EmployeeRequestFromForm(form.Value), header, nil

	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		values := map[string][]string{}
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			values[string(key)] = append(values[string(key)], string(value))
		})
		return dto.EmployeeRequestFromForm(values), nil, nil

	case len(c.Body()) == 0:
		return dto.EmployeeRequest{}, nil, nil
	}

	raw := map[string]json.RawMessage{}
	if err := c.BodyParser(&raw); err != nil {
		return dto.EmployeeRequest{}, nil, apperrors.NewValidationError("invalid payload", nil)
	}
	req, err := dto.EmployeeRequestFromJSON(raw)
	return req, nil, err
}
