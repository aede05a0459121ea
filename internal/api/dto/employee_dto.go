package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spec-kit/orgchart-service/internal/domain"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// Employee request fields, shared by JSON bodies and multipart forms.
const (
	FieldName               = "name"
	FieldDesignation        = "designation"
	FieldDateOfBirth        = "dateOfBirth"
	FieldYearsOfExperience  = "yearsOfExperience"
	FieldReportingManagerID = "reportingManagerId"
	FieldImage              = "image"
)

// EmployeeRequest is the decoded create/update payload. A nil field was not
// sent; ReportingManagerSet is true when the manager key was present, even
// with a null or empty value.
type EmployeeRequest struct {
	Name                *string
	Designation         *string
	DateOfBirth         *string
	YearsOfExperience   *string
	ReportingManagerID  *string
	ReportingManagerSet bool
}

// EmployeeRequestFromForm reads multipart form values.
func EmployeeRequestFromForm(values map[string][]string) EmployeeRequest {
	first := func(key string) *string {
		if v, ok := values[key]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}
	req := EmployeeRequest{
		Name:               first(FieldName),
		Designation:        first(FieldDesignation),
		DateOfBirth:        first(FieldDateOfBirth),
		YearsOfExperience:  first(FieldYearsOfExperience),
		ReportingManagerID: first(FieldReportingManagerID),
	}
	_, req.ReportingManagerSet = values[FieldReportingManagerID]
	return req
}

// EmployeeRequestFromJSON reads a JSON object body. Numbers are accepted
// wherever a string is expected and vice versa for yearsOfExperience.
func EmployeeRequestFromJSON(raw map[string]json.RawMessage) (EmployeeRequest, error) {
	var req EmployeeRequest
	var err error
	if req.Name, err = scalar(raw, FieldName); err != nil {
		return req, err
	}
	if req.Designation, err = scalar(raw, FieldDesignation); err != nil {
		return req, err
	}
	if req.DateOfBirth, err = scalar(raw, FieldDateOfBirth); err != nil {
		return req, err
	}
	if req.YearsOfExperience, err = scalar(raw, FieldYearsOfExperience); err != nil {
		return req, err
	}
	if req.ReportingManagerID, err = scalar(raw, FieldReportingManagerID); err != nil {
		return req, err
	}
	_, req.ReportingManagerSet = raw[FieldReportingManagerID]
	return req, nil
}

// ToInput converts the request into creation input. Missing years default to 0.
func (r EmployeeRequest) ToInput() (domain.EmployeeInput, error) {
	years, err := r.years()
	if err != nil {
		return domain.EmployeeInput{}, err
	}
	input := domain.EmployeeInput{
		Name:               deref(r.Name),
		Designation:        deref(r.Designation),
		DateOfBirth:        deref(r.DateOfBirth),
		ReportingManagerID: domain.NormalizeManagerID(r.ReportingManagerID),
	}
	if years != nil {
		input.YearsOfExperience = *years
	}
	return input, nil
}

// ToPatch converts the request into an update patch.
func (r EmployeeRequest) ToPatch() (domain.EmployeePatch, error) {
	years, err := r.years()
	if err != nil {
		return domain.EmployeePatch{}, err
	}
	return domain.EmployeePatch{
		Name:                r.Name,
		Designation:         r.Designation,
		DateOfBirth:         r.DateOfBirth,
		YearsOfExperience:   years,
		ReportingManagerID:  r.ReportingManagerID,
		ReportingManagerSet: r.ReportingManagerSet,
	}, nil
}

func (r EmployeeRequest) years() (*int, error) {
	if r.YearsOfExperience == nil || strings.TrimSpace(*r.YearsOfExperience) == "" {
		return nil, nil
	}
	years, err := strconv.Atoi(strings.TrimSpace(*r.YearsOfExperience))
	if err != nil {
		return nil, apperrors.NewValidationError("yearsOfExperience must be a whole number", map[string]any{"field": FieldYearsOfExperience})
	}
	return &years, nil
}

func scalar(raw map[string]json.RawMessage, key string) (*string, error) {
	value, ok := raw[key]
	if !ok || string(value) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return &s, nil
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err == nil {
		text := n.String()
		return &text, nil
	}
	return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be a string or number", key), map[string]any{"field": key})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
