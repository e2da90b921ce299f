package handlers

import (
	"errors"
	"strconv"

	"insurtech-portal/internal/core/domain"
	"insurtech-portal/internal/core/services"
	"insurtech-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PolicyHandler handles policy table endpoints
type PolicyHandler struct {
	policyService *services.PolicyService
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(policyService *services.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

// ListPolicies lists all policies
// @Summary List policies
// @Description Get the full policy table
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /policies [get]
func (h *PolicyHandler) ListPolicies(c *fiber.Ctx) error {
	policies, err := h.policyService.List()
	if err != nil {
		return response.InternalServerError(c, "Failed to list policies")
	}

	return response.Success(c, "Policies retrieved successfully", fiber.Map{
		"policies": policies,
	})
}

// GetPolicy gets a policy by ID
// @Summary Get policy
// @Description Get one policy by ID
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id} [get]
func (h *PolicyHandler) GetPolicy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	policy, err := h.policyService.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Policy not found")
		}
		return response.InternalServerError(c, "Failed to get policy")
	}

	return response.Success(c, "Policy retrieved successfully", fiber.Map{
		"policy": policy,
	})
}

// Recommend runs the filter/sort engine
// @Summary Recommend policies
// @Description Filter the policy table by criteria, ordered by premium ascending
// @Tags Policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.Criteria true "Filter criteria"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /policies/recommend [post]
func (h *PolicyHandler) Recommend(c *fiber.Ctx) error {
	var criteria domain.Criteria
	if err := c.BodyParser(&criteria); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	matches, err := h.policyService.Recommend(criteria)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCriteria) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to run recommendation")
	}

	// An empty result is a normal outcome, rendered as "no match"
	return response.Success(c, "Recommendation completed", fiber.Map{
		"policies": matches,
		"count":    len(matches),
	})
}

// CreatePolicy creates a new policy
// @Summary Create policy
// @Description Append a policy record (Admin only)
// @Tags Policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.Policy true "Policy data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /policies [post]
func (h *PolicyHandler) CreatePolicy(c *fiber.Ctx) error {
	var record domain.Policy
	if err := c.BodyParser(&record); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	created, err := h.policyService.Create(record)
	if err != nil {
		return h.mutationError(c, err, "Failed to create policy")
	}

	return response.Created(c, "Policy created successfully", fiber.Map{
		"policy": created,
	})
}

// UpdatePolicy replaces a policy wholesale
// @Summary Update policy
// @Description Replace a policy record by ID (Admin only)
// @Tags Policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Param body body domain.Policy true "New policy values"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id} [put]
func (h *PolicyHandler) UpdatePolicy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var record domain.Policy
	if err := c.BodyParser(&record); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.policyService.Update(id, record)
	if err != nil {
		return h.mutationError(c, err, "Failed to update policy")
	}

	return response.Success(c, "Policy updated successfully", fiber.Map{
		"policy": updated,
	})
}

// DeletePolicy deletes a policy
// @Summary Delete policy
// @Description Remove a policy record by ID; deleting a missing ID is a no-op (Admin only)
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /policies/{id} [delete]
func (h *PolicyHandler) DeletePolicy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if err := h.policyService.Delete(id); err != nil {
		return h.mutationError(c, err, "Failed to delete policy")
	}

	return response.Success(c, "Policy deleted successfully", nil)
}

// DuplicatePolicy appends a copy of a policy
// @Summary Duplicate policy
// @Description Append a deep copy of a policy record under a fresh ID (Admin only)
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id}/duplicate [post]
func (h *PolicyHandler) DuplicatePolicy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	created, err := h.policyService.Duplicate(id)
	if err != nil {
		return h.mutationError(c, err, "Failed to duplicate policy")
	}

	return response.Created(c, "Policy duplicated successfully", fiber.Map{
		"policy": created,
	})
}

// SavePoliciesRequest represents a bulk save request body
type SavePoliciesRequest struct {
	Policies []domain.Policy `json:"policies"`
}

// SavePolicies writes the full edited table back
// @Summary Save policy table
// @Description Replace the whole policy table with the edited grid (Admin only)
// @Tags Policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SavePoliciesRequest true "Edited policy table"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /policies [put]
func (h *PolicyHandler) SavePolicies(c *fiber.Ctx) error {
	var req SavePoliciesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	saved, err := h.policyService.ReplaceAll(req.Policies)
	if err != nil {
		return h.mutationError(c, err, "Failed to save policy table")
	}

	return response.Success(c, "Policy table saved successfully", fiber.Map{
		"policies": saved,
	})
}

// mutationError maps mutation failures onto the response envelope. A
// persistence failure keeps the edit in memory, so the message tells the
// caller a retry of the save is safe.
func (h *PolicyHandler) mutationError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Policy not found")
	case errors.Is(err, domain.ErrInvalidRecord):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrPersistence):
		return response.InternalServerError(c, "Failed to persist changes; the edit is kept, please retry the save")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// parseID parses the :id route parameter
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
