package availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studiobook/internal/domain"
	"studiobook/internal/pkg/response"
)

// Handler is the studio-owner surface for availability rules. Malformed
// rules are rejected here, at write time; the resolver assumes stored rules
// are valid.
type Handler struct {
	rules RuleRepository
}

func NewHandler(rules RuleRepository) *Handler {
	return &Handler{rules: rules}
}

// RegisterOwnerRoutes expects the group to already enforce auth + studio
// ownership on :id.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.GET("/studios/:id/availability-rules", h.ListRules)
	rg.POST("/studios/:id/availability-rules", h.CreateRule)
	rg.DELETE("/studios/:id/availability-rules/:ruleID", h.DeleteRule)
}

func (h *Handler) ListRules(c *gin.Context) {
	studioID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid studio ID")
		return
	}

	rules, err := h.rules.ListByStudio(c.Request.Context(), studioID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load rules")
		return
	}

	out := make([]ruleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, toRuleResponse(r))
	}
	response.Success(c, http.StatusOK, gin.H{"rules": out})
}

func (h *Handler) CreateRule(c *gin.Context) {
	studioID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid studio ID")
		return
	}

	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rule, err := req.toRule(studioID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "RULE_INVALID", "Rule times must be valid HH:MM values")
		return
	}
	if err := rule.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, mapDomainRuleError(err), err.Error())
		return
	}

	if err := h.rules.Create(c.Request.Context(), rule); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create rule")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"rule": toRuleResponse(*rule)})
}

func (h *Handler) DeleteRule(c *gin.Context) {
	studioID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid studio ID")
		return
	}
	ruleID, err := strconv.ParseInt(c.Param("ruleID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rule ID")
		return
	}

	rule, err := h.rules.GetByID(c.Request.Context(), ruleID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Rule not found")
		return
	}
	if rule.StudioID != studioID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Rule belongs to another studio")
		return
	}

	if err := h.rules.Delete(c.Request.Context(), ruleID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete rule")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": ruleID})
}

// mapDomainRuleError keeps handler switches small when domain validation
// errors need distinct codes later.
func mapDomainRuleError(err error) string {
	switch {
	case errors.Is(err, domain.ErrRuleWindowInvalid):
		return "RULE_WINDOW_INVALID"
	case errors.Is(err, domain.ErrRuleWeekdaysMissing):
		return "RULE_WEEKDAYS_MISSING"
	case errors.Is(err, domain.ErrRuleDateMissing):
		return "RULE_DATE_MISSING"
	}
	return "RULE_INVALID"
}
