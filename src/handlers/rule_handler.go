// backend/src/handlers/rule_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/contaclara/backend/src/database"
	"github.com/username/contaclara/backend/src/logger"
	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/security/validation"
	"github.com/username/contaclara/backend/src/services"
	"github.com/username/contaclara/backend/src/utils"
)

// RuleHandler manages the user's ordered categorization rules. Rule order is
// the categorization tie-break, so every read here is ORDER BY position and
// new rules append at the end.
type RuleHandler struct {
	uploadService services.UploadService
}

func NewRuleHandler(service services.UploadService) *RuleHandler {
	return &RuleHandler{uploadService: service}
}

func (h *RuleHandler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user identity not found in context", http.StatusUnauthorized)
		return
	}

	rows, err := database.DB.Query(`SELECT id, user_id, keyword, category, position FROM categorization_rules WHERE user_id = ? ORDER BY position ASC, id ASC`, userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying rules for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	rules := []models.CategorizationRule{}
	for rows.Next() {
		var rule models.CategorizationRule
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.Keyword, &rule.Category, &rule.Position); err != nil {
			utils.SendJSONError(w, fmt.Sprintf("Error scanning rule for userID %d: %v", userID, err), http.StatusInternalServerError)
			return
		}
		rules = append(rules, rule)
	}
	if err = rows.Err(); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error iterating over rules for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rules); err != nil {
		logger.L.Error("Error encoding rule list", "userID", userID, "error", err)
	}
}

type ruleRequest struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

func (h *RuleHandler) HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user identity not found in context", http.StatusUnauthorized)
		return
	}

	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "malformed request body", http.StatusBadRequest)
		return
	}
	keyword := validation.StripUnprintable(strings.TrimSpace(req.Keyword))
	category := validation.SanitizeForFormulaInjection(validation.StripUnprintable(strings.TrimSpace(req.Category)))
	if keyword == "" || category == "" {
		utils.SendJSONError(w, "keyword and category must not be empty", http.StatusBadRequest)
		return
	}

	// Append at the end of the user's rule list.
	var rule models.CategorizationRule
	err := database.DB.QueryRow(`
		INSERT INTO categorization_rules (user_id, keyword, category, position)
		VALUES (?, ?, ?, COALESCE((SELECT MAX(position) + 1 FROM categorization_rules WHERE user_id = ?), 0))
		RETURNING id, user_id, keyword, category, position`,
		userID, keyword, category, userID).
		Scan(&rule.ID, &rule.UserID, &rule.Keyword, &rule.Category, &rule.Position)
	if err != nil {
		logger.L.Error("Error inserting rule", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error creating rule: %v", err), http.StatusInternalServerError)
		return
	}

	h.uploadService.InvalidateUserCache(userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(rule); err != nil {
		logger.L.Error("Error encoding created rule", "userID", userID, "error", err)
	}
}

func (h *RuleHandler) HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user identity not found in context", http.StatusUnauthorized)
		return
	}

	ruleID, err := strconv.ParseInt(r.PathValue("ruleID"), 10, 64)
	if err != nil || ruleID <= 0 {
		utils.SendJSONError(w, "malformed rule id", http.StatusBadRequest)
		return
	}

	res, err := database.DB.Exec(`DELETE FROM categorization_rules WHERE id = ? AND user_id = ?`, ruleID, userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error deleting rule %d: %v", ruleID, err), http.StatusInternalServerError)
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.SendJSONError(w, fmt.Sprintf("rule %d not found", ruleID), http.StatusNotFound)
		return
	}

	h.uploadService.InvalidateUserCache(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}
