// backend/src/handlers/reconciliation_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/username/contaclara/backend/src/logger"
	"github.com/username/contaclara/backend/src/services"
	"github.com/username/contaclara/backend/src/utils"
)

type ReconciliationHandler struct {
	reconciliationService services.ReconciliationService
}

func NewReconciliationHandler(service services.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: service}
}

type reconcileRequest struct {
	SourceBatchID string `json:"source_batch_id"`
	TargetBatchID string `json:"target_batch_id"`
}

// HandleReconcile matches two persisted batches (typically the bank statement
// against the management report) and returns the three partitions.
func (h *ReconciliationHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user identity not found in context", http.StatusUnauthorized)
		return
	}

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "malformed request body", http.StatusBadRequest)
		return
	}
	req.SourceBatchID = strings.TrimSpace(req.SourceBatchID)
	req.TargetBatchID = strings.TrimSpace(req.TargetBatchID)
	if req.SourceBatchID == "" || req.TargetBatchID == "" {
		utils.SendJSONError(w, "source_batch_id and target_batch_id are required", http.StatusBadRequest)
		return
	}

	result, err := h.reconciliationService.ReconcileBatches(userID, req.SourceBatchID, req.TargetBatchID)
	if err != nil {
		if errors.Is(err, services.ErrBatchNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.L.Error("Reconciliation failed", "userID", userID,
			"sourceBatch", req.SourceBatchID, "targetBatch", req.TargetBatchID, "error", err)
		utils.SendJSONError(w, "An internal error occurred during reconciliation.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding reconciliation result", "userID", userID, "error", err)
	}
}
