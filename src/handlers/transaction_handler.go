// backend/src/handlers/transaction_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/contaclara/backend/src/logger"
	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/security/validation"
	"github.com/username/contaclara/backend/src/services"
	"github.com/username/contaclara/backend/src/utils"
)

type TransactionHandler struct {
	uploadService services.UploadService
}

func NewTransactionHandler(service services.UploadService) *TransactionHandler {
	return &TransactionHandler{uploadService: service}
}

// HandleGetBatchTransactions returns the categorized rows of one batch.
func (h *TransactionHandler) HandleGetBatchTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user identity not found in context", http.StatusUnauthorized)
		return
	}
	batchID := r.PathValue("batchID")
	if batchID == "" {
		utils.SendJSONError(w, "batch id required", http.StatusBadRequest)
		return
	}

	txs, err := services.FetchBatchTransactions(userID, batchID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions for batch %s: %v", batchID, err), http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.PersistedTransaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(txs); err != nil {
		logger.L.Error("Error generating JSON response for batch transactions", "userID", userID, "batchID", batchID, "error", err)
	}
}

type recategorizeRequest struct {
	Category string `json:"category"`
}

// HandleRecategorizeTransaction applies a manual category to one row. The
// manual flag it sets is what protects the row's category across batch
// reprocessing.
func (h *TransactionHandler) HandleRecategorizeTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user identity not found in context", http.StatusUnauthorized)
		return
	}

	transactionID, err := strconv.ParseInt(r.PathValue("transactionID"), 10, 64)
	if err != nil || transactionID <= 0 {
		utils.SendJSONError(w, "malformed transaction id", http.StatusBadRequest)
		return
	}

	var req recategorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "malformed request body", http.StatusBadRequest)
		return
	}
	category := validation.SanitizeForFormulaInjection(validation.StripUnprintable(strings.TrimSpace(req.Category)))
	if category == "" {
		utils.SendJSONError(w, "category must not be empty", http.StatusBadRequest)
		return
	}

	if err := h.uploadService.RecategorizeTransaction(userID, transactionID, category); err != nil {
		logger.L.Warn("Recategorization failed", "userID", userID, "transactionID", transactionID, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
