// backend/src/handlers/upload_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/contaclara/backend/src/config"
	"github.com/username/contaclara/backend/src/logger"
	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/parsers"
	"github.com/username/contaclara/backend/src/security/validation"
	"github.com/username/contaclara/backend/src/services"
	"github.com/username/contaclara/backend/src/utils"
)

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: service,
	}
}

// HandleUpload ingests one statement file. Multipart fields:
//
//	file     the export itself (required)
//	kind     "statement" (default) or "management"
//	period   reference period label, e.g. "Julho/2025"
//	batch_id reprocess an existing batch instead of creating a new one
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user identity not found in context", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "userID", userID, "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "userID", userID, "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "userID", userID, "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "userID", userID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("File content validated", "userID", userID, "filename", fileHeader.Filename,
		"clientType", clientContentType, "detectedType", detectedContentType)

	kind := strings.TrimSpace(r.FormValue("kind"))
	if kind == "" {
		kind = parsers.KindStatement
	}
	period := strings.TrimSpace(r.FormValue("period"))
	batchID := strings.TrimSpace(r.FormValue("batch_id"))

	result, err := h.uploadService.ProcessUpload(file, fileHeader.Filename, kind, userID, batchID, period)
	if err != nil {
		switch {
		case errors.Is(err, parsers.ErrUnrecognizedFormat):
			logger.L.Warn("Upload failed: format not recognized", "userID", userID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, parsers.ErrUnreadableFile), errors.Is(err, parsers.ErrUnparseableSource):
			logger.L.Warn("Upload failed: file could not be parsed", "userID", userID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrParsingFailed):
			logger.L.Warn("Upload processing failed during parsing", "userID", userID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing statement file: %v", err), http.StatusBadRequest)
		case errors.Is(err, services.ErrBatchNotFound):
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		default:
			logger.L.Error("Internal error processing upload", "userID", userID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for upload result", "userID", userID, "error", err)
	}
}

// HandleGetBatchReport serves the persisted summary for one batch with ETag
// support, so polling frontends avoid re-downloading unchanged reports.
func (h *UploadHandler) HandleGetBatchReport(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.uploadService.GetBatchReport(userID, batchID)
	if err != nil {
		if errors.Is(err, services.ErrBatchNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving batch report", "userID", userID, "batchID", batchID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving report for batch %s: %v", batchID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	currentETag, etagErr := utils.GenerateETag(report)
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		logger.L.Warn("Proceeding without ETag check", "userID", userID, "error", etagErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		logger.L.Error("Error generating JSON response for batch report", "userID", userID, "error", err)
	}
}

// HandleListBatches lists the user's upload history.
func (h *UploadHandler) HandleListBatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "user identity not found in context", http.StatusUnauthorized)
		return
	}

	batches, err := h.uploadService.ListBatches(userID)
	if err != nil {
		logger.L.Error("Error listing batches", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error listing batches for userID %d: %v", userID, err), http.StatusInternalServerError)
		return
	}
	if batches == nil {
		batches = []models.StatementBatch{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(batches); err != nil {
		logger.L.Error("Error encoding batch list", "userID", userID, "error", err)
	}
}
