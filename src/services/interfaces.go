// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"

	"github.com/username/contaclara/backend/src/models"
)

// Service-level failure sentinels; handlers map these to HTTP statuses.
var (
	ErrParsingFailed    = errors.New("statement parsing failed")
	ErrProcessingFailed = errors.New("statement processing failed")
	ErrBatchNotFound    = errors.New("statement batch not found")
)

// UploadResult is what the upload endpoint returns: the stored batch, its
// categorized transactions, and the computed aggregates.
type UploadResult struct {
	Batch        models.StatementBatch        `json:"batch"`
	Transactions []models.PersistedTransaction `json:"transactions"`
	Summary      models.StatementSummary      `json:"summary"`
}

// UploadService is the core orchestration: detect the format, parse,
// categorize against the user's ordered rules, replace-persist, aggregate.
type UploadService interface {
	// ProcessUpload ingests one file. A non-empty batchID reprocesses that
	// batch (replace semantics, manual categorizations preserved); an empty
	// one creates a new batch.
	ProcessUpload(fileReader io.Reader, filename string, kind string, userID int64, batchID string, referencePeriod string) (*UploadResult, error)
	GetBatchReport(userID int64, batchID string) (*UploadResult, error)
	ListBatches(userID int64) ([]models.StatementBatch, error)
	RecategorizeTransaction(userID int64, transactionID int64, category string) error
	InvalidateUserCache(userID int64)
}

// ReconciliationService aligns two persisted batches.
type ReconciliationService interface {
	ReconcileBatches(userID int64, sourceBatchID, targetBatchID string) (*models.ReconciliationResult, error)
}
