// backend/src/services/reconciliation_service.go
package services

import (
	"time"

	"github.com/username/contaclara/backend/src/logger"
	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/processors"
)

type reconciliationServiceImpl struct {
	reconciler processors.Reconciler
}

func NewReconciliationService(reconciler processors.Reconciler) ReconciliationService {
	return &reconciliationServiceImpl{reconciler: reconciler}
}

// ReconcileBatches loads two of the user's persisted batches (a bank statement
// and a management report, typically) and partitions them into matched,
// source-only and target-only rows.
func (s *reconciliationServiceImpl) ReconcileBatches(userID int64, sourceBatchID, targetBatchID string) (*models.ReconciliationResult, error) {
	startTime := time.Now()
	logger.L.Info("ReconcileBatches START", "userID", userID, "sourceBatch", sourceBatchID, "targetBatch", targetBatchID)

	if _, err := fetchBatch(userID, sourceBatchID); err != nil {
		return nil, err
	}
	if _, err := fetchBatch(userID, targetBatchID); err != nil {
		return nil, err
	}

	sourceRows, err := FetchBatchTransactions(userID, sourceBatchID)
	if err != nil {
		return nil, err
	}
	targetRows, err := FetchBatchTransactions(userID, targetBatchID)
	if err != nil {
		return nil, err
	}

	result := s.reconciler.Reconcile(standardize(sourceRows), standardize(targetRows))

	logger.L.Info("ReconcileBatches END", "userID", userID,
		"matched", len(result.Matched), "sourceOnly", len(result.SourceOnly), "targetOnly", len(result.TargetOnly),
		"duration", time.Since(startTime))
	return &result, nil
}

func standardize(rows []models.PersistedTransaction) []models.StandardizedTransaction {
	out := make([]models.StandardizedTransaction, len(rows))
	for i, row := range rows {
		out[i] = row.Standardized()
	}
	return out
}
