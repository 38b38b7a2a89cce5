// backend/src/services/upload_service.go
package services

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/username/contaclara/backend/src/database"
	"github.com/username/contaclara/backend/src/logger"
	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/parsers"
	"github.com/username/contaclara/backend/src/processors"
	"github.com/username/contaclara/backend/src/utils"
)

const (
	ckBatchReport = "agg_batch_report_user_%d_batch_%s"
	ckBatchList   = "agg_batch_list_user_%d"
)

type uploadServiceImpl struct {
	summaryProcessor processors.SummaryProcessor
	reportCache      *cache.Cache
}

func NewUploadService(summaryProcessor processors.SummaryProcessor, reportCache *cache.Cache) UploadService {
	return &uploadServiceImpl{
		summaryProcessor: summaryProcessor,
		reportCache:      reportCache,
	}
}

func (s *uploadServiceImpl) ProcessUpload(fileReader io.Reader, filename string, kind string, userID int64, batchID string, referencePeriod string) (*UploadResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "userID", userID, "filename", filename, "kind", kind)

	data, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload stream: %v", ErrParsingFailed, err)
	}

	src := parsers.NewSource(filename, data)
	parser, format, err := parsers.GetParser(kind, src)
	if err != nil {
		// Double-wrap so handlers can match both the service sentinel and the
		// parser-level one.
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	standardized, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	// Rows whose date could not be parsed never reach categorization; the
	// adapters already drop them, this guard keeps the invariant explicit.
	valid := standardized[:0]
	for _, tx := range standardized {
		if !tx.Date.IsZero() {
			valid = append(valid, tx)
		}
	}
	standardized = valid

	rules, err := fetchUserRules(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading categorization rules: %v", ErrProcessingFailed, err)
	}
	categories := processors.NewCategorizer(rules).Apply(standardized)

	batch, err := s.persistBatch(userID, batchID, referencePeriod, format, standardized, categories)
	if err != nil {
		return nil, err
	}

	s.InvalidateUserCache(userID)

	logger.L.Info("ProcessUpload END", "userID", userID, "batchID", batch.ID,
		"transactionCount", len(standardized), "duration", time.Since(overallStartTime))
	return s.GetBatchReport(userID, batch.ID)
}

// persistBatch writes the batch and its transactions with replace semantics:
// prior rows are deleted and the new set inserted inside one sql transaction,
// so a failure mid-write never leaves a batch half-populated. Rows the user
// categorized by hand keep their category across reprocessing: they are
// snapshotted before the delete and reapplied by (date, amount, type,
// description) identity.
func (s *uploadServiceImpl) persistBatch(userID int64, batchID, referencePeriod, format string,
	txs []models.StandardizedTransaction, categories []string) (*models.StatementBatch, error) {

	now := time.Now().UTC()
	isReprocess := batchID != ""
	if !isReprocess {
		batchID = uuid.NewString()
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	manualCategories := make(map[string]string)
	if isReprocess {
		var exists int
		err = dbTx.QueryRow(`SELECT COUNT(1) FROM statement_batches WHERE id = ? AND user_id = ?`, batchID, userID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("error checking batch ownership: %w", err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
		}

		manualCategories, err = snapshotManualCategories(dbTx, batchID)
		if err != nil {
			return nil, err
		}

		if _, err = dbTx.Exec(`DELETE FROM transactions WHERE batch_id = ?`, batchID); err != nil {
			return nil, fmt.Errorf("error deleting prior transactions for batch %s: %w", batchID, err)
		}
		if _, err = dbTx.Exec(`UPDATE statement_batches SET reference_period = ?, source_format = ?, uploaded_at = ? WHERE id = ?`,
			referencePeriod, format, now, batchID); err != nil {
			return nil, fmt.Errorf("error updating batch %s: %w", batchID, err)
		}
	} else {
		if _, err = dbTx.Exec(`INSERT INTO statement_batches (id, user_id, reference_period, source_format, uploaded_at) VALUES (?, ?, ?, ?, ?)`,
			batchID, userID, referencePeriod, format, now); err != nil {
			return nil, fmt.Errorf("error inserting batch: %w", err)
		}
	}

	stmt, err := dbTx.Prepare(`INSERT INTO transactions (batch_id, user_id, date, description, amount, type, category, description_origin, manual_category) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		category := categories[i]
		manual := false
		if kept, ok := manualCategories[manualKey(tx)]; ok {
			category = kept
			manual = true
		}
		_, err := stmt.Exec(batchID, userID, tx.Date.Format(time.RFC3339), tx.Description,
			tx.Amount.StringFixed(2), string(tx.Type), category, string(tx.DescriptionOrigin), manual)
		if err != nil {
			return nil, fmt.Errorf("error inserting transaction (date %s): %w", tx.Date.Format(utils.DefaultDateFormat), err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transactions: %w", err)
	}

	return &models.StatementBatch{
		ID:              batchID,
		UserID:          userID,
		ReferencePeriod: referencePeriod,
		SourceFormat:    format,
		UploadedAt:      now,
	}, nil
}

func manualKey(tx models.StandardizedTransaction) string {
	return fmt.Sprintf("%s|%s|%s|%s", utils.Midnight(tx.Date).Format("2006-01-02"),
		tx.Amount.StringFixed(2), tx.Type, tx.Description)
}

func snapshotManualCategories(dbTx *sql.Tx, batchID string) (map[string]string, error) {
	rows, err := dbTx.Query(`SELECT date, amount, type, description, category FROM transactions WHERE batch_id = ? AND manual_category = TRUE`, batchID)
	if err != nil {
		return nil, fmt.Errorf("error snapshotting manual categorizations for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	snapshot := make(map[string]string)
	for rows.Next() {
		var dateStr, amountStr, typeStr, description, category string
		if err := rows.Scan(&dateStr, &amountStr, &typeStr, &description, &category); err != nil {
			return nil, fmt.Errorf("error scanning manual categorization row: %w", err)
		}
		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			continue
		}
		snapshot[manualKey(models.StandardizedTransaction{
			Date:        date,
			Description: description,
			Amount:      amount,
			Type:        models.TransactionType(typeStr),
		})] = category
	}
	return snapshot, rows.Err()
}

func (s *uploadServiceImpl) InvalidateUserCache(userID int64) {
	// go-cache has no delete-by-prefix, so walk the items and drop every
	// report key belonging to this user.
	s.reportCache.Delete(fmt.Sprintf(ckBatchList, userID))
	reportPrefix := fmt.Sprintf("agg_batch_report_user_%d_batch_", userID)
	for key := range s.reportCache.Items() {
		if strings.HasPrefix(key, reportPrefix) {
			s.reportCache.Delete(key)
		}
	}
	logger.L.Info("Invalidated caches for user", "userID", userID)
}

func (s *uploadServiceImpl) GetBatchReport(userID int64, batchID string) (*UploadResult, error) {
	cacheKey := fmt.Sprintf(ckBatchReport, userID, batchID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for GetBatchReport", "userID", userID, "batchID", batchID)
		return cached.(*UploadResult), nil
	}

	batch, err := fetchBatch(userID, batchID)
	if err != nil {
		return nil, err
	}
	txs, err := FetchBatchTransactions(userID, batchID)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		Batch:        *batch,
		Transactions: txs,
		Summary:      s.summaryProcessor.Process(txs),
	}
	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *uploadServiceImpl) ListBatches(userID int64) ([]models.StatementBatch, error) {
	cacheKey := fmt.Sprintf(ckBatchList, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.StatementBatch), nil
	}

	rows, err := database.DB.Query(`SELECT id, user_id, reference_period, source_format, uploaded_at FROM statement_batches WHERE user_id = ? ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying batches for userID %d: %w", userID, err)
	}
	defer rows.Close()

	var batches []models.StatementBatch
	for rows.Next() {
		var b models.StatementBatch
		if err := rows.Scan(&b.ID, &b.UserID, &b.ReferencePeriod, &b.SourceFormat, &b.UploadedAt); err != nil {
			return nil, fmt.Errorf("error scanning batch row for userID %d: %w", userID, err)
		}
		batches = append(batches, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over batch rows for userID %d: %w", userID, err)
	}

	s.reportCache.Set(cacheKey, batches, cache.DefaultExpiration)
	return batches, nil
}

func (s *uploadServiceImpl) RecategorizeTransaction(userID int64, transactionID int64, category string) error {
	res, err := database.DB.Exec(`UPDATE transactions SET category = ?, manual_category = TRUE WHERE id = ? AND user_id = ?`,
		category, transactionID, userID)
	if err != nil {
		return fmt.Errorf("error recategorizing transaction %d: %w", transactionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking recategorization result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d not found for userID %d", transactionID, userID)
	}
	s.InvalidateUserCache(userID)
	return nil
}

func fetchBatch(userID int64, batchID string) (*models.StatementBatch, error) {
	var b models.StatementBatch
	err := database.DB.QueryRow(`SELECT id, user_id, reference_period, source_format, uploaded_at FROM statement_batches WHERE id = ? AND user_id = ?`,
		batchID, userID).Scan(&b.ID, &b.UserID, &b.ReferencePeriod, &b.SourceFormat, &b.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying batch %s: %w", batchID, err)
	}
	return &b, nil
}

// FetchBatchTransactions loads a batch's rows in insertion order. The
// reconciliation service reads through this as well: occurrence indexes depend
// on stable row order.
func FetchBatchTransactions(userID int64, batchID string) ([]models.PersistedTransaction, error) {
	logger.L.Debug("Fetching transactions from DB", "userID", userID, "batchID", batchID)
	rows, err := database.DB.Query(`SELECT id, batch_id, user_id, date, description, amount, type, category, description_origin, manual_category FROM transactions WHERE batch_id = ? AND user_id = ? ORDER BY id ASC`,
		batchID, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var txs []models.PersistedTransaction
	for rows.Next() {
		var tx models.PersistedTransaction
		var dateStr, amountStr, typeStr, originStr string
		if err := rows.Scan(&tx.ID, &tx.BatchID, &tx.UserID, &dateStr, &tx.Description,
			&amountStr, &typeStr, &tx.Category, &originStr, &tx.ManualCategory); err != nil {
			return nil, fmt.Errorf("error scanning transaction row for batch %s: %w", batchID, err)
		}
		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored date %q: %w", dateStr, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored amount %q: %w", amountStr, err)
		}
		tx.Date = date
		tx.Amount = amount
		tx.Type = models.TransactionType(typeStr)
		tx.DescriptionOrigin = models.DescriptionOrigin(originStr)
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transaction rows for batch %s: %w", batchID, err)
	}
	return txs, nil
}

func fetchUserRules(userID int64) ([]models.CategorizationRule, error) {
	rows, err := database.DB.Query(`SELECT id, user_id, keyword, category, position FROM categorization_rules WHERE user_id = ? ORDER BY position ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying rules for userID %d: %w", userID, err)
	}
	defer rows.Close()

	var rules []models.CategorizationRule
	for rows.Next() {
		var r models.CategorizationRule
		if err := rows.Scan(&r.ID, &r.UserID, &r.Keyword, &r.Category, &r.Position); err != nil {
			return nil, fmt.Errorf("error scanning rule row for userID %d: %w", userID, err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}
