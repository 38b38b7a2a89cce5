// backend/src/database/database.go
package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/contaclara/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database schema for:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS statement_batches (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		reference_period TEXT NOT NULL,
		source_format TEXT NOT NULL,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		description TEXT,
		amount TEXT NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		description_origin TEXT,
		manual_category BOOLEAN DEFAULT FALSE,
		FOREIGN KEY(batch_id) REFERENCES statement_batches(id)
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_batch ON transactions(batch_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);

	CREATE TABLE IF NOT EXISTS categorization_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		keyword TEXT NOT NULL,
		category TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rules_user_position ON categorization_rules(user_id, position);
	`

	if _, err = DB.Exec(createTableStatement); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}

	migrateTransactionsTable()

	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateTransactionsTable backfills columns added after the first release,
// using PRAGMA table_info so existing databases upgrade in place.
func migrateTransactionsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='transactions'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'transactions' table", "error", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(transactions)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'transactions'", "error", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'transactions'", "error", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'transactions'", "error", err)
		}
		return
	}

	if _, ok := columnExists["description_origin"]; !ok {
		if _, err := DB.Exec("ALTER TABLE transactions ADD COLUMN description_origin TEXT"); err != nil {
			logger.L.Error("Error adding 'description_origin' column", "error", err)
		} else {
			logger.L.Info("Added 'description_origin' column to 'transactions' table")
		}
	}
	if _, ok := columnExists["manual_category"]; !ok {
		if _, err := DB.Exec("ALTER TABLE transactions ADD COLUMN manual_category BOOLEAN DEFAULT FALSE"); err != nil {
			logger.L.Error("Error adding 'manual_category' column", "error", err)
		} else {
			logger.L.Info("Added 'manual_category' column to 'transactions' table")
		}
	}
}
