package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/contaclara/backend/src/config"
	"github.com/username/contaclara/backend/src/database"
	"github.com/username/contaclara/backend/src/handlers"
	"github.com/username/contaclara/backend/src/logger"
	"github.com/username/contaclara/backend/src/processors"
	"github.com/username/contaclara/backend/src/services"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.AllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, X-User-ID, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("ContaClara backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(config.Cfg.ReportCacheExpiration, config.Cfg.ReportCacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	summaryProcessor := processors.NewSummaryProcessor()
	reconciler := processors.NewReconciler(nil)

	uploadService := services.NewUploadService(summaryProcessor, reportCache)
	reconciliationService := services.NewReconciliationService(reconciler)

	uploadHandler := handlers.NewUploadHandler(uploadService)
	txHandler := handlers.NewTransactionHandler(uploadService)
	ruleHandler := handlers.NewRuleHandler(uploadService)
	reconciliationHandler := handlers.NewReconciliationHandler(reconciliationService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	withIdentity := func(handler http.HandlerFunc) http.Handler {
		return handlers.IdentityMiddleware(handler)
	}

	apiRouter.Handle("POST /api/upload", withIdentity(uploadHandler.HandleUpload))
	apiRouter.Handle("GET /api/batches", withIdentity(uploadHandler.HandleListBatches))
	apiRouter.Handle("GET /api/batches/{batchID}/report", withIdentity(uploadHandler.HandleGetBatchReport))
	apiRouter.Handle("GET /api/batches/{batchID}/transactions", withIdentity(txHandler.HandleGetBatchTransactions))
	apiRouter.Handle("PATCH /api/transactions/{transactionID}/category", withIdentity(txHandler.HandleRecategorizeTransaction))
	apiRouter.Handle("GET /api/rules", withIdentity(ruleHandler.HandleListRules))
	apiRouter.Handle("POST /api/rules", withIdentity(ruleHandler.HandleCreateRule))
	apiRouter.Handle("DELETE /api/rules/{ruleID}", withIdentity(ruleHandler.HandleDeleteRule))
	apiRouter.Handle("POST /api/reconcile", withIdentity(reconciliationHandler.HandleReconcile))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "ContaClara backend is running"})
		} else if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
