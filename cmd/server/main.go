package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"framecraft.app/internal/analysis"
	"framecraft.app/internal/config"
	"framecraft.app/internal/docs"
	"framecraft.app/internal/persistence/actionlog"
	"framecraft.app/internal/persistence/archive"
	"framecraft.app/internal/persistence/autosave"
	"framecraft.app/internal/persistence/payload"
	"framecraft.app/internal/protocol"
	"framecraft.app/internal/structure"
	"framecraft.app/internal/takedown"
	"framecraft.app/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		configPath = flag.String("config", "", "path to server.yaml (empty: defaults)")
		dataDir    = flag.String("data", "", "runtime data directory (overrides config)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.ListenAddr = *addr
	}
	if strings.TrimSpace(*dataDir) != "" {
		cfg.DataDir = *dataDir
	}

	saver, err := autosave.Open(filepath.Join(cfg.DataDir, "autosave.db"), cfg.AutosaveDebounce())
	if err != nil {
		logger.Fatalf("open autosave: %v", err)
	}
	defer saver.Close()

	alog := actionlog.NewWriter(filepath.Join(cfg.DataDir, "actions"), "actions")
	defer alog.Close()

	reg := docs.NewRegistry(saver, alog)
	solver := analysis.NewClient(cfg.SolverURL)
	wsServer := ws.NewServer(reg, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", wsServer.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/docs", listDocs(saver))
	mux.HandleFunc("/v1/docs/", docRoutes(reg, saver, solver, logger, cfg.DataDir))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s (solver %s, data %s)", cfg.ListenAddr, cfg.SolverURL, cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Printf("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func listDocs(saver *autosave.Store) http.HandlerFunc {
	type row struct {
		DocID   string `json:"docId"`
		Module  string `json:"module"`
		Rev     uint64 `json:"rev"`
		SavedAt string `json:"savedAt"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		recs, err := saver.List()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]row, 0, len(recs))
		for _, rec := range recs {
			out = append(out, row{DocID: rec.DocID, Module: rec.Module, Rev: rec.Rev, SavedAt: rec.SavedAt})
		}
		writeJSON(w, out)
	}
}

// docRoutes handles /v1/docs/{id}/export, /analyze and /checkpoints.
func docRoutes(reg *docs.Registry, saver *autosave.Store, solver *analysis.Client, logger *log.Logger, dataDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/v1/docs/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || parts[0] == "" {
			http.NotFound(w, r)
			return
		}
		docID, op := parts[0], parts[1]

		switch op {
		case "export":
			handleExport(w, r, reg, saver, docID)
		case "analyze":
			handleAnalyze(w, r, reg, solver, logger, docID)
		case "checkpoints":
			handleCheckpoints(w, r, reg, dataDir, docID)
		case "revisions":
			handleRevisions(w, r, saver, docID)
		default:
			http.NotFound(w, r)
		}
	}
}

// handleCheckpoints lists checkpoints on GET and writes one on POST.
func handleCheckpoints(w http.ResponseWriter, r *http.Request, reg *docs.Registry, dataDir, docID string) {
	switch r.Method {
	case http.MethodGet:
		metas, err := archive.List(dataDir, docID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, metas)
	case http.MethodPost:
		d, err := reg.Get(docID)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		b, err := exportDoc(d)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		path, err := archive.Checkpoint(dataDir, d.ID, d.Module, d.Rev(), d.Digest(), r.URL.Query().Get("label"), b)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSON(w, map[string]string{"path": path})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleRevisions(w http.ResponseWriter, r *http.Request, saver *autosave.Store, docID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	type row struct {
		Rev     uint64 `json:"rev"`
		Digest  string `json:"digest"`
		SavedAt string `json:"savedAt"`
	}
	recs, err := saver.Revisions(docID, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]row, 0, len(recs))
	for _, rec := range recs {
		out = append(out, row{Rev: rec.Rev, Digest: rec.Digest, SavedAt: rec.SavedAt})
	}
	writeJSON(w, out)
}

func handleExport(w http.ResponseWriter, r *http.Request, reg *docs.Registry, saver *autosave.Store, docID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if d, err := reg.Get(docID); err == nil {
		b, err := exportDoc(d)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		return
	}
	// Not open: serve the last autosaved payload.
	rec, err := saver.Load(docID)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(rec.Payload)
}

func exportDoc(d *docs.Document) ([]byte, error) {
	if d.Structure != nil {
		return payload.Marshal(d.Structure.State(), time.Now())
	}
	return payload.MarshalTakedown(d.Takedown.State())
}

func handleAnalyze(w http.ResponseWriter, r *http.Request, reg *docs.Registry, solver *analysis.Client, logger *log.Logger, docID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	d, err := reg.Get(docID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	var out any
	if d.Module == protocol.ModuleTakedown {
		out, err = solver.AnalyzeTakedown(ctx, takedown.ToAnalysisInput(d.Takedown.State()))
	} else {
		out, err = solver.AnalyzeStructure(ctx, structure.ToStructureInput(d.Structure.State(), ""))
	}
	if err != nil {
		logger.Printf("analyze %s: %v", docID, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
