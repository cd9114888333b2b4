package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"modq/internal/config"
	"modq/internal/itemstore"
	"modq/internal/logging"
	"modq/internal/review"
	"modq/internal/store"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon
	store  *store.Store

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Server.Bind)
	if bind == "" {
		return nil, errors.New("server bind address not configured")
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
		store:  d.store,
	}

	token := strings.TrimSpace(cfg.Server.APIToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", authMiddleware(token, srv.handleStatus))
	mux.HandleFunc("/api/review/pending", authMiddleware(token, srv.handlePending))
	mux.HandleFunc("/api/review/total", authMiddleware(token, srv.handleTotal))
	mux.HandleFunc("/api/review/items/", authMiddleware(token, srv.handleItem))
	mux.HandleFunc("/api/review/submissions", authMiddleware(token, srv.handleSubmissions))
	mux.HandleFunc("/api/review/stats", authMiddleware(token, srv.handleStats))
	mux.HandleFunc("/api/review/clear", authMiddleware(token, srv.handleClear))
	mux.HandleFunc("/api/notifications/test", authMiddleware(token, srv.handleTestNotification))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// addr reports the bound listen address once start has succeeded.
func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	resp := itemstore.StatusResponse{
		Running:      status.Running,
		PID:          status.PID,
		DatabasePath: status.DatabasePath,
		LockPath:     status.LockFilePath,
		PendingCount: status.PendingCount,
	}

	health, err := s.daemon.DatabaseHealth(r.Context())
	resp.Database = itemstore.DatabaseHealthPayload{
		Path:           health.DBPath,
		Exists:         health.DatabaseExists,
		Readable:       health.DatabaseReadable,
		TableExists:    health.TableExists,
		MissingColumns: health.MissingColumns,
		IntegrityOK:    health.IntegrityCheck,
		TotalItems:     health.TotalItems,
		Error:          health.Error,
	}
	if err != nil && resp.Database.Error == "" {
		resp.Database.Error = err.Error()
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ok, message, err := s.daemon.TestNotification(r.Context())
	if err != nil {
		s.log().Warn("test notification failed", logging.Error(err))
		message = fmt.Sprintf("%s: %v", message, err)
	}
	s.writeJSON(w, http.StatusOK, itemstore.NotifyTestResponse{OK: ok, Message: message})
}

func (s *apiServer) handlePending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset, _ := strconv.Atoi(query.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.store.ListPending(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	page := itemstore.PendingPage{TotalCount: total}
	for _, item := range items {
		page.Items = append(page.Items, itemstore.FromItem(item))
	}
	s.writeJSON(w, http.StatusOK, page)
}

func (s *apiServer) handleTotal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	total, err := s.store.PendingTotal(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, itemstore.TotalResponse{TotalCount: total})
}

func (s *apiServer) handleItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/review/items/")
	if rest == "" {
		s.writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if id, ok := strings.CutSuffix(rest, "/decision"); ok {
		s.handleDecision(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		s.writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	item, err := s.store.GetByID(r.Context(), rest)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		s.writeError(w, http.StatusNotFound, "item not found")
		return
	}
	s.writeJSON(w, http.StatusOK, itemstore.ItemResponse{Item: itemstore.FromItem(item)})
}

func (s *apiServer) handleDecision(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id = strings.TrimSpace(id)
	if id == "" {
		s.writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req itemstore.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid decision request")
		return
	}
	outcome, ok := review.ParseOutcome(req.Outcome)
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown outcome %q", req.Outcome))
		return
	}

	item, err := s.store.Decide(r.Context(), id, outcome, req.Reason, req.DecidedBy)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, review.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, review.ErrAlreadyResolved):
			status = http.StatusConflict
		case errors.Is(err, review.ErrValidation):
			status = http.StatusBadRequest
		}
		s.writeJSON(w, status, itemstore.DecisionResponse{ErrorCode: review.ErrorCode(err)})
		return
	}

	if notifyErr := s.daemon.notifier.NotifyDecision(r.Context(), item); notifyErr != nil {
		s.log().Warn("decision notification failed", logging.Error(notifyErr))
	}
	s.daemon.noteDecision(r.Context())
	s.writeJSON(w, http.StatusOK, itemstore.DecisionResponse{OK: true, Item: itemstore.FromItem(item)})
}

func (s *apiServer) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req itemstore.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid submission request")
		return
	}

	item, err := s.store.Submit(r.Context(), store.Submission{
		AuthorName: req.AuthorName,
		Title:      req.Title,
		Body:       req.Body,
	})
	if err != nil {
		if errors.Is(err, review.ErrValidation) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.daemon.noteSubmission()
	if notifyErr := s.daemon.notifier.NotifySubmissionReceived(r.Context(), item); notifyErr != nil {
		s.log().Warn("submission notification failed", logging.Error(notifyErr))
	}
	if item.RiskLevel == review.RiskHigh {
		if notifyErr := s.daemon.notifier.NotifyHighRiskPending(r.Context(), item); notifyErr != nil {
			s.log().Warn("high-risk notification failed", logging.Error(notifyErr))
		}
	}
	s.writeJSON(w, http.StatusCreated, itemstore.ItemResponse{Item: itemstore.FromItem(item)})
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	byStatus, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	byRisk, err := s.store.RiskBreakdown(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stats := itemstore.StatsResponse{
		ByStatus: make(map[string]int, len(byStatus)),
		ByRisk:   make(map[string]int, len(byRisk)),
	}
	for status, count := range byStatus {
		stats.ByStatus[string(status)] = count
	}
	for level, count := range byRisk {
		stats.ByRisk[string(level)] = count
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *apiServer) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days < 0 {
		days = 0
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	removed, err := s.store.ClearResolved(r.Context(), cutoff)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log().Info("cleared resolved items",
		logging.Int("removed", int(removed)),
		logging.Int("older_than_days", days))
	s.writeJSON(w, http.StatusOK, itemstore.ClearResponse{Removed: int(removed)})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
