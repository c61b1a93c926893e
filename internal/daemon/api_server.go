package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shortlist/internal/api"
	"shortlist/internal/config"
	"shortlist/internal/identity"
	"shortlist/internal/logging"
	"shortlist/internal/task"
)

// taskActionMessage is the shared response for not-found and non-owner
// failures so record existence never leaks across owners.
const taskActionMessage = "cannot act on this task"

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "api"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", srv.handleLogin)
	mux.HandleFunc("/api/logout", withIdentity(d.sessions, srv.handleLogout))
	mux.HandleFunc("/api/tasks", withIdentity(d.sessions, srv.handleTasks))
	mux.HandleFunc("/api/tasks/", withIdentity(d.sessions, srv.handleTaskItem))
	mux.HandleFunc("/api/feed", withIdentity(d.sessions, srv.handleFeed))
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Generous write timeout: /api/feed long-polls.
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
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

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	user, err := s.daemon.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	session, err := s.daemon.sessions.Issue(user.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("session issued", logging.String(logging.FieldUserID, user.ID))
	s.writeJSON(w, http.StatusOK, api.LoginResponse{
		Token:     session.Token,
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *apiServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if token := bearerToken(r); token != "" {
		s.daemon.sessions.Revoke(token)
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *apiServer) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		owner, ok := callerID(r)
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		hideChecked := queryFlag(r, "hide_checked")
		resp, err := s.daemon.tasks.List(r.Context(), owner, hideChecked)
		if err != nil {
			s.writeTaskError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		owner, ok := callerID(r)
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		var req api.InsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid task payload")
			return
		}
		record, err := s.daemon.tasks.Insert(r.Context(), owner, req.Text)
		if err != nil {
			s.writeTaskError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, api.TaskResponse{Task: record})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleTaskItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(rest, "/toggle"):
		id := strings.TrimSuffix(rest, "/toggle")
		if id == "" || strings.Contains(id, "/") {
			s.writeError(w, http.StatusNotFound, taskActionMessage)
			return
		}
		resp, err := s.daemon.tasks.ToggleChecked(r.Context(), owner, id)
		if err != nil {
			s.writeTaskError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, resp)
	case r.Method == http.MethodDelete:
		if rest == "" || strings.Contains(rest, "/") {
			s.writeError(w, http.StatusNotFound, taskActionMessage)
			return
		}
		if err := s.daemon.tasks.Delete(r.Context(), owner, rest); err != nil {
			s.writeTaskError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Anonymous callers get a ready-but-empty feed rather than an error.
	owner, _ := callerID(r)

	query := r.URL.Query()
	since, _ := strconv.ParseUint(query.Get("since"), 10, 64)
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = 200
	}
	wait := queryFlag(r, "wait")

	ctx := r.Context()
	if wait {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
	}

	resp, err := s.daemon.tasks.Feed(ctx, owner, since, limit, wait)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, api.StatusResponse{
		Running:        status.Running,
		PID:            status.PID,
		DatabasePath:   status.DatabasePath,
		LockFilePath:   status.LockFilePath,
		TaskCounts:     status.TaskCounts,
		ActiveSessions: status.ActiveSessions,
		FeedSequence:   status.FeedSequence,
	})
}

// writeTaskError maps store failures onto HTTP. Not-found and non-owner
// collapse into one 404 so callers cannot probe other owners' record space.
func (s *apiServer) writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, task.ErrValidation):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, task.ErrNotFound), errors.Is(err, task.ErrUnauthorized):
		s.writeError(w, http.StatusNotFound, taskActionMessage)
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func queryFlag(r *http.Request, name string) bool {
	value := r.URL.Query().Get(name)
	return value == "1" || strings.EqualFold(value, "true")
}
