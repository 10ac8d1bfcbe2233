package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/formlite/formlite/internal/auth"
	"github.com/formlite/formlite/internal/middleware"
	"github.com/formlite/formlite/internal/services"
)

type Router struct {
	authSvc *services.AuthService
	formSvc *services.FormService
	logger  *slog.Logger
}

func NewRouter(store Store, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	signer := func(userID, email string) (string, error) { return auth.Sign(userID, email) }
	return &Router{
		authSvc: services.NewAuthService(store, signer),
		formSvc: services.NewFormService(store),
		logger:  logger,
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST
	mux.HandleFunc("/api/forms", rt.handleForms)            // GET list, POST create
	mux.HandleFunc("/api/forms/", rt.handleFormScoped)      // {id}, {id}/public, {id}/submit, {id}/export
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, services.NewInvalidError("invalid request body"))
		return
	}
	res, err := rt.authSvc.Register(req.Name, req.Email, req.Password)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	rt.writeJSON(w, map[string]any{
		"message": "User created successfully",
		"token":   res.Token,
		"user":    res.User,
	})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, services.NewInvalidError("invalid request body"))
		return
	}
	res, err := rt.authSvc.Login(req.Email, req.Password)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	rt.writeJSON(w, map[string]any{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

// GET/POST /api/forms
func (rt *Router) handleForms(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		summaries, err := rt.formSvc.ListOwned(ownerID)
		if err != nil {
			rt.writeError(w, err)
			return
		}
		rt.writeJSON(w, map[string]any{"forms": summaries})
	case http.MethodPost:
		var req struct {
			Title       string                   `json:"title"`
			Description string                   `json:"description"`
			Questions   []services.QuestionInput `json:"questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			rt.writeError(w, services.NewInvalidError("invalid request body"))
			return
		}
		f, err := rt.formSvc.Create(ownerID, req.Title, req.Description, req.Questions)
		if err != nil {
			rt.writeError(w, err)
			return
		}
		rt.writeJSON(w, map[string]any{
			"message": "Form created successfully",
			"form":    f.Summary(),
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/forms/{id}
// GET /api/forms/{id}/public
// POST /api/forms/{id}/submit
// GET /api/forms/{id}/export
func (rt *Router) handleFormScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/forms/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}
	switch {
	case len(parts) == 1:
		rt.handleFormGet(w, r, id)
	case len(parts) == 2 && parts[1] == "public":
		rt.handleFormPublic(w, r, id)
	case len(parts) == 2 && parts[1] == "submit":
		rt.handleFormSubmit(w, r, id)
	case len(parts) == 2 && parts[1] == "export":
		rt.handleFormExport(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) handleFormGet(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	f, err := rt.formSvc.Get(ownerID, id)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	rt.writeJSON(w, map[string]any{"form": f})
}

func (rt *Router) handleFormPublic(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f, err := rt.formSvc.GetPublic(id)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	rt.writeJSON(w, map[string]any{"form": f})
}

func (rt *Router) handleFormSubmit(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, services.NewInvalidError("invalid request body"))
		return
	}
	if err := rt.formSvc.Submit(id, req.Answers); err != nil {
		rt.writeError(w, err)
		return
	}
	rt.writeJSON(w, map[string]any{"message": "Response submitted successfully"})
}

func (rt *Router) handleFormExport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	f, err := rt.formSvc.Get(ownerID, id)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	b, err := services.ExportResponsesCSV(f)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Title+`-responses.csv"`)
	_, _ = w.Write(b)
}

func (rt *Router) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (rt *Router) writeError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		rt.writeJSONStatus(w, statusFor(se.Code), map[string]any{"error": se.Message})
		return
	}
	// Unexpected fault: log detail internally, leak nothing to the caller.
	rt.logger.Error("internal error", "error", err)
	rt.writeJSONStatus(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
}

func (rt *Router) writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid, services.ErrorConflict:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
