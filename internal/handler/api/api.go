// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST API for the airdrop catalog.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/airdrops-hunter/internal/geoip"
	"github.com/olegiv/airdrops-hunter/internal/handler"
	"github.com/olegiv/airdrops-hunter/internal/middleware"
	"github.com/olegiv/airdrops-hunter/internal/service"
	"github.com/olegiv/airdrops-hunter/internal/validation"
	"github.com/olegiv/airdrops-hunter/internal/webhook"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Deps are the collaborators the API needs. GeoIP and Health may be nil.
type Deps struct {
	Catalog         *service.Catalog
	Users           *service.Users
	Inbox           *service.Inbox
	Sessions        *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	GeoIP           *geoip.Lookup
	Health          *handler.HealthHandler
	Logger          *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	catalog *service.Catalog
	users   *service.Users
	inbox   *service.Inbox
	sm      *scs.SessionManager
	lp      *middleware.LoginProtection
	geo     *geoip.Lookup
	health  *handler.HealthHandler
	logger  *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		catalog: d.Catalog,
		users:   d.Users,
		inbox:   d.Inbox,
		sm:      d.Sessions,
		lp:      d.LoginProtection,
		geo:     d.GeoIP,
		health:  d.Health,
		logger:  logger,
	}
}

// Routes returns the router to mount at /api. It loads the session and the
// session user itself, so the caller only adds transport-level middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.sm.LoadAndSave)
	r.Use(middleware.LoadUser(h.sm, h.users))

	if h.health != nil {
		r.Get("/health", h.health.Health)
		r.Get("/health/live", h.health.Liveness)
	}

	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequireUser).Get("/current", h.CurrentUser)
		r.With(h.lp.Middleware()).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/register", h.Register)
	})

	r.Route("/airdrops", func(r chi.Router) {
		r.Get("/", h.ListAirdrops)
		r.Get("/featured", h.FeaturedAirdrops)
		r.Get("/status/{status}", h.AirdropsByStatus)
		r.Get("/category/{category}", h.AirdropsByCategory)
		r.Get("/{id}", h.GetAirdrop)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", h.CreateAirdrop)
			r.Put("/{id}", h.UpdateAirdrop)
			r.Delete("/{id}", h.DeleteAirdrop)
		})
	})

	r.Route("/blog-posts", func(r chi.Router) {
		r.Get("/", h.ListBlogPosts)
		r.Get("/category/{category}", h.BlogPostsByCategory)
		r.Get("/{id}", h.GetBlogPost)
		r.Get("/{id}/html", h.GetBlogPostHTML)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", h.CreateBlogPost)
			r.Put("/{id}", h.UpdateBlogPost)
			r.Delete("/{id}", h.DeleteBlogPost)
		})
	})

	r.Post("/newsletter", h.Subscribe)
	r.Post("/contact", h.Contact)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	return r
}

// ErrorResponse is the API error body.
type ErrorResponse struct {
	Message string                  `json:"message"`
	Code    string                  `json:"code"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, fieldErrors []validation.FieldError) {
	WriteJSON(w, statusCode, ErrorResponse{
		Message: message,
		Code:    code,
		Errors:  fieldErrors,
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 400 response listing every field error.
func WriteValidationError(w http.ResponseWriter, errs validation.Errors) {
	WriteError(w, http.StatusBadRequest, "validation_error", errs.Error(), errs)
}

// serverError logs err and writes a generic 500.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, "error", err, "method", r.Method)
	WriteInternalError(w, "Internal server error")
}

// decodeJSON reads the request body into dst. Returns false if the body was
// rejected (response already written).
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			WriteBadRequest(w, "Request body is required")
		case errors.As(err, &maxErr):
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body too large", nil)
		case errors.As(err, &typeErr) && typeErr.Field != "":
			WriteValidationError(w, validation.Errors{{
				Field:   typeErr.Field,
				Message: "Expected " + typeErr.Type.String(),
			}})
		default:
			WriteBadRequest(w, "Invalid JSON body")
		}
		return false
	}
	return true
}

// decodeValid decodes the body into dst and runs the validation gateway.
// Returns false if the response was already written.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if err := validation.Validate(dst); err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			WriteValidationError(w, errs)
		} else {
			WriteBadRequest(w, err.Error())
		}
		return false
	}
	return true
}

// EntityFetcher fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, bool, error)

// requireEntityByID parses an ID from the URL and fetches the entity.
// Returns the entity and true if successful, or zero value and false if error (response written).
// The entityName is used for error messages (e.g., "airdrop", "blog post").
func requireEntityByID[T any](h *Handler, w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, ok := requireID(w, r)
	if !ok {
		return zero, false
	}

	entity, found, err := fetch(id)
	if err != nil {
		h.serverError(w, r, "failed to retrieve "+entityName, err)
		return zero, false
	}
	if !found {
		WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		return zero, false
	}

	return entity, true
}

// requireID parses the {id} URL parameter, writing a 400 on failure.
func requireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid ID format")
		return 0, false
	}
	return id, true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// clientInfo summarizes the caller for webhook payloads.
func (h *Handler) clientInfo(r *http.Request) *webhook.ClientInfo {
	return webhook.NewClientInfo(r.UserAgent(), middleware.ClientIP(r), h.geo)
}
