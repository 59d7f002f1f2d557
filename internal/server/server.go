package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"iodine-tracker/internal/models"
	"iodine-tracker/internal/tracker"
)

// Version is reported by -version and /healthz.
const Version = "1.0.0"

// Catalog is the read side of the food catalog.
type Catalog interface {
	Count(ctx context.Context) (int, error)
	ListCategories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query string) ([]models.FoodRecord, error)
	ByCategory(ctx context.Context, category string) ([]models.FoodRecord, error)
	ByIDs(ctx context.Context, ids []int64) ([]models.FoodRecord, error)
}

type TrackerServer struct {
	httpServer *http.Server
	catalog    Catalog
	tracker    *tracker.Service
	logger     *zap.Logger
	tools      map[string]toolHandler
	info       protocol.Implementation
}

// NewTrackerServer wires the catalog and tracker into an HTTP server
// listening on addr.
func NewTrackerServer(addr string, catalog Catalog, svc *tracker.Service, logger *zap.Logger) *TrackerServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TrackerServer{
		catalog: catalog,
		tracker: svc,
		logger:  logger,
		info: protocol.Implementation{
			Name:    "iodine-tracker",
			Version: Version,
		},
	}
	s.tools = s.toolTable()
	for name := range s.tools {
		logger.Debug("registered tool", zap.String("tool", name))
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *TrackerServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *TrackerServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Post("/", s.handleHTTP)

		r.Get("/api/categories", s.restTool("list_categories", nil))
		r.Get("/api/search", s.restTool("search_foods", func(r *http.Request) map[string]interface{} {
			return map[string]interface{}{"query": r.URL.Query().Get("q")}
		}))
		r.Get("/api/category/{name}", s.restTool("foods_by_category", func(r *http.Request) map[string]interface{} {
			return map[string]interface{}{"category": chi.URLParam(r, "name")}
		}))
		r.Get("/api/tracker", s.restTool("tracker_get", func(r *http.Request) map[string]interface{} {
			return map[string]interface{}{"local_date": r.URL.Query().Get("local_date")}
		}))
		r.Post("/api/tracker/add", s.restTool("tracker_add", bodyArgs))
		r.Post("/api/tracker/update", s.restTool("tracker_update", bodyArgs))
		r.Post("/api/tracker/remove", s.restTool("tracker_remove", bodyArgs))
		r.Post("/api/tracker/clear", s.restTool("tracker_clear", bodyArgs))
	})
	return r
}

// handleHTTP answers MCP-style tool calls: {"name": ..., "arguments": {...}}.
func (s *TrackerServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	payload, err := handler(r.Context(), sessionIDFrom(r, request.Arguments), request.Arguments)
	if err != nil {
		s.logFailure(r, request.Name, err)
		result, encErr := s.createJSONResponse(errorBody(err))
		if encErr != nil {
			http.Error(w, encErr.Error(), http.StatusInternalServerError)
			return
		}
		result.IsError = true
		writeJSON(w, statusFor(err), result)
		return
	}

	result, err := s.createJSONResponse(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// restTool serves a tool as a plain JSON endpoint.
func (s *TrackerServer) restTool(name string, args func(*http.Request) map[string]interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var arguments map[string]interface{}
		if args != nil {
			arguments = args(r)
		}
		payload, err := s.tools[name](r.Context(), sessionIDFrom(r, arguments), arguments)
		if err != nil {
			s.logFailure(r, name, err)
			writeJSON(w, statusFor(err), errorBody(err))
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// bodyArgs reads a JSON object body. A missing or malformed body yields no
// arguments, which the tool then rejects as invalid input.
func bodyArgs(r *http.Request) map[string]interface{} {
	var args map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		return map[string]interface{}{}
	}
	return args
}

func (s *TrackerServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.catalog.Count(r.Context())
	if err != nil {
		s.logFailure(r, "healthz", err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"server":  s.info,
		"records": count,
	})
}

func (s *TrackerServer) Start(ctx context.Context) error {
	s.logger.Info("starting iodine tracker server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *TrackerServer) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *TrackerServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}

func (s *TrackerServer) logFailure(r *http.Request, tool string, err error) {
	fields := []zap.Field{
		zap.String("tool", tool),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	}
	if statusFor(err) >= http.StatusInternalServerError {
		s.logger.Error("tool call failed", fields...)
		return
	}
	s.logger.Info("tool call rejected", fields...)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, models.ErrLimitReached):
		return "limit_reached"
	case errors.Is(err, models.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "internal"
	}
}

func statusFor(err error) int {
	switch errorKind(err) {
	case "invalid_input", "limit_reached":
		return http.StatusBadRequest
	case "storage_unavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error(), "kind": errorKind(err)}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
