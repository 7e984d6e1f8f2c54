// Package v1 provides the REST API handlers for the chat-server listing endpoints.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/parleychat/parley-server/cmd/parley-api/docs"
	"github.com/parleychat/parley-server/internal/auth"
	"github.com/parleychat/parley-server/internal/filtering"
	"github.com/parleychat/parley-server/internal/service"
	"github.com/parleychat/parley-server/internal/validators"
	"github.com/parleychat/parley-server/internal/versions"
)

// maxIconUploadBytes caps the multipart form size for icon uploads.
const maxIconUploadBytes = 2 << 20

var (
	// cachedOpenAPIYAML stores the cached YAML representation of the OpenAPI spec
	cachedOpenAPIYAML []byte
)

func init() {
	// Initialize the OpenAPI YAML at package load time to prevent race conditions
	var openAPISpec map[string]any
	if err := json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &openAPISpec); err != nil {
		slog.Error("Failed to parse OpenAPI specification during initialization", "error", err)
		return
	}

	yamlData, err := yaml.Marshal(openAPISpec)
	if err != nil {
		slog.Error("Failed to convert OpenAPI specification to YAML during initialization", "error", err)
		return
	}

	cachedOpenAPIYAML = yamlData
}

// ServerResponse represents a server in list API responses
type ServerResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	OwnerID     int64  `json:"owner_id"`
	Icon        string `json:"icon,omitempty"`
	Banner      string `json:"banner,omitempty"`
	// MemberCount is present only when requested via with_num_members=true
	MemberCount *int `json:"memberCount,omitempty"`
}

// CategoryResponse represents a category in list API responses
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// IconUploadResponse represents the result of an icon upload
type IconUploadResponse struct {
	Icon string `json:"icon"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes defines the routes for the chat-server API with dependency injection
type Routes struct {
	service service.ServerService
	dataDir string
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc service.ServerService, dataDir string) *Routes {
	return &Routes{
		service: svc,
		dataDir: dataDir,
	}
}

// Router creates a new router for the chat-server API
func Router(svc service.ServerService, dataDir string) http.Handler {
	routes := NewRoutes(svc, dataDir)

	r := chi.NewRouter()

	// OpenAPI specification
	r.Get("/openapi.yaml", serveOpenAPIYAML)

	// Category endpoints
	r.Get("/categories", routes.listCategories)

	// Server endpoints
	r.Route("/servers", func(r chi.Router) {
		r.Get("/", routes.listServers)
		r.Put("/{id}/icon", routes.uploadServerIcon)
	})

	return r
}

// listServers handles GET /api/v1/servers
//
//	@Summary		List servers
//	@Description	Get a filtered list of chat servers. All filters are optional and combine.
//	@Tags			servers
//	@Accept			json
//	@Produce		json
//	@Param			category			query		string	false	"Filter by exact category name"
//	@Param			qty					query		integer	false	"Maximum number of servers to return"
//	@Param			by_user				query		string	false	"Only servers the caller is a member of; the literal value true enables the filter"
//	@Param			by_serverid			query		integer	false	"Restrict to one server id (applied after the quantity limit)"
//	@Param			with_num_members	query		string	false	"Attach a memberCount per server; the literal value true enables the annotation"
//	@Success		200					{array}		ServerResponse
//	@Failure		400					{object}	ErrorResponse
//	@Failure		401					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/servers [get]
func (rr *Routes) listServers(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	req := filtering.ParseRequest(r.URL.Query(), identity)

	servers, err := rr.service.ListServers(r.Context(), req)
	if err != nil {
		rr.writeListError(w, r, err)
		return
	}

	responses := make([]ServerResponse, len(servers))
	for i := range servers {
		responses[i] = newServerResponse(servers[i])
	}

	rr.writeJSONResponse(w, responses)
}

// writeListError maps filter pipeline failures onto the HTTP contract:
// authentication failures are 401, malformed values and misses are 400 with
// the pipeline's own message.
func (rr *Routes) writeListError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, filtering.ErrUnauthenticated):
		rr.writeErrorResponse(w, "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, filtering.ErrInvalidParameter), errors.Is(err, filtering.ErrServerNotFound):
		rr.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("Failed to list servers", "error", err, "path", r.URL.Path)
		rr.writeErrorResponse(w, "Failed to list servers", http.StatusInternalServerError)
	}
}

// listCategories handles GET /api/v1/categories
//
//	@Summary		List categories
//	@Description	Get all server categories
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Success		200	{array}		CategoryResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/v1/categories [get]
func (rr *Routes) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := rr.service.ListCategories(r.Context())
	if err != nil {
		slog.Error("Failed to list categories", "error", err)
		rr.writeErrorResponse(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = CategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		}
	}

	rr.writeJSONResponse(w, responses)
}

// uploadServerIcon handles PUT /api/v1/servers/{id}/icon
//
//	@Summary		Upload server icon
//	@Description	Upload a new icon for a server. Accepts jpeg, png, gif and jpg files up to 70x70 pixels.
//	@Tags			servers
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		integer	true	"Server id"
//	@Param			icon	formData	file	true	"Icon image file"
//	@Success		200		{object}	IconUploadResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/servers/{id}/icon [put]
func (rr *Routes) uploadServerIcon(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if !identity.Authenticated {
		rr.writeErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	serverID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		rr.writeErrorResponse(w, "Server value error", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxIconUploadBytes); err != nil {
		rr.writeErrorResponse(w, "Malformed multipart request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("icon")
	if err != nil {
		rr.writeErrorResponse(w, "Icon file is required", http.StatusBadRequest)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close uploaded file", "error", closeErr)
		}
	}()

	if err := validators.ValidateImageExtension(header.Filename); err != nil {
		rr.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validators.ValidateIconImageSize(file); err != nil {
		rr.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Rewind after the dimension check consumed the image header
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		slog.Error("Failed to rewind uploaded file", "error", err)
		rr.writeErrorResponse(w, "Failed to store icon", http.StatusInternalServerError)
		return
	}

	iconPath, err := rr.storeIcon(file, header.Filename)
	if err != nil {
		slog.Error("Failed to store icon", "error", err, "server_id", serverID)
		rr.writeErrorResponse(w, "Failed to store icon", http.StatusInternalServerError)
		return
	}

	if err := rr.service.SetServerIcon(r.Context(), serverID, iconPath); err != nil {
		if errors.Is(err, service.ErrServerNotFound) {
			rr.writeErrorResponse(w, fmt.Sprintf("Server with id %d not found", serverID), http.StatusNotFound)
			return
		}
		slog.Error("Failed to set server icon", "error", err, "server_id", serverID)
		rr.writeErrorResponse(w, "Failed to set server icon", http.StatusInternalServerError)
		return
	}

	rr.writeJSONResponse(w, IconUploadResponse{Icon: iconPath})
}

// storeIcon writes the uploaded file under the icons directory with a
// collision-free name and returns the stored path.
func (rr *Routes) storeIcon(src io.Reader, originalName string) (string, error) {
	iconsDir := filepath.Join(rr.dataDir, "icons")
	if err := os.MkdirAll(iconsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create icons directory: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(iconsDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create icon file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil {
			slog.Warn("Failed to close icon file", "error", closeErr, "path", path)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write icon file: %w", err)
	}
	return path, nil
}

// newServerResponse creates a ServerResponse from a pipeline result item
func newServerResponse(srv filtering.AnnotatedServer) ServerResponse {
	return ServerResponse{
		ID:          srv.ID,
		Name:        srv.Name,
		Description: srv.Description,
		Category:    srv.Category,
		OwnerID:     srv.OwnerID,
		Icon:        srv.IconPath,
		Banner:      srv.BannerPath,
		MemberCount: srv.MemberCount,
	}
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc service.ServerService) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
//
//	@Summary		Health check
//	@Description	Check if the API is healthy
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessHandler handles readiness check requests
//
//	@Summary		Readiness check
//	@Description	Check if the API is ready to serve requests
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	ErrorResponse
//	@Router			/readiness [get]
func readinessHandler(svc service.ServerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			errorResp := ErrorResponse{
				Error: "Service not ready: " + err.Error(),
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if encodeErr := json.NewEncoder(w).Encode(errorResp); encodeErr != nil {
				slog.Error("Failed to encode readiness error response", "error", encodeErr)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}

// versionHandler handles version information requests
//
//	@Summary		Version information
//	@Description	Get version information about the API server
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	versions.VersionInfo
//	@Router			/version [get]
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(info); err != nil {
		slog.Error("Failed to encode version info", "error", err)
	}
}

// serveOpenAPIYAML serves the OpenAPI specification in YAML format
//
//	@Summary		Get OpenAPI specification
//	@Description	Returns the OpenAPI specification for the API in YAML format
//	@Tags			system
//	@Produce		application/x-yaml
//	@Success		200	{string}	string	"OpenAPI specification in YAML format"
//	@Router			/api/v1/openapi.yaml [get]
func serveOpenAPIYAML(w http.ResponseWriter, _ *http.Request) {
	if cachedOpenAPIYAML == nil {
		http.Error(w, "OpenAPI specification unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(cachedOpenAPIYAML)
}

// writeJSONResponse writes a JSON response with the given data
func (*Routes) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// writeErrorResponse writes a standardized error response
func (*Routes) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := ErrorResponse{
		Error: message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
