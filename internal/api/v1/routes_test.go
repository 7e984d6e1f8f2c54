package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/parleychat/parley-server/internal/api/v1"
	"github.com/parleychat/parley-server/internal/auth"
	"github.com/parleychat/parley-server/internal/chat"
	"github.com/parleychat/parley-server/internal/filtering"
	"github.com/parleychat/parley-server/internal/service"
	"github.com/parleychat/parley-server/internal/service/inmemory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return v1.Router(seededService(), t.TempDir())
}

func seededService() service.ServerService {
	return inmemory.New(
		[]chat.Server{
			{ID: 1, Name: "general", Description: "Talk about anything", Category: "Gaming", OwnerID: 101, Members: []int64{101, 102}},
			{ID: 2, Name: "speedrunners", Category: "Gaming", OwnerID: 102, Members: []int64{101}},
			{ID: 3, Name: "jazz-lounge", Category: "Music", OwnerID: 103},
		},
		[]chat.Category{
			{ID: 1, Name: "Gaming", Description: "Games and gaming communities"},
			{ID: 2, Name: "Music"},
		},
	)
}

func authedRequest(method, target string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := auth.WithIdentity(req.Context(), auth.Identity{UserID: userID, Authenticated: true})
	return req.WithContext(ctx)
}

func decodeServerList(t *testing.T, rec *httptest.ResponseRecorder) []v1.ServerResponse {
	t.Helper()

	var servers []v1.ServerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &servers))
	return servers
}

func TestListServers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/servers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	servers := decodeServerList(t, rec)
	require.Len(t, servers, 3)
	assert.Equal(t, int64(1), servers[0].ID)
	assert.Equal(t, "general", servers[0].Name)
	assert.Equal(t, "Gaming", servers[0].Category)
	assert.Equal(t, int64(101), servers[0].OwnerID)

	// memberCount is omitted entirely unless requested
	assert.NotContains(t, rec.Body.String(), "memberCount")
}

func TestListServersWithMemberCount(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/servers?category=Gaming&with_num_members=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	servers := decodeServerList(t, rec)
	require.Len(t, servers, 2)

	require.NotNil(t, servers[0].MemberCount)
	assert.Equal(t, 2, *servers[0].MemberCount)
	require.NotNil(t, servers[1].MemberCount)
	assert.Equal(t, 1, *servers[1].MemberCount)
}

func TestListServersByUser(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/servers?by_user=true", 102))

	require.Equal(t, http.StatusOK, rec.Code)

	servers := decodeServerList(t, rec)
	require.Len(t, servers, 1)
	assert.Equal(t, int64(1), servers[0].ID)
}

func TestListServersUnknownCategoryIsEmpty(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/servers?category=Cooking", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListServersErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		userID     int64
		wantStatus int
		wantError  string
	}{
		{
			name:       "by_user without authentication",
			target:     "/servers?by_user=true",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authentication required",
		},
		{
			name:       "by_serverid without authentication",
			target:     "/servers?by_serverid=1",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authentication required",
		},
		{
			name:       "anonymous caller with a malformed id still gets 401",
			target:     "/servers?by_serverid=abc",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authentication required",
		},
		{
			name:       "unknown server id",
			target:     "/servers?by_serverid=99",
			userID:     101,
			wantStatus: http.StatusBadRequest,
			wantError:  "Server with id 99 not found",
		},
		{
			name:       "malformed server id",
			target:     "/servers?by_serverid=abc",
			userID:     101,
			wantStatus: http.StatusBadRequest,
			wantError:  "Server value error",
		},
		{
			name:       "malformed quantity",
			target:     "/servers?qty=lots",
			wantStatus: http.StatusBadRequest,
			wantError:  "Server value error",
		},
		{
			name:       "negative quantity",
			target:     "/servers?qty=-3",
			wantStatus: http.StatusBadRequest,
			wantError:  "Server value error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(t)

			var req *http.Request
			if tt.userID != 0 {
				req = authedRequest(http.MethodGet, tt.target, tt.userID)
			} else {
				req = httptest.NewRequest(http.MethodGet, tt.target, nil)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var errResp v1.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantError, errResp.Error)
		})
	}
}

func TestListCategories(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var categories []v1.CategoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, 2)
	assert.Equal(t, "Gaming", categories[0].Name)
	assert.Equal(t, "Games and gaming communities", categories[0].Description)
	assert.Equal(t, "Music", categories[1].Name)
}

func TestServeOpenAPIYAML(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi:")
	assert.Contains(t, rec.Body.String(), "/api/v1/servers")
}

// iconUpload builds a multipart PUT request carrying a square PNG of the given
// side length as the icon form field.
func iconUpload(t *testing.T, serverID string, filename string, side int, userID int64) *http.Request {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, side, side))))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("icon", filename)
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/servers/%s/icon", serverID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if userID != 0 {
		ctx := auth.WithIdentity(req.Context(), auth.Identity{UserID: userID, Authenticated: true})
		req = req.WithContext(ctx)
	}
	return req
}

func TestUploadServerIcon(t *testing.T) {
	t.Parallel()

	svc := seededService()
	dataDir := t.TempDir()
	router := v1.Router(svc, dataDir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, iconUpload(t, "1", "avatar.png", 64, 101))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp v1.IconUploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Icon)

	// The stored file exists and the service points at it.
	_, err := os.Stat(resp.Icon)
	require.NoError(t, err)

	results, err := svc.ListServers(context.Background(), filtering.Request{
		ServerID: "1",
		User:     auth.Identity{UserID: 101, Authenticated: true},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, resp.Icon, results[0].IconPath)
}

func TestUploadServerIconErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name: "unauthenticated",
			req: func(t *testing.T) *http.Request {
				return iconUpload(t, "1", "avatar.png", 16, 0)
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authentication required",
		},
		{
			name: "malformed server id",
			req: func(t *testing.T) *http.Request {
				return iconUpload(t, "abc", "avatar.png", 16, 101)
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Server value error",
		},
		{
			name: "unknown server",
			req: func(t *testing.T) *http.Request {
				return iconUpload(t, "404", "avatar.png", 16, 101)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "Server with id 404 not found",
		},
		{
			name: "missing icon field",
			req: func(t *testing.T) *http.Request {
				var body bytes.Buffer
				writer := multipart.NewWriter(&body)
				require.NoError(t, writer.Close())

				req := httptest.NewRequest(http.MethodPut, "/servers/1/icon", &body)
				req.Header.Set("Content-Type", writer.FormDataContentType())
				ctx := auth.WithIdentity(req.Context(), auth.Identity{UserID: 101, Authenticated: true})
				return req.WithContext(ctx)
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Icon file is required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tt.req(t))

			require.Equal(t, tt.wantStatus, rec.Code)

			var errResp v1.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantError, errResp.Error)
		})
	}
}

func TestUploadServerIconRejectsBadImages(t *testing.T) {
	t.Parallel()

	t.Run("disallowed extension", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, iconUpload(t, "1", "avatar.svg", 16, 101))

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp v1.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Contains(t, errResp.Error, "not allowed for upload")
	})

	t.Run("oversized image", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, iconUpload(t, "1", "avatar.png", 71, 101))

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp v1.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Contains(t, errResp.Error, "maximum allowed dimensions")
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := v1.HealthRouter(seededService())

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("readiness", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readiness", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	})

	t.Run("version", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var info map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Contains(t, info, "version")
	})
}
