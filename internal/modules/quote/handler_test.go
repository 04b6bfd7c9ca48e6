package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pipequote/internal/database"
	"pipequote/internal/middleware"
	"pipequote/internal/modules/pricing"
	"pipequote/internal/repository"
)

const testIntakeSecret = "intake-secret"

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	repo := repository.NewQuoteRepository(db)
	service := NewService(repo, pricing.DefaultTable(), "https://quotes.example.com")
	handler := NewHandler(service)

	router := gin.New()
	intake := router.Group("/api/v1")
	intake.Use(middleware.BearerAuth(testIntakeSecret))
	handler.RegisterRoutes(intake)

	return router, db
}

func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint(t *testing.T) {
	router, db := setupRouter(t)

	body := map[string]any{
		"job_number":    "4821",
		"customer_name": "Margaret Wilson",
		"lines":         []map[string]any{{"size": "100mm", "meters": 12, "junctions": 1}},
	}

	w := performRequest(router, http.MethodPost, "/api/v1/quotes", body, testIntakeSecret)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data GenerateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.PublicID, 10)
	assert.Contains(t, resp.Data.PublicURL, "/q/"+resp.Data.PublicID+"?t=")

	// the snapshot landed with recomputed totals
	repo := repository.NewQuoteRepository(db)
	q, err := repo.GetByPublicID(context.Background(), resp.Data.PublicID)
	require.NoError(t, err)
	assert.Equal(t, 8649.99, q.Totals.GrandTotal)
	assert.Equal(t, "Margaret Wilson", q.CustomerName)
}

func TestGenerateEndpointRequiresCredential(t *testing.T) {
	router, _ := setupRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/quotes", map[string]any{
		"job_number": "1", "customer_name": "X",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(router, http.MethodPost, "/api/v1/quotes", map[string]any{
		"job_number": "1", "customer_name": "X",
	}, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateEndpointValidation(t *testing.T) {
	router, _ := setupRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/quotes", map[string]any{
		"customer_name": "Missing Job",
	}, testIntakeSecret)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "JobNumber")
}
