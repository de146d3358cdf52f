package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recipehelper/backend/config"
	"github.com/recipehelper/backend/internal/domain"
	"github.com/recipehelper/backend/internal/infrastructure/cache"
	"github.com/recipehelper/backend/internal/infrastructure/storage"
	"github.com/recipehelper/backend/internal/observability"
	"github.com/recipehelper/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

func testCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.Recipe{
		{
			Title:       "Tofu Stir-Fry",
			Ingredients: []string{"tofu", "bell pepper", "soy sauce", "rice"},
			Time:        "20 minutes",
			Diets:       []string{"vegan", "vegetarian"},
			Steps:       []string{"Press tofu.", "Stir-fry vegetables.", "Serve over rice."},
			Allergens:   []string{"soy"},
		},
		{
			Title:       "Chicken Fried Rice",
			Ingredients: []string{"chicken", "rice", "egg", "soy sauce", "peas"},
			Time:        "25 minutes",
			Diets:       []string{"halal"},
			Steps:       []string{"Cook rice.", "Fry chicken.", "Combine."},
		},
		{
			Title:       "Soba Noodle Bowl",
			Ingredients: []string{"Soba Noodles", "spring onion", "soy sauce"},
			Time:        "15 minutes",
			Diets:       []string{"Vegan"},
			Steps:       []string{"Boil noodles.", "Top and serve."},
		},
		{
			Title:       "Peanut Salad",
			Ingredients: []string{"peanut", "lettuce", "lime"},
			Time:        "quick",
			Steps:       []string{"Toss everything."},
		},
	})
}

// mockAssistant is a canned domain.Assistant
type mockAssistant struct {
	answer string
	err    error
	asked  []string
}

func (m *mockAssistant) Ask(ctx context.Context, question string, recipe *domain.Recipe) (string, error) {
	m.asked = append(m.asked, question+" @ "+recipe.Title)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*", "https://recipes.example.com"},
		},
		Cache: config.CacheConfig{
			Type: "memory",
		},
	}
}

// setupTestRouter creates a router over the test catalog. assistant may be nil.
func setupTestRouter(t *testing.T, assistant domain.Assistant) (*gin.Engine, *observability.Metrics) {
	t.Helper()

	memCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { memCache.Close() })

	metrics := observability.NewMetrics()
	service := usecase.NewRecipeService(testCatalog(), memCache, nil, assistant, metrics, nil, usecase.RecipeServiceConfig{})

	router := SetupRouter(testConfig(), NewHandler(service, nil, "test"), metrics, nil)
	if router == nil {
		t.Fatal("SetupRouter returned nil *gin.Engine")
	}
	return router, metrics
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return response
}

func titlesOf(t *testing.T, v interface{}) []string {
	t.Helper()
	items, ok := v.([]interface{})
	if !ok {
		t.Fatalf("expected JSON array, got %T (%v)", v, v)
	}
	titles := make([]string, 0, len(items))
	for _, item := range items {
		recipe := item.(map[string]interface{})["recipe"].(map[string]interface{})
		titles = append(titles, recipe["title"].(string))
	}
	return titles
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := doJSON(router, "GET", "/health", "")

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		response := decodeBody(t, w)
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "recipehelper" {
			t.Errorf("service = %v, want recipehelper", response["service"])
		}
		if response["version"] != "test" {
			t.Errorf("version = %v, want test", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := doJSON(router, method, "/health", "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestListDietsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	w := doJSON(router, "GET", "/api/v1/diets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	diets := decodeBody(t, w)["diets"].([]interface{})
	want := []string{"Vegan", "halal", "vegan", "vegetarian"}
	if len(diets) != len(want) {
		t.Fatalf("diets = %v, want %v", diets, want)
	}
	for i := range want {
		if diets[i] != want[i] {
			t.Errorf("diets[%d] = %v, want %s", i, diets[i], want[i])
		}
	}
}

func TestSuggestEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantTitles []string
	}{
		{
			name:       "ranks by overlap",
			body:       `{"ingredients": "tofu, rice, soy sauce"}`,
			wantStatus: http.StatusOK,
			wantTitles: []string{"Tofu Stir-Fry", "Chicken Fried Rice"},
		},
		{
			name:       "diet filter",
			body:       `{"ingredients": "tofu; rice; soy sauce", "diet": "Vegan"}`,
			wantStatus: http.StatusOK,
			wantTitles: []string{"Tofu Stir-Fry"},
		},
		{
			name:       "whitespace separated",
			body:       `{"ingredients": "peanut lime lettuce"}`,
			wantStatus: http.StatusOK,
			wantTitles: []string{"Peanut Salad"},
		},
		{
			name:       "no matches is still ok",
			body:       `{"ingredients": "chocolate, marshmallow"}`,
			wantStatus: http.StatusOK,
			wantTitles: []string{},
		},
		{
			name:       "blank ingredients",
			body:       `{"ingredients": " , ;"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing ingredients",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       `{"ingredients":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupTestRouter(t, nil)

			w := doJSON(router, "POST", "/api/v1/recipes/suggest", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			response := decodeBody(t, w)
			if tt.wantStatus != http.StatusOK {
				if _, ok := response["error"].(string); !ok {
					t.Errorf("error field missing: %v", response)
				}
				return
			}

			got := titlesOf(t, response["matches"])
			if strings.Join(got, "|") != strings.Join(tt.wantTitles, "|") {
				t.Errorf("matches = %v, want %v", got, tt.wantTitles)
			}
			if _, ok := response["window"].([]interface{}); !ok {
				t.Errorf("window = %v, want array", response["window"])
			}
		})
	}
}

func TestSuggestEndpoint_RecordsMetrics(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	doJSON(router, "POST", "/api/v1/recipes/suggest", `{"ingredients": "tofu, rice"}`)
	doJSON(router, "POST", "/api/v1/recipes/suggest", `{"ingredients": "rice, tofu"}`)

	w := doJSON(router, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, want := range []string{
		`recipehelper_suggestions_total{outcome="matched"} 1`,
		`recipehelper_suggestions_total{outcome="cache_hit"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestLookupEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTitle  string
	}{
		{"catalog index", "2", http.StatusOK, "Chicken Fried Rice"},
		{"partial title", "SOBA", http.StatusOK, "Soba Noodle Bowl"},
		{"out of range index falls back to title", "99", http.StatusNotFound, ""},
		{"unknown title", "lasagna", http.StatusNotFound, ""},
		{"empty query", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupTestRouter(t, nil)

			w := doJSON(router, "GET", "/api/v1/recipes/lookup?q="+tt.query, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			response := decodeBody(t, w)
			recipe := response["recipe"].(map[string]interface{})
			if recipe["title"] != tt.wantTitle {
				t.Errorf("title = %v, want %s", recipe["title"], tt.wantTitle)
			}
			explanation, _ := response["explanation"].(string)
			if !strings.HasPrefix(explanation, tt.wantTitle+" (") {
				t.Errorf("explanation = %q", explanation)
			}
			if _, ok := response["nutrition"].(string); !ok {
				t.Errorf("nutrition line missing")
			}
		})
	}
}

func TestRecipeCardEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	w := doJSON(router, "GET", "/api/v1/recipes/card?q=tofu", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	card := w.Body.String()
	for _, want := range []string{"Tofu Stir-Fry", "Ingredients:", "- bell pepper", "should NOT be used for medical"} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}

	w = doJSON(router, "GET", "/api/v1/recipes/card?q=nothing-like-this", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestPlanEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	w := doJSON(router, "POST", "/api/v1/recipes/plan", `{"query": "Tofu Stir-Fry", "ingredients": "Tofu, rice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d (%s)", w.Code, http.StatusOK, w.Body.String())
	}

	var plan domain.CookingPlan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("Failed to unmarshal plan: %v", err)
	}

	have := map[string]bool{}
	for _, item := range plan.ShoppingList {
		have[item.Name] = item.Have
	}
	want := map[string]bool{"tofu": true, "bell pepper": false, "soy sauce": false, "rice": true}
	for name, wantHave := range want {
		if have[name] != wantHave {
			t.Errorf("have[%s] = %v, want %v", name, have[name], wantHave)
		}
	}
	if plan.EstimatedCost != 7.0 {
		t.Errorf("EstimatedCost = %v, want 7", plan.EstimatedCost)
	}
	if plan.Timers.PrepMinutes != 5 || plan.Timers.CookMinutes != 15 || !plan.Timers.Parsed {
		t.Errorf("Timers = %+v, want prep 5 cook 15", plan.Timers)
	}

	t.Run("unknown recipe", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/recipes/plan", `{"query": "lasagna"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/recipes/plan", `{"ingredients": "tofu"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestAskEndpoint(t *testing.T) {
	t.Run("answers through the assistant", func(t *testing.T) {
		assistant := &mockAssistant{answer: "1. Press the tofu for 20 minutes."}
		router, _ := setupTestRouter(t, assistant)

		w := doJSON(router, "POST", "/api/v1/recipes/ask", `{"query": "1", "question": "How do I press tofu?"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		response := decodeBody(t, w)
		if response["answer"] != assistant.answer {
			t.Errorf("answer = %v", response["answer"])
		}
		if response["recipe"] != "Tofu Stir-Fry" {
			t.Errorf("recipe = %v", response["recipe"])
		}
		if len(assistant.asked) != 1 || assistant.asked[0] != "How do I press tofu? @ Tofu Stir-Fry" {
			t.Errorf("asked = %v", assistant.asked)
		}
	})

	statusCases := []struct {
		name       string
		assistant  domain.Assistant
		body       string
		wantStatus int
	}{
		{"no assistant configured", nil, `{"query": "1", "question": "q"}`, http.StatusServiceUnavailable},
		{"assistant failure", &mockAssistant{err: fmt.Errorf("%w: status 500", domain.ErrAssistantFailure)}, `{"query": "1", "question": "q"}`, http.StatusBadGateway},
		{"assistant rate limited", &mockAssistant{err: domain.ErrRateLimited}, `{"query": "1", "question": "q"}`, http.StatusTooManyRequests},
		{"missing question", &mockAssistant{answer: "x"}, `{"query": "1"}`, http.StatusBadRequest},
		{"unknown recipe", &mockAssistant{answer: "x"}, `{"query": "lasagna", "question": "q"}`, http.StatusNotFound},
	}

	for _, tc := range statusCases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := setupTestRouter(t, tc.assistant)

			w := doJSON(router, "POST", "/api/v1/recipes/ask", tc.body)
			if w.Code != tc.wantStatus {
				t.Errorf("Status = %d, want %d (%s)", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestSubstitutionEndpoint(t *testing.T) {
	tests := []struct {
		ingredient string
		wantStatus int
		wantSub    string
		wantFound  bool
	}{
		{"Butter", http.StatusOK, "oil", true},
		{"saffron", http.StatusOK, usecase.NoSubstitution, false},
		{"", http.StatusBadRequest, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ingredient, func(t *testing.T) {
			router, _ := setupTestRouter(t, nil)

			w := doJSON(router, "GET", "/api/v1/substitutions?ingredient="+tt.ingredient, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			response := decodeBody(t, w)
			if response["substitute"] != tt.wantSub {
				t.Errorf("substitute = %v, want %s", response["substitute"], tt.wantSub)
			}
			if response["found"] != tt.wantFound {
				t.Errorf("found = %v, want %v", response["found"], tt.wantFound)
			}
		})
	}
}

// TestSavedEndpoint tests listing recipes saved through the service
func TestSavedEndpoint(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFileStore(dir+"/saved.json", dir+"/cards", nil)
	service := usecase.NewRecipeService(testCatalog(), nil, store, nil, nil, nil, usecase.RecipeServiceConfig{})
	router := SetupRouter(testConfig(), NewHandler(service, nil, "test"), nil, nil)

	w := doJSON(router, "GET", "/api/v1/saved", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if saved := decodeBody(t, w)["saved"].([]interface{}); len(saved) != 0 {
		t.Errorf("saved = %v, want empty", saved)
	}

	recipe, _ := service.Lookup("tofu")
	if _, _, err := service.Save(context.Background(), recipe); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	w = doJSON(router, "GET", "/api/v1/saved", "")
	saved := decodeBody(t, w)["saved"].([]interface{})
	if len(saved) != 1 {
		t.Fatalf("len(saved) = %d, want 1", len(saved))
	}
	entry := saved[0].(map[string]interface{})
	if entry["title"] != recipe.Title || entry["id"] == "" {
		t.Errorf("entry = %v", entry)
	}
}

func TestEndpointsWithoutService(t *testing.T) {
	router := SetupRouter(testConfig(), NewHandler(nil, nil, ""), nil, nil)

	for _, path := range []string{"/api/v1/diets", "/api/v1/recipes/lookup?q=1", "/api/v1/substitutions?ingredient=egg", "/api/v1/saved"} {
		w := doJSON(router, "GET", path, "")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: Status = %d, want %d", path, w.Code, http.StatusServiceUnavailable)
		}
	}

	w := doJSON(router, "GET", "/metrics", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("/metrics without metrics: Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for local dev server", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:5173")
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, "true")
		}
	})

	t.Run("suggest endpoint has CORS for the web app", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		req, _ := http.NewRequest("POST", "/api/v1/recipes/suggest", strings.NewReader(`{"ingredients":"tofu, rice"}`))
		req.Header.Set("Origin", "https://recipes.example.com")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://recipes.example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "https://recipes.example.com")
		}
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := doJSON(router, "GET", "/panic", "")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if decodeBody(t, w)["error"] != "internal server error" {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	t.Run("v1 routes are accessible", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := doJSON(router, "GET", "/api/v1/diets", "")
		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := doJSON(router, "POST", "/api/recipes/suggest", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// TestJSONResponses tests that all JSON endpoints answer with valid JSON
func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/api/v1/diets"},
		{"POST", "/api/v1/recipes/suggest"},
		{"GET", "/api/v1/recipes/lookup?q=1"},
		{"GET", "/api/v1/substitutions?ingredient=egg"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router, _ := setupTestRouter(t, nil)

			w := doJSON(router, endpoint.method, endpoint.path, "")

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}
