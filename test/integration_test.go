package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"tea-techniques-api/config"
	"tea-techniques-api/handlers"
	"tea-techniques-api/models"
	"tea-techniques-api/repositories"
	"tea-techniques-api/services"
)

type IntegrationTestSuite struct {
	suite.Suite
	store   *repositories.Store
	router  *gin.Engine
	session string
}

func (suite *IntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		UseSQLite:      true,
		SQLitePath:     "file:integration?mode=memory&cache=shared",
		SecretKey:      "test-secret",
		DBPoolSize:     1,
		RequestTimeout: 30 * time.Second,
		SessionTTL:     time.Hour,
		Port:           "8000",
	}
	config.SetupLogger(cfg)

	db, err := config.InitDB(cfg)
	if err != nil {
		suite.T().Fatal("Failed to open test database:", err)
	}
	suite.store = repositories.NewStore(db)
	suite.router = handlers.NewRouter(cfg, suite.store)

	authService := services.NewAuthService(suite.store, cfg.SessionTTL)
	_, err = authService.EnsureAdmin(context.Background(), "admin", "admin@example.org", "password123")
	if err != nil {
		suite.T().Fatal("Failed to create admin:", err)
	}

	suite.session = suite.login("admin", "password123")
}

func (suite *IntegrationTestSuite) SetupTest() {
	// Catalog tables are wiped between tests; the admin user and the
	// suite session survive.
	for _, table := range []string{
		"technique_assurance_goal", "technique_category", "technique_subcategory", "technique_tag",
		"attribute_value", "technique_resource", "technique_example_use_case", "technique_limitation",
		"technique", "subcategory", "category", "assurance_goal", "tag", "attribute_type", "resource_type",
	} {
		suite.store.DB.Exec("DELETE FROM " + table)
	}
}

func (suite *IntegrationTestSuite) login(username, password string) string {
	w := suite.do("POST", "/api/auth/login", models.LoginRequest{Username: username, Password: password}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "sessionid" {
			return cookie.Value
		}
	}
	suite.T().Fatal("login response did not set a session cookie")
	return ""
}

// do issues a request against the router. Unsafe methods carry the
// X-Requested-With header, taking the non-browser CSRF path.
func (suite *IntegrationTestSuite) do(method, path string, payload interface{}, session string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: session})
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func intPtr(n int) *int { return &n }

func techniquePayload(name string) models.TechniqueRecord {
	return models.TechniqueRecord{
		Name:             name,
		Description:      "Integration test technique.",
		ModelDependency:  "Model-Agnostic",
		AssuranceGoals:   []string{"Explainability"},
		CategoryTags:     "Explainability/Feature Analysis/Importance and Attribution",
		Tags:             []string{"interpretability"},
		ComplexityRating: intPtr(3),
		Limitations:      models.LimitationList{"A known limitation."},
		Resources: []models.ResourceRecord{
			{Type: "Paper", URL: "https://example.org/paper"},
		},
	}
}

func (suite *IntegrationTestSuite) TestHealth() {
	w := suite.do("GET", "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestAuthFlow() {
	// Bad credentials produce the AuthenticationFailed envelope.
	w := suite.do("POST", "/api/auth/login", models.LoginRequest{Username: "admin", Password: "wrong"}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	var envelope map[string]interface{}
	suite.decode(w, &envelope)
	suite.Equal("AuthenticationFailed", envelope["error_type"])
	suite.Equal("Invalid credentials", envelope["detail"])

	// A fresh login opens its own session.
	session := suite.login("admin", "password123")
	suite.NotEmpty(session)
	suite.NotEqual(suite.session, session)

	w = suite.do("GET", "/api/auth/status", nil, session)
	suite.Equal(http.StatusOK, w.Code)
	var status struct {
		IsAuthenticated bool            `json:"isAuthenticated"`
		User            models.AuthUser `json:"user"`
	}
	suite.decode(w, &status)
	suite.True(status.IsAuthenticated)
	suite.Equal("admin", status.User.Username)
	suite.True(status.User.IsStaff)

	// Logout invalidates the session server-side.
	w = suite.do("POST", "/api/auth/logout", nil, session)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do("POST", "/api/techniques", techniquePayload("After Logout"), session)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.decode(w, &envelope)
	suite.Equal("PermissionDenied", envelope["error_type"])
}

func (suite *IntegrationTestSuite) TestAuthStatusAnonymous() {
	w := suite.do("GET", "/api/auth/status", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var status map[string]interface{}
	suite.decode(w, &status)
	suite.Equal(false, status["isAuthenticated"])

	w = suite.do("GET", "/api/auth/user", nil, "")
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *IntegrationTestSuite) TestCSRFTokenFlow() {
	w := suite.do("GET", "/api/auth/csrf", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		CSRFToken string `json:"csrfToken"`
	}
	suite.decode(w, &resp)
	suite.NotEmpty(resp.CSRFToken)

	// A browser-originated write passes with the token in the header.
	data, _ := json.Marshal(techniquePayload("Browser Created"))
	req := httptest.NewRequest("POST", "/api/techniques", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.org")
	req.Header.Set("X-CSRFToken", resp.CSRFToken)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: suite.session})
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusCreated, rec.Code, rec.Body.String())

	// Without the token the same request is rejected.
	req = httptest.NewRequest("POST", "/api/techniques", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.org")
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: suite.session})
	rec = httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusForbidden, rec.Code)
}

func (suite *IntegrationTestSuite) TestTechniqueLifecycle() {
	// Create
	w := suite.do("POST", "/api/techniques", techniquePayload("Lifecycle"), suite.session)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created models.Technique
	suite.decode(w, &created)
	suite.NotZero(created.ID)
	suite.Len(created.AssuranceGoals, 1)
	suite.Len(created.Categories, 1)
	suite.Len(created.SubCategories, 1)
	suite.Len(created.Limitations, 1)

	// Duplicate name conflicts
	w = suite.do("POST", "/api/techniques", techniquePayload("Lifecycle"), suite.session)
	suite.Equal(http.StatusConflict, w.Code)
	var envelope map[string]interface{}
	suite.decode(w, &envelope)
	suite.Equal("Conflict", envelope["error_type"])

	// Read
	w = suite.do("GET", fmt.Sprintf("/api/techniques/%d", created.ID), nil, "")
	suite.Equal(http.StatusOK, w.Code)

	// Full replace drops the old limitations
	replacement := techniquePayload("Lifecycle")
	replacement.Limitations = models.LimitationList{"New limitation A.", "New limitation B."}
	w = suite.do("PUT", fmt.Sprintf("/api/techniques/%d", created.ID), replacement, suite.session)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated models.Technique
	suite.decode(w, &updated)
	suite.Len(updated.Limitations, 2)

	// Patch touches only the provided field
	w = suite.do("PATCH", fmt.Sprintf("/api/techniques/%d", created.ID),
		map[string]interface{}{"description": "Patched."}, suite.session)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var patched models.Technique
	suite.decode(w, &patched)
	suite.Equal("Patched.", patched.Description)
	suite.Equal("Lifecycle", patched.Name)
	suite.Len(patched.Limitations, 2)

	// Delete
	w = suite.do("DELETE", fmt.Sprintf("/api/techniques/%d", created.ID), nil, suite.session)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do("GET", fmt.Sprintf("/api/techniques/%d", created.ID), nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.decode(w, &envelope)
	suite.Equal("NotFound", envelope["error_type"])
	suite.Equal(float64(404), envelope["status_code"])
}

func (suite *IntegrationTestSuite) TestValidationEnvelope() {
	payload := techniquePayload("Bad Rating")
	payload.ComplexityRating = intPtr(7)
	w := suite.do("POST", "/api/techniques", payload, suite.session)
	suite.Equal(http.StatusBadRequest, w.Code)

	var envelope struct {
		Errors     map[string][]string `json:"errors"`
		StatusCode int                 `json:"status_code"`
		ErrorType  string              `json:"error_type"`
	}
	suite.decode(w, &envelope)
	suite.Equal("ValidationError", envelope.ErrorType)
	suite.Equal(http.StatusBadRequest, envelope.StatusCode)
	suite.Contains(envelope.Errors, "complexity_rating")
}

func (suite *IntegrationTestSuite) TestWritesRequireAuthentication() {
	w := suite.do("POST", "/api/techniques", techniquePayload("Anonymous"), "")
	suite.Equal(http.StatusForbidden, w.Code)
	var envelope map[string]interface{}
	suite.decode(w, &envelope)
	suite.Equal("PermissionDenied", envelope["error_type"])
	suite.Equal("Authentication credentials were not provided.", envelope["detail"])
}

func (suite *IntegrationTestSuite) TestListFilteringAndPagination() {
	first := techniquePayload("Alpha Technique")
	w := suite.do("POST", "/api/techniques", first, suite.session)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	second := techniquePayload("Beta Technique")
	second.AssuranceGoals = []string{"Privacy"}
	second.CategoryTags = "Privacy/Noise Injection"
	second.Tags = []string{"anonymization"}
	second.ModelDependency = "Model-Specific"
	w = suite.do("POST", "/api/techniques", second, suite.session)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	type listEnvelope struct {
		Count    int64              `json:"count"`
		Next     *string            `json:"next"`
		Previous *string            `json:"previous"`
		Results  []models.Technique `json:"results"`
	}

	// Pagination envelope
	w = suite.do("GET", "/api/techniques?page_size=1", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var page listEnvelope
	suite.decode(w, &page)
	suite.Equal(int64(2), page.Count)
	suite.Len(page.Results, 1)
	suite.NotNil(page.Next)
	suite.Nil(page.Previous)

	// Filter by goal id
	w = suite.do("GET", "/api/assurance-goals?search=Privacy", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var goals struct {
		Results []models.AssuranceGoal `json:"results"`
	}
	suite.decode(w, &goals)
	suite.Require().Len(goals.Results, 1)

	w = suite.do("GET", fmt.Sprintf("/api/techniques?assurance_goal=%d", goals.Results[0].ID), nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var filtered listEnvelope
	suite.decode(w, &filtered)
	suite.Equal(int64(1), filtered.Count)
	suite.Require().Len(filtered.Results, 1)
	suite.Equal("Beta Technique", filtered.Results[0].Name)

	// Filters compose with AND
	w = suite.do("GET", fmt.Sprintf("/api/techniques?assurance_goal=%d&model_dependency=Model-Agnostic", goals.Results[0].ID), nil, "")
	suite.decode(w, &filtered)
	suite.Equal(int64(0), filtered.Count)

	// Search matches name case-insensitively
	w = suite.do("GET", "/api/techniques?search=beta", nil, "")
	suite.decode(w, &filtered)
	suite.Equal(int64(1), filtered.Count)

	// Ordering outside the allowlist is rejected
	w = suite.do("GET", "/api/techniques?ordering=password", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestTaxonomyEndpoints() {
	w := suite.do("POST", "/api/assurance-goals", models.NameRequest{Name: "Safety"}, suite.session)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var goal models.AssuranceGoal
	suite.decode(w, &goal)

	w = suite.do("POST", "/api/categories",
		models.CategoryRequest{Name: "Runtime Monitoring", AssuranceGoalID: goal.ID}, suite.session)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var category models.Category
	suite.decode(w, &category)

	// Creating a category under a missing goal fails validation
	w = suite.do("POST", "/api/categories",
		models.CategoryRequest{Name: "Orphan", AssuranceGoalID: 9999}, suite.session)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do("GET", fmt.Sprintf("/api/categories/%d", category.ID), nil, "")
	suite.Equal(http.StatusOK, w.Code)

	// Rename via PUT
	w = suite.do("PUT", fmt.Sprintf("/api/categories/%d", category.ID),
		models.CategoryRequest{Name: "Live Monitoring", AssuranceGoalID: goal.ID}, suite.session)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &category)
	suite.Equal("Live Monitoring", category.Name)

	w = suite.do("DELETE", fmt.Sprintf("/api/categories/%d", category.ID), nil, suite.session)
	suite.Equal(http.StatusNoContent, w.Code)

	// Resource type PROTECT: in use means no delete
	created := techniquePayload("Protected Resource")
	w = suite.do("POST", "/api/techniques", created, suite.session)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do("GET", "/api/resource-types?search=Paper", nil, "")
	var types struct {
		Results []models.ResourceType `json:"results"`
	}
	suite.decode(w, &types)
	suite.Require().Len(types.Results, 1)

	w = suite.do("DELETE", fmt.Sprintf("/api/resource-types/%d", types.Results[0].ID), nil, suite.session)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *IntegrationTestSuite) TestUnknownRouteAndMethodEnvelopes() {
	w := suite.do("GET", "/api/nonexistent", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	var envelope map[string]interface{}
	suite.decode(w, &envelope)
	suite.Equal("NotFound", envelope["error_type"])

	w = suite.do("DELETE", "/api/techniques", nil, suite.session)
	suite.Equal(http.StatusMethodNotAllowed, w.Code)
	suite.decode(w, &envelope)
	suite.Equal("MethodNotAllowed", envelope["error_type"])
}

func (suite *IntegrationTestSuite) TestOpenAPIDocsServed() {
	w := suite.do("GET", "/swagger/openapi.json", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	var doc map[string]interface{}
	suite.decode(w, &doc)
	suite.Contains(doc, "openapi")

	w = suite.do("GET", "/swagger/", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	w = suite.do("GET", "/redoc/", nil, "")
	suite.Equal(http.StatusOK, w.Code)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
