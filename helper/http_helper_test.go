package helper

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tea-techniques-api/models"
)

func TestUnderscore(t *testing.T) {
	cases := map[string]string{
		"Name":                    "name",
		"ComplexityRating":        "complexity_rating",
		"ComputationalCostRating": "computational_cost_rating",
		"URL":                     "url",
		"AssuranceGoalID":         "assurance_goal_id",
	}
	for in, want := range cases {
		assert.Equal(t, want, Underscore(in), in)
	}
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Request.Host = "api.example.org"
	return c, w
}

func TestPageURLPreservesQueryParams(t *testing.T) {
	h := NewHTTPHelper()
	c, _ := newTestContext("GET", "/api/techniques?search=shap&page=2&tag=3")

	url := h.PageURL(c, 3)
	assert.Equal(t, "http://api.example.org/api/techniques?page=3&search=shap&tag=3", url)
}

func TestSendListEnvelope(t *testing.T) {
	h := NewHTTPHelper()
	c, w := newTestContext("GET", "/api/techniques?page=2&page_size=1")

	h.SendList(c, 2, 1, 3, []string{"b"})

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count    int64    `json:"count"`
		Next     *string  `json:"next"`
		Previous *string  `json:"previous"`
		Results  []string `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Count)
	require.NotNil(t, body.Next)
	assert.Contains(t, *body.Next, "page=3")
	require.NotNil(t, body.Previous)
	assert.Contains(t, *body.Previous, "page=1")
	assert.Equal(t, []string{"b"}, body.Results)
}

func TestSendListLastPageHasNoNext(t *testing.T) {
	h := NewHTTPHelper()
	c, w := newTestContext("GET", "/api/techniques")

	h.SendList(c, 1, 20, 5, []string{})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body["next"])
	assert.Nil(t, body["previous"])
}

func TestSendErrorEnvelopeShapes(t *testing.T) {
	h := NewHTTPHelper()

	c, w := newTestContext("GET", "/api/techniques/99")
	h.SendError(c, models.NewNotFound("Not found."))
	assert.Equal(t, http.StatusNotFound, w.Code)
	var notFound map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notFound))
	assert.Equal(t, "Not found.", notFound["detail"])
	assert.Equal(t, float64(404), notFound["status_code"])
	assert.Equal(t, "NotFound", notFound["error_type"])

	c, w = newTestContext("POST", "/api/techniques")
	h.SendError(c, models.NewFieldError("name", "name is required"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var invalid struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invalid))
	assert.Equal(t, []string{"name is required"}, invalid.Errors["name"])

	// 5xx envelopes never echo the raw error back to the client.
	c, w = newTestContext("GET", "/api/techniques")
	h.SendError(c, errors.New("pq: password authentication failed for user \"catalog\""))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var internal map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &internal))
	assert.Equal(t, "InternalError", internal["error_type"])
	assert.Equal(t, "unexpected server error", internal["message"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestValidateStructTranslatesFieldNames(t *testing.T) {
	h := NewHTTPHelper()

	rec := models.TechniqueRecord{Name: "", Description: "x", ModelDependency: "Model-Agnostic"}
	apiErr := h.ValidateStruct(&rec)
	require.NotNil(t, apiErr)
	assert.Equal(t, "ValidationError", apiErr.ErrorType)
	assert.Contains(t, apiErr.Fields, "name")

	bad := 9
	rec = models.TechniqueRecord{
		Name:             "ok",
		Description:      "x",
		ModelDependency:  "Model-Agnostic",
		ComplexityRating: &bad,
	}
	apiErr = h.ValidateStruct(&rec)
	require.NotNil(t, apiErr)
	assert.Contains(t, apiErr.Fields, "complexity_rating")

	rec.ComplexityRating = nil
	assert.Nil(t, h.ValidateStruct(&rec))
}
