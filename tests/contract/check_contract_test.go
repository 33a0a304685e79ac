package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/psycheck/psycheck-api/internal/dto"
	"github.com/psycheck/psycheck-api/internal/handler"
	"github.com/psycheck/psycheck-api/internal/middleware"
	"github.com/psycheck/psycheck-api/internal/service"
	"github.com/psycheck/psycheck-api/pkg/ai"
)

type stubCheckService struct {
	response dto.TestResponse
	failed   *dto.EvaluationResult
	err      error
}

func (s stubCheckService) CheckEssay(context.Context, string, dto.CheckEssayRequest) (dto.TestResponse, *dto.EvaluationResult, error) {
	return s.response, s.failed, s.err
}

func (s stubCheckService) History(context.Context, string) ([]dto.TestResponse, error) {
	return []dto.TestResponse{s.response}, nil
}

func (s stubCheckService) GetTest(context.Context, string, uint) (dto.TestResponse, error) {
	return s.response, nil
}

func loadResultSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "evaluation_result.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func contractApp(svc service.CheckService) *fiber.App {
	app := fiber.New()
	auth := func(c *fiber.Ctx) error {
		c.Locals(middleware.SubjectKey, "user_contract")
		return c.Next()
	}
	noLimit := func(c *fiber.Ctx) error { return c.Next() }
	checks := app.Group("/checks", auth)
	handler.NewCheckHandler(svc, validator.New(), zerolog.Nop()).Register(checks, noLimit, noLimit)
	return app
}

func postEssay(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	payload := dto.CheckEssayRequest{
		Question: "Some people think schools should teach practical skills. Discuss.",
		Essay:    strings.Repeat("Practical skills matter as much as academic knowledge does. ", 10),
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/checks/check-essay", strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// The stored results document is produced by the real aggregation code so the
// contract covers what the service actually persists, not a hand-written fixture.
func TestEvaluationResultContract(t *testing.T) {
	schema := loadResultSchema(t)

	rubric := ai.RubricResult{
		GeneralConclusion: "Pass",
		Content: ai.ContentSection{
			Conclusion: "The argument is coherent and relevant.",
			Criterias: []ai.Criterion{
				{Criterion: "relevance", Score: 4, Feedback: "Stays on topic."},
				{Criterion: "development", Score: 3, Feedback: "Ideas could go deeper."},
			},
		},
		Language: ai.LanguageSection{
			Conclusion: "Fluent with minor slips.",
			Criterias: []ai.Criterion{
				{Criterion: "grammar", Score: 4, Feedback: "Few errors."},
				{Criterion: "vocabulary", Score: 4, Feedback: "Varied word choice."},
			},
		},
		Suggestions: []string{"Extend the second body paragraph."},
	}
	result := service.AggregateScores(rubric, service.BucketAcceptable)
	results, err := json.Marshal(result)
	require.NoError(t, err)

	app := contractApp(stubCheckService{response: dto.TestResponse{
		ID:      1,
		UserID:  1,
		Results: results,
	}})

	resp := postEssay(t, app)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Results json.RawMessage `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.True(t, envelope.Success)

	var document interface{}
	require.NoError(t, json.Unmarshal(envelope.Data.Results, &document))
	require.NoError(t, schema.Validate(document))
}

func TestFailedLengthResultContract(t *testing.T) {
	schema := loadResultSchema(t)

	failed := service.FailedLengthResult(service.BucketTooShort)
	app := contractApp(stubCheckService{failed: &failed, err: service.ErrEssayTooShort})

	resp := postEssay(t, app)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.False(t, envelope.Success)

	var document interface{}
	require.NoError(t, json.Unmarshal(envelope.Data, &document))
	require.NoError(t, schema.Validate(document))
}
