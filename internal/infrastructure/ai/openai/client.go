// Package openai implements the recipe generation collaborator against an
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/nutrition"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/infrastructure/config"
	"github.com/mealforge/v1/internal/ports/outbound"
	apperrors "github.com/mealforge/v1/pkg/errors"
)

// Client implements outbound.RecipeGenerator using the OpenAI API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	temp    float64
	tokens  int
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  cfg.OpenAIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.OpenAIModel,
		temp:    cfg.Temperature,
		tokens:  cfg.MaxTokens,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		logger:  logger.Named("openai"),
	}
}

var _ outbound.RecipeGenerator = (*Client)(nil)

// Chat completions API structures.
type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// recipePayload is the JSON shape the model is instructed to return.
type recipePayload struct {
	DishName    string `json:"dish_name"`
	Ingredients []struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
	} `json:"ingredients"`
	Steps     []string `json:"steps"`
	Nutrition struct {
		Calories int      `json:"calories"`
		ProteinG float64  `json:"protein_g"`
		CarbsG   float64  `json:"carbs_g"`
		FatG     float64  `json:"fat_g"`
		FiberG   *float64 `json:"fiber_g"`
		SodiumMg *float64 `json:"sodium_mg"`
	} `json:"nutrition"`
	Cuisine      string `json:"cuisine"`
	PrepTimeMins int    `json:"prep_time_minutes"`
	MealType     string `json:"meal_type"`
}

// Generate produces a fresh candidate for the request.
func (c *Client) Generate(ctx context.Context, req outbound.GenerationRequest) (*recipe.Recipe, error) {
	content, err := c.complete(ctx, generationSystemPrompt, buildGenerationPrompt(req))
	if err != nil {
		return nil, err
	}
	rec, err := parseCandidate(content)
	if err != nil {
		c.logger.Warn("Candidate failed parsing", zap.Error(err))
		return nil, apperrors.NewMalformedCandidateError(err)
	}
	return rec, nil
}

// Adjust revises a failing candidate against the validator's notes. It never
// fails hard: when the endpoint or the parse falls over, the incoming
// candidate is returned unchanged as the best effort.
func (c *Client) Adjust(ctx context.Context, req outbound.AdjustmentRequest) (*recipe.Recipe, string, error) {
	content, err := c.complete(ctx, adjustmentSystemPrompt, buildAdjustmentPrompt(req))
	if err != nil {
		c.logger.Warn("Adjustment call failed, keeping current candidate", zap.Error(err))
		return req.Candidate, "adjustment unavailable, candidate unchanged", nil
	}
	rec, err := parseCandidate(content)
	if err != nil {
		c.logger.Warn("Adjusted candidate failed parsing, keeping current candidate", zap.Error(err))
		return req.Candidate, "adjusted candidate malformed, candidate unchanged", nil
	}
	return rec, "candidate revised against validation notes", nil
}

// complete performs one chat completion round trip. Connectivity failures,
// rate limiting and server errors come back transient; everything else is
// permanent.
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temp,
		MaxTokens:   c.tokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.NewGenerationUnavailableError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", apperrors.NewGenerationUnavailableError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", apperrors.NewGenerationTransientError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewGenerationTransientError(err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", apperrors.NewGenerationTransientError(
			fmt.Errorf("completion endpoint returned %d", resp.StatusCode))
	default:
		return "", apperrors.NewGenerationUnavailableError(
			fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", apperrors.NewGenerationTransientError(err)
	}
	if len(completion.Choices) == 0 {
		return "", apperrors.NewGenerationTransientError(fmt.Errorf("completion returned no choices"))
	}
	return completion.Choices[0].Message.Content, nil
}

// parseCandidate decodes the model output into a domain recipe. Models
// sometimes wrap the JSON in markdown fences or prose, so parsing starts at
// the first brace.
func parseCandidate(content string) (*recipe.Recipe, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in completion output")
	}

	var payload recipePayload
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("decode recipe payload: %w", err)
	}

	facts, err := nutrition.NewFacts(
		payload.Nutrition.Calories,
		payload.Nutrition.ProteinG,
		payload.Nutrition.CarbsG,
		payload.Nutrition.FatG,
	)
	if err != nil {
		return nil, err
	}
	if payload.Nutrition.FiberG != nil {
		if facts, err = facts.WithFiber(*payload.Nutrition.FiberG); err != nil {
			return nil, err
		}
	}
	if payload.Nutrition.SodiumMg != nil {
		if facts, err = facts.WithSodium(*payload.Nutrition.SodiumMg); err != nil {
			return nil, err
		}
	}

	ingredients := make([]recipe.Ingredient, 0, len(payload.Ingredients))
	for _, ing := range payload.Ingredients {
		ingredients = append(ingredients, recipe.Ingredient{Name: ing.Name, Quantity: ing.Quantity})
	}

	rec, err := recipe.New(payload.DishName, ingredients, payload.Steps, facts)
	if err != nil {
		return nil, err
	}
	return rec.WithTags(payload.Cuisine, payload.PrepTimeMins, recipe.MealType(payload.MealType)), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
