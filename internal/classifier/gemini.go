package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/omarshaarawi/fcbot/internal/config"
	"github.com/omarshaarawi/fcbot/internal/models"
)

// GeminiOracle asks a Gemini model for a decision constrained by a JSON
// response schema.
type GeminiOracle struct {
	client       *genai.Client
	cfg          config.Classifier
	instructions string
}

// NewGeminiOracle builds the oracle. baseURL overrides the API endpoint and
// is empty outside tests.
func NewGeminiOracle(ctx context.Context, cfg config.Classifier, baseURL string) (*GeminiOracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	instructions, err := Instructions()
	if err != nil {
		return nil, err
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiOracle{
		client:       client,
		cfg:          cfg,
		instructions: instructions,
	}, nil
}

func decisionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"action": {
				Type: genai.TypeString,
				Enum: []string{
					string(models.ActionAdditionalInput),
					string(models.ActionSearchVideo),
					string(models.ActionNotSupported),
				},
				Description: "에이전트가 수행할 행동의 타입",
			},
			"action_input": {
				Type:        genai.TypeString,
				MinLength:   genai.Ptr[int64](1),
				Description: "사용자가 입력한 원본 질의 텍스트",
			},
			"search_keyword": {
				Type:        genai.TypeString,
				Description: "선수 통계 질의면 선수 이름, 영상 질의면 검색 키워드, not_supported면 빈 문자열",
			},
		},
		Required:         []string{"action", "action_input", "search_keyword"},
		PropertyOrdering: []string{"action", "action_input", "search_keyword"},
	}
}

func (o *GeminiOracle) Decide(ctx context.Context, query string) ([]byte, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	resp, err := o.client.Models.GenerateContent(ctx, o.cfg.Model,
		genai.Text("분석할 질의: "+query),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(o.instructions, genai.RoleUser),
			Temperature:       genai.Ptr(o.cfg.Temperature),
			CandidateCount:    1,
			ResponseMIMEType:  "application/json",
			ResponseSchema:    decisionSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, errors.New("empty oracle response")
	}
	return []byte(text), nil
}
