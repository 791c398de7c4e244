// Package classifier turns a free-text question into one of the three
// assistant actions. Language understanding is delegated to an Oracle; this
// package owns the output contract and rejects anything that breaks it.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/omarshaarawi/fcbot/internal/models"
)

var (
	ErrEmptyQuery     = errors.New("empty query")
	ErrOracle         = errors.New("classification oracle failed")
	ErrClassification = errors.New("invalid classification")
)

// ClassificationError reports an oracle answer that violates the decision
// schema.
type ClassificationError struct {
	Reason string
	Raw    string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("invalid classification: %s", e.Reason)
}

func (e *ClassificationError) Unwrap() error {
	return ErrClassification
}

// Oracle answers with the raw JSON decision for a query.
type Oracle interface {
	Decide(ctx context.Context, query string) ([]byte, error)
}

type Classifier struct {
	oracle Oracle
}

func New(oracle Oracle) *Classifier {
	return &Classifier{oracle: oracle}
}

type decision struct {
	Action        *string `json:"action"`
	ActionInput   *string `json:"action_input"`
	SearchKeyword *string `json:"search_keyword"`
}

func (c *Classifier) Classify(ctx context.Context, query string) (models.ClassifiedQuery, error) {
	if strings.TrimSpace(query) == "" {
		return models.ClassifiedQuery{}, ErrEmptyQuery
	}

	raw, err := c.oracle.Decide(ctx, query)
	if err != nil {
		return models.ClassifiedQuery{}, fmt.Errorf("%w: %w", ErrOracle, err)
	}

	result, err := validate(query, raw)
	if err != nil {
		slog.Warn("Rejected oracle decision", "query", query, "error", err)
		return models.ClassifiedQuery{}, err
	}

	slog.Info("Query classified", "action", result.Action, "keyword", result.SearchKeyword)
	return result, nil
}

func validate(query string, raw []byte) (models.ClassifiedQuery, error) {
	reject := func(reason string) (models.ClassifiedQuery, error) {
		return models.ClassifiedQuery{}, &ClassificationError{Reason: reason, Raw: string(raw)}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var d decision
	if err := dec.Decode(&d); err != nil {
		return reject(fmt.Sprintf("decoding decision: %v", err))
	}
	if d.Action == nil || d.ActionInput == nil || d.SearchKeyword == nil {
		return reject("missing required field")
	}

	action, err := models.ParseAction(*d.Action)
	if err != nil {
		return reject(err.Error())
	}
	if strings.TrimSpace(*d.ActionInput) == "" {
		return reject("empty action_input")
	}

	keyword := *d.SearchKeyword
	switch action {
	case models.ActionNotSupported:
		if keyword != "" {
			return reject("not_supported must carry an empty search_keyword")
		}
	case models.ActionAdditionalInput:
		if strings.TrimSpace(keyword) == "" {
			return reject("additional_input requires a player name")
		}
		if !strings.Contains(query, keyword) {
			return reject(fmt.Sprintf("player name %q does not appear in the query", keyword))
		}
	case models.ActionSearchVideo:
		if strings.TrimSpace(keyword) == "" {
			return reject("search_video requires a search keyword")
		}
	}

	return models.ClassifiedQuery{
		Action:        action,
		ActionInput:   query,
		SearchKeyword: keyword,
	}, nil
}
