package nexon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/omarshaarawi/fcbot/internal/models"
)

type rankerPlayer struct {
	ID       int64 `json:"id"`
	Position int   `json:"po"`
}

type rankerEntry struct {
	SpID       int64                      `json:"spId"`
	SpPosition int                        `json:"spPosition"`
	Status     map[string]json.RawMessage `json:"status"`
}

// RankerStats fetches the ranker average of one player card at one position
// for the given match type.
func (a *API) RankerStats(ctx context.Context, matchType int, spID int64, position models.Position) (models.RankerStatSample, error) {
	players, err := json.Marshal([]rankerPlayer{{ID: spID, Position: position.Code}})
	if err != nil {
		return models.RankerStatSample{}, fmt.Errorf("error marshalling players: %w", err)
	}

	params := map[string]string{
		"matchtype": strconv.Itoa(matchType),
		"players":   string(players),
	}

	body, err := a.client.getRaw(ctx, a.client.Config.BaseURL, "/ranker-stats", params, true)
	if err != nil {
		return models.RankerStatSample{}, fmt.Errorf("fetching ranker stats for %s: %w", position.Name, err)
	}

	entry, err := decodeRankerEntry(body)
	if err != nil {
		return models.RankerStatSample{}, fmt.Errorf("decoding ranker stats for %s: %w", position.Name, err)
	}

	return sampleFromStatus(position, entry.Status)
}

// decodeRankerEntry accepts either a bare entry object or an array holding
// one.
func decodeRankerEntry(body []byte) (rankerEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return rankerEntry{}, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}

	var entry rankerEntry
	switch trimmed[0] {
	case '[':
		var entries []rankerEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return rankerEntry{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if len(entries) == 0 {
			return rankerEntry{}, ErrNoRankerData
		}
		entry = entries[0]
	case '{':
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return rankerEntry{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	default:
		return rankerEntry{}, fmt.Errorf("%w: unexpected body", ErrMalformedPayload)
	}

	if entry.Status == nil {
		return rankerEntry{}, fmt.Errorf("%w: missing status", ErrMalformedPayload)
	}
	return entry, nil
}

func sampleFromStatus(position models.Position, status map[string]json.RawMessage) (models.RankerStatSample, error) {
	rawCount, ok := status[models.FieldMatchCount]
	if !ok || string(bytes.TrimSpace(rawCount)) == "null" {
		return models.RankerStatSample{}, fmt.Errorf("%w: missing %s", ErrMalformedPayload, models.FieldMatchCount)
	}
	var matchCount float64
	if err := json.Unmarshal(rawCount, &matchCount); err != nil {
		return models.RankerStatSample{}, fmt.Errorf("%w: %s is not numeric", ErrMalformedPayload, models.FieldMatchCount)
	}

	fields := make(map[string]float64, len(status))
	for key, raw := range status {
		if key == models.FieldMatchCount {
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return models.RankerStatSample{}, fmt.Errorf("%w: field %s is not numeric", ErrMalformedPayload, key)
		}
		fields[key] = v
	}

	return models.RankerStatSample{
		Position:   position,
		MatchCount: matchCount,
		Fields:     fields,
	}, nil
}
