package models

import "strconv"

type Position struct {
	Code int    `json:"spposition"`
	Name string `json:"desc"`
}

type PlayerRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SeasonPrefix returns the leading three digits of the player id, which
// identify the release season of the card.
func (p PlayerRecord) SeasonPrefix() string {
	id := strconv.FormatInt(p.ID, 10)
	if len(id) < 3 {
		return id
	}
	return id[:3]
}

type Season struct {
	ID        int    `json:"seasonId"`
	ClassName string `json:"className"`
	ImageURL  string `json:"seasonImg"`
}

type MatchType struct {
	Code int    `json:"matchtype"`
	Desc string `json:"desc"`
}

// Ranker stat field keys as returned in the status object of the
// ranker-stats endpoint.
const (
	FieldShoot          = "shoot"
	FieldEffectiveShoot = "effectiveShoot"
	FieldAssistance     = "assistance"
	FieldGoal           = "goal"
	FieldDribble        = "dribble"
	FieldDribbleTry     = "dribbleTry"
	FieldDribbleSuccess = "dribbleSuccess"
	FieldPassTry        = "passTry"
	FieldPassSuccess    = "passSuccess"
	FieldBlock          = "block"
	FieldTackle         = "tackle"
	FieldMatchCount     = "matchCount"
)

// StatFields lists the reportable ranker fields in chart order.
var StatFields = []string{
	FieldShoot,
	FieldEffectiveShoot,
	FieldAssistance,
	FieldGoal,
	FieldDribble,
	FieldDribbleTry,
	FieldDribbleSuccess,
	FieldPassTry,
	FieldPassSuccess,
	FieldBlock,
	FieldTackle,
}

var statLabels = map[string]string{
	FieldShoot:          "슛",
	FieldEffectiveShoot: "유효슛",
	FieldAssistance:     "어시스트",
	FieldGoal:           "골",
	FieldDribble:        "드리블",
	FieldDribbleTry:     "드리블 시도",
	FieldDribbleSuccess: "드리블 성공",
	FieldPassTry:        "패스 시도",
	FieldPassSuccess:    "패스 성공",
	FieldBlock:          "블록",
	FieldTackle:         "태클",
	FieldMatchCount:     "경기수",
}

// StatLabel returns the Korean display label for a ranker field, or the
// field key itself when no label is known.
func StatLabel(field string) string {
	if label, ok := statLabels[field]; ok {
		return label
	}
	return field
}

type RankerStatSample struct {
	Position   Position
	MatchCount float64
	Fields     map[string]float64
}
