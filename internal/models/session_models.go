package models

import "time"

// PendingStats is a stats request waiting for the user to pick a season and
// a match type.
type PendingStats struct {
	Keyword   string
	Query     string
	CreatedAt time.Time
}

type Session struct {
	Key       string
	Catalog   *Catalog
	Pending   *PendingStats
	Policy    AggregationPolicy
	CreatedAt time.Time
	LastSeen  time.Time
}
