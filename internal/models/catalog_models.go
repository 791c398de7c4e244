package models

import "time"

// Catalog is the reference data of one session. It is never mutated after
// the loader returns it, so it can be shared by pointer between sequential
// requests of the same session.
type Catalog struct {
	positions  []Position
	players    []PlayerRecord
	seasons    []Season
	matchTypes []MatchType
	FetchedAt  time.Time
}

func NewCatalog(positions []Position, players []PlayerRecord, seasons []Season, matchTypes []MatchType) *Catalog {
	return &Catalog{
		positions:  positions,
		players:    players,
		seasons:    seasons,
		matchTypes: matchTypes,
		FetchedAt:  time.Now(),
	}
}

func (c *Catalog) Positions() []Position {
	return append([]Position(nil), c.positions...)
}

func (c *Catalog) Players() []PlayerRecord {
	return c.players
}

func (c *Catalog) SeasonByName(name string) (Season, bool) {
	for _, s := range c.seasons {
		if s.ClassName != "" && s.ClassName == name {
			return s, true
		}
	}
	return Season{}, false
}

func (c *Catalog) MatchTypeByDesc(desc string) (MatchType, bool) {
	for _, m := range c.matchTypes {
		if m.Desc == desc {
			return m, true
		}
	}
	return MatchType{}, false
}

// SeasonOptions returns the selectable season display names, skipping
// records without one.
func (c *Catalog) SeasonOptions() []string {
	options := make([]string, 0, len(c.seasons))
	for _, s := range c.seasons {
		if s.ClassName != "" {
			options = append(options, s.ClassName)
		}
	}
	return options
}

func (c *Catalog) MatchTypeOptions() []string {
	options := make([]string, 0, len(c.matchTypes))
	for _, m := range c.matchTypes {
		if m.Desc != "" {
			options = append(options, m.Desc)
		}
	}
	return options
}
