package domain

import (
	"encoding/json"
	"time"
)

// RenderState is the last recorded pass for a view.
type RenderState struct {
	ID         int64     `db:"id" json:"id"`
	View       string    `db:"view" json:"view"`
	PassID     string    `db:"pass_id" json:"pass_id"`
	Sequence   int64     `db:"sequence" json:"sequence"`
	Origin     string    `db:"origin" json:"origin"`
	ItemCount  int       `db:"item_count" json:"item_count"`
	Invalid    int       `db:"invalid_count" json:"invalid_count"`
	RenderedAt time.Time `db:"rendered_at" json:"rendered_at"`
}

// PassStats holds statistics about one render pass of a view.
type PassStats struct {
	View      string
	PassID    string
	Sequence  int64
	Origins   map[Category]Origin
	Items     int
	Invalid   int
	Published bool
	Duration  time.Duration
}

// ViewMessage is one rendered view as handed to the broker.
type ViewMessage struct {
	View      string          `json:"view"`
	PassID    string          `json:"pass_id"`
	Sequence  int64           `json:"sequence"`
	Origin    string          `json:"origin"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}
