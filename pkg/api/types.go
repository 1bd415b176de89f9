package api

import (
	"time"

	"github.com/segmentio/ksuid"

	"github.com/cardazim/cardazim/pkg/card"
	"github.com/cardazim/cardazim/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SolveRequest carries a proposed solution for a card
type SolveRequest struct {
	Solution *string `json:"solution"` // required; may be empty
}

// CardSummary describes a stored card without its image
type CardSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Creator    string    `json:"creator"`
	Riddle     string    `json:"riddle"`
	Width      uint32    `json:"width"`
	Height     uint32    `json:"height"`
	Solved     bool      `json:"solved"`
	Solution   string    `json:"solution,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string // host to listen on; empty means every interface
	Port   int
	APIKey string // empty disables authentication
}

// CardStore defines the card store operations the API needs
type CardStore interface {
	Get(id ksuid.KSUID) (*storage.StoredCard, error)
	List() ([]*storage.StoredCard, error)
	Solve(id ksuid.KSUID, passphrase string) (*card.Card, bool, error)
	Delete(id ksuid.KSUID) error
}

func newCardSummary(stored *storage.StoredCard, c *card.Card) CardSummary {
	return CardSummary{
		ID:         stored.ID.String(),
		Name:       c.Name,
		Creator:    c.Creator,
		Riddle:     c.Riddle,
		Width:      c.Image.Image.Width,
		Height:     c.Image.Image.Height,
		Solved:     c.IsSolved(),
		Solution:   c.Solution,
		ReceivedAt: stored.ReceivedAt,
		RemoteAddr: stored.RemoteAddr,
	}
}
