package domain

import (
	"time"
)

// Certificate is the immutable proof that Amount credits were burned against
// ToProject. SinkParty is set when the retirement credited a different party
// than the one funding it; FromProject is set when the retirement reduced a
// specific prior allocation. Identifiers are assigned monotonically per
// registry instance and are never reused.
type Certificate struct {
	ID          int64     `json:"id"`
	Amount      int64     `json:"amount"`
	SourceParty string    `json:"source_party"`
	SinkParty   *string   `json:"sink_party,omitempty"`
	FromProject string    `json:"from_project,omitempty"`
	ToProject   string    `json:"to_project"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Beneficiary returns the party the retirement is credited to: the sink
// party when one was named, otherwise the source party.
func (c *Certificate) Beneficiary() string {
	if c.SinkParty != nil && *c.SinkParty != "" {
		return *c.SinkParty
	}
	return c.SourceParty
}
