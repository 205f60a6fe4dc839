package history

import (
	"strings"

	"github.com/leviob/dvabot/internal/domain"
)

// Attribution decides which trade records belong to this strategy. The tag
// must be the same value the executor uses when generating client order ids;
// accounting must never include foreign orders sharing the account.
type Attribution struct {
	tag string
}

// NewAttribution returns a filter for the strategy version tag.
func NewAttribution(tag string) Attribution {
	return Attribution{tag: tag}
}

// Belongs reports whether the record was produced by this strategy.
func (a Attribution) Belongs(rec domain.TradeRecord) bool {
	if a.tag == "" || rec.ClientOrderID == "" {
		return false
	}
	return strings.HasPrefix(rec.ClientOrderID, a.tag)
}

// Filter returns only the records produced by this strategy.
func (a Attribution) Filter(records []domain.TradeRecord) []domain.TradeRecord {
	var mine []domain.TradeRecord
	for _, rec := range records {
		if a.Belongs(rec) {
			mine = append(mine, rec)
		}
	}
	return mine
}
