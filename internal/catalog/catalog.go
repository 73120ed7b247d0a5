package catalog

import "time"

// Catalog is one fully-parsed snapshot of the instrument list. It is built in
// a single parse pass and never mutated afterwards, which is what makes
// lock-free concurrent lookups against it safe.
type Catalog struct {
	instruments []InstrumentModel
	fetchedAt   time.Time
}

// New builds a catalog snapshot. The caller hands over ownership of the
// instruments slice and must not modify it afterwards.
func New(instruments []InstrumentModel, fetchedAt time.Time) *Catalog {
	return &Catalog{
		instruments: instruments,
		fetchedAt:   fetchedAt,
	}
}

// Len returns the number of instrument records in the snapshot.
func (c *Catalog) Len() int {
	return len(c.instruments)
}

// FetchedAt returns the time the snapshot was built.
func (c *Catalog) FetchedAt() time.Time {
	return c.fetchedAt
}

// FindImmediateOption returns the matching record with the earliest expiry,
// or nil when no record matches. Records tied on the minimal expiry resolve
// to the first one in catalog order, so repeated calls are deterministic.
func (c *Catalog) FindImmediateOption(assetSymbol string, strikePrice float64, instrumentType string) *InstrumentModel {
	var best *InstrumentModel
	for i := range c.instruments {
		in := &c.instruments[i]
		if !in.matches(assetSymbol, strikePrice, instrumentType) {
			continue
		}
		if best == nil || in.Expiry.Before(best.Expiry) {
			best = in
		}
	}
	if best == nil {
		return nil
	}
	// copy so callers never hold a mutable pointer into the snapshot
	record := *best
	return &record
}
