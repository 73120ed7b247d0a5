// Package catalog holds the in-memory instrument catalog: the record model,
// the payload parser and the atomic snapshot store.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// expiryLayout is the wire format of the expiry field.
const expiryLayout = "2006-01-02"

// Date is a day-granular point in time, totally ordered, decoded from a
// "2006-01-02" JSON string. The zero value means "no expiry".
type Date struct {
	time.Time
}

// UnmarshalJSON decodes a Date from a JSON string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.ParseInLocation(expiryLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid expiry %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON encodes a Date as a JSON string, null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(expiryLayout) + `"`), nil
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// InstrumentModel represents a trading instrument, mirroring the upstream
// catalog payload. Fields outside the four compare keys (asset symbol,
// instrument type, strike, expiry) are passed through to callers verbatim.
type InstrumentModel struct {
	InstrumentKey  string  `json:"instrument_key"`
	ExchangeToken  string  `json:"exchange_token"`
	TradingSymbol  string  `json:"trading_symbol"`
	Name           string  `json:"name"`
	Exchange       string  `json:"exchange"`
	Segment        string  `json:"segment"`
	AssetSymbol    string  `json:"asset_symbol"`
	UnderlyingKey  string  `json:"underlying_key"`
	InstrumentType string  `json:"instrument_type"`
	StrikePrice    float64 `json:"strike_price"`
	LotSize        uint    `json:"lot_size"`
	TickSize       float64 `json:"tick_size"`
	Expiry         Date    `json:"expiry"`
}

// matches reports whether the record satisfies the lookup filter. String keys
// are compared case-insensitively, the strike must match exactly. The stored
// values stay as received, folding happens only here.
func (in *InstrumentModel) matches(assetSymbol string, strikePrice float64, instrumentType string) bool {
	return strings.EqualFold(in.AssetSymbol, assetSymbol) &&
		in.StrikePrice == strikePrice &&
		strings.EqualFold(in.InstrumentType, instrumentType)
}
