package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) Date {
	return Date{Time: time.Date(2025, 1, d, 0, 0, 0, 0, time.Local)}
}

func option(key, assetSymbol, instrumentType string, strike float64, expiry Date) InstrumentModel {
	return InstrumentModel{
		InstrumentKey:  key,
		TradingSymbol:  key,
		AssetSymbol:    assetSymbol,
		InstrumentType: instrumentType,
		StrikePrice:    strike,
		Expiry:         expiry,
	}
}

func TestFindImmediateOptionEarliestExpiry(t *testing.T) {
	cat := New([]InstrumentModel{
		option("A", "NIFTY", "PE", 23300, day(1)),
		option("B", "NIFTY", "PE", 23300, day(3)),
		option("C", "NIFTY", "PE", 23300, day(1)),
	}, time.Now())

	// B loses on expiry, C ties with A and loses on catalog order
	record := cat.FindImmediateOption("NIFTY", 23300, "PE")
	require.NotNil(t, record)
	assert.Equal(t, "A", record.InstrumentKey)
}

func TestFindImmediateOptionCaseInsensitive(t *testing.T) {
	cat := New([]InstrumentModel{
		option("A", "NIFTY", "pe", 23300, day(2)),
	}, time.Now())

	record := cat.FindImmediateOption("nifty", 23300, "PE")
	require.NotNil(t, record)
	assert.Equal(t, "A", record.InstrumentKey)

	// stored values are not normalized
	assert.Equal(t, "NIFTY", record.AssetSymbol)
	assert.Equal(t, "pe", record.InstrumentType)
}

func TestFindImmediateOptionStrikeIsExact(t *testing.T) {
	cat := New([]InstrumentModel{
		option("A", "NIFTY", "CE", 23300.5, day(2)),
	}, time.Now())

	assert.Nil(t, cat.FindImmediateOption("NIFTY", 23300, "CE"))
	assert.NotNil(t, cat.FindImmediateOption("NIFTY", 23300.5, "CE"))
}

func TestFindImmediateOptionNoMatch(t *testing.T) {
	cat := New([]InstrumentModel{
		option("A", "NIFTY", "PE", 23300, day(2)),
	}, time.Now())

	assert.Nil(t, cat.FindImmediateOption("BANKNIFTY", 23300, "PE"))
	assert.Nil(t, cat.FindImmediateOption("NIFTY", 23300, "CE"))
	assert.Nil(t, New(nil, time.Now()).FindImmediateOption("NIFTY", 23300, "PE"))
}

func TestFindImmediateOptionIdempotent(t *testing.T) {
	cat := New([]InstrumentModel{
		option("A", "NIFTY", "PE", 23300, day(2)),
		option("B", "NIFTY", "PE", 23300, day(2)),
	}, time.Now())

	first := cat.FindImmediateOption("NIFTY", 23300, "PE")
	require.NotNil(t, first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, cat.FindImmediateOption("NIFTY", 23300, "PE"))
	}
}

func TestFindImmediateOptionReturnsCopy(t *testing.T) {
	cat := New([]InstrumentModel{
		option("A", "NIFTY", "PE", 23300, day(2)),
	}, time.Now())

	record := cat.FindImmediateOption("NIFTY", 23300, "PE")
	require.NotNil(t, record)
	record.InstrumentKey = "mutated"

	again := cat.FindImmediateOption("NIFTY", 23300, "PE")
	require.NotNil(t, again)
	assert.Equal(t, "A", again.InstrumentKey)
}
