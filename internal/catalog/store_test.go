package catalog

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreEmpty(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Current())
	assert.False(t, s.IsPopulated())
}

func TestStoreSwapAndCurrent(t *testing.T) {
	s := NewStore()

	first := New([]InstrumentModel{option("A", "NIFTY", "PE", 23300, day(1))}, time.Now())
	s.Swap(first)
	assert.True(t, s.IsPopulated())
	assert.Same(t, first, s.Current())

	second := New(nil, time.Now())
	s.Swap(second)
	assert.Same(t, second, s.Current())

	// a reader that grabbed the old snapshot keeps a consistent view
	assert.Equal(t, 1, first.Len())
}

// Every swapped-in catalog is built so that all its records agree on one
// generation tag. A reader observing a snapshot whose records disagree, or a
// snapshot with an unexpected length, would have seen a torn replacement.
func TestStoreConcurrentReadersAndSwaps(t *testing.T) {
	s := NewStore()

	generation := func(g int) *Catalog {
		tag := strconv.Itoa(g)
		records := make([]InstrumentModel, 3)
		for i := range records {
			records[i] = option(tag, "NIFTY", "PE", 23300, day(i+1))
		}
		return New(records, time.Now())
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				cat := s.Current()
				if cat == nil {
					continue
				}
				require.Equal(t, 3, cat.Len())
				record := cat.FindImmediateOption("NIFTY", 23300, "PE")
				require.NotNil(t, record)
				// both fields come from the same generation
				require.Equal(t, record.InstrumentKey, record.TradingSymbol)
			}
		}()
	}

	for g := 0; g < 500; g++ {
		s.Swap(generation(g))
	}
	close(done)
	wg.Wait()
}
