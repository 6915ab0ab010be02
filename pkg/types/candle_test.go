package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandle_Direction(t *testing.T) {
	assert.Equal(t, DirectionUp, int(Candle{Open: 1, Close: 2}.Direction()))
	assert.Equal(t, DirectionDown, int(Candle{Open: 2, Close: 1}.Direction()))
	assert.Equal(t, "doji", Candle{Open: 1, Close: 1}.Direction().String())
	assert.False(t, Candle{Open: 1, Close: 1}.IsBullish())
}

func TestSeries_Slice(t *testing.T) {
	s := Series{{Close: 1}, {Close: 2}, {Close: 3}}
	assert.Len(t, s.Slice(1, 3), 2)
	assert.Len(t, s.Slice(-5, 100), 3)
	assert.Nil(t, s.Slice(2, 2))
	assert.Nil(t, s.Slice(3, 1))
}

func TestSeries_HighLow(t *testing.T) {
	s := Series{
		{Open: 10, High: 12, Low: 9, Close: 11},
		{Open: 11, High: 15, Low: 10, Close: 14},
	}
	high, low, ok := s.HighLow()
	assert.True(t, ok)
	assert.Equal(t, 15.0, high)
	assert.Equal(t, 9.0, low)

	_, _, ok = Series{}.HighLow()
	assert.False(t, ok)
}

func TestSeries_IsSorted(t *testing.T) {
	assert.True(t, Series{{Timestamp: 1}, {Timestamp: 1}, {Timestamp: 2}}.IsSorted())
	assert.False(t, Series{{Timestamp: 2}, {Timestamp: 1}}.IsSorted())
}
