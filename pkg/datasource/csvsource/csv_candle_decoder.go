package csvsource

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/c9s/smcchart/pkg/types"
)

// MetaTraderTimeFormat is the time format expected by the MetaTrader decoder when cols [0] and [1] are used.
const MetaTraderTimeFormat = "02/01/2006 15:04"

var (
	// ErrNotEnoughColumns is returned when the CSV price record does not have enough columns.
	ErrNotEnoughColumns = errors.New("not enough columns")

	// ErrInvalidTimeFormat is returned when the CSV price record does not have a valid time unix milli format.
	ErrInvalidTimeFormat = errors.New("cannot parse time string")

	// ErrInvalidPriceFormat is returned when the CSV price record does not prices in expected format.
	ErrInvalidPriceFormat = errors.New("OHLC prices must be in valid decimal format")

	// ErrInvalidVolumeFormat is returned when the CSV price record does not have a valid volume format.
	ErrInvalidVolumeFormat = errors.New("volume must be in valid float format")

	// ErrUnknownFormat is returned by ReaderFor when the format name is not registered.
	ErrUnknownFormat = errors.New("unknown csv format")
)

// CSVCandleDecoder is an extension point for CSVCandleReader to support custom file formats.
type CSVCandleDecoder func(record []string) (types.Candle, error)

// BinanceCSVCandleDecoder decodes a CSV record from Binance or Bybit into a Candle.
// The volume column is optional.
func BinanceCSVCandleDecoder(record []string) (types.Candle, error) {
	var c, empty types.Candle

	if len(record) < 5 {
		return empty, ErrNotEnoughColumns
	}

	msec, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return empty, ErrInvalidTimeFormat
	}
	c.Timestamp = msec

	if err := parsePrices(&c, record[1:5]); err != nil {
		return empty, err
	}

	if len(record) > 5 {
		if c.Volume, err = parseFloat(record[5]); err != nil {
			return empty, ErrInvalidVolumeFormat
		}
	}

	return c, nil
}

// MetaTraderCSVCandleDecoder decodes a semicolon separated MetaTrader export record into a Candle.
func MetaTraderCSVCandleDecoder(record []string) (types.Candle, error) {
	var c, empty types.Candle

	if len(record) < 6 {
		return empty, ErrNotEnoughColumns
	}

	t, err := time.Parse(MetaTraderTimeFormat, fmt.Sprintf("%s %s", record[0], record[1]))
	if err != nil {
		return empty, ErrInvalidTimeFormat
	}
	c.Timestamp = t.UnixMilli()

	if err := parsePrices(&c, record[2:6]); err != nil {
		return empty, err
	}

	if len(record) > 6 {
		if c.Volume, err = parseFloat(record[6]); err != nil {
			return empty, ErrInvalidVolumeFormat
		}
	}

	return c, nil
}

func parsePrices(c *types.Candle, cols []string) (err error) {
	targets := []*float64{&c.Open, &c.High, &c.Low, &c.Close}
	for i, target := range targets {
		if *target, err = parseFloat(cols[i]); err != nil {
			return ErrInvalidPriceFormat
		}
	}
	return nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
