package csvsource

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/c9s/smcchart/pkg/types"
)

var _ CandleReader = (*CSVCandleReader)(nil)

// Format names a supported CSV layout.
type Format string

const (
	FormatBinance    Format = "binance"
	FormatMetaTrader Format = "metatrader"
)

// CSVCandleReader is a CandleReader that reads from a CSV file.
type CSVCandleReader struct {
	csv     *csv.Reader
	decoder CSVCandleDecoder
	line    int
}

// MakeCSVCandleReader is a factory method type that creates a new CSVCandleReader.
type MakeCSVCandleReader func(csv *csv.Reader) *CSVCandleReader

// NewCSVCandleReader creates a new CSVCandleReader with the default Binance decoder.
func NewCSVCandleReader(csv *csv.Reader) *CSVCandleReader {
	return NewCSVCandleReaderWithDecoder(csv, BinanceCSVCandleDecoder)
}

// NewCSVCandleReaderWithDecoder creates a new CSVCandleReader with the given decoder.
func NewCSVCandleReaderWithDecoder(csv *csv.Reader, decoder CSVCandleDecoder) *CSVCandleReader {
	csv.FieldsPerRecord = -1
	return &CSVCandleReader{
		csv:     csv,
		decoder: decoder,
	}
}

// NewBinanceCSVCandleReader creates a new CSVCandleReader for Binance CSV files.
func NewBinanceCSVCandleReader(csv *csv.Reader) *CSVCandleReader {
	return NewCSVCandleReaderWithDecoder(csv, BinanceCSVCandleDecoder)
}

// NewMetaTraderCSVCandleReader creates a new CSVCandleReader for MetaTrader CSV files.
func NewMetaTraderCSVCandleReader(csv *csv.Reader) *CSVCandleReader {
	csv.Comma = ';'
	return NewCSVCandleReaderWithDecoder(csv, MetaTraderCSVCandleDecoder)
}

// ReaderFor returns the reader factory registered for the format name.
// An empty name selects the Binance layout.
func ReaderFor(format Format) (MakeCSVCandleReader, error) {
	switch format {
	case FormatBinance, "":
		return NewBinanceCSVCandleReader, nil
	case FormatMetaTrader:
		return NewMetaTraderCSVCandleReader, nil
	}
	return nil, ErrUnknownFormat
}

// Read reads the next Candle from the underlying CSV data.
func (r *CSVCandleReader) Read() (types.Candle, error) {
	rec, err := r.csv.Read()
	if err != nil {
		return types.Candle{}, err
	}
	r.line++

	return r.decoder(rec)
}

// ReadAll reads all the candles from the underlying CSV data.
// A leading header row, one whose time column does not parse, is skipped.
func (r *CSVCandleReader) ReadAll() (types.Series, error) {
	var series types.Series
	for {
		c, err := r.Read()
		if err == io.EOF {
			break
		}
		if r.line == 1 && errors.Is(err, ErrInvalidTimeFormat) {
			continue
		}
		if err != nil {
			return nil, err
		}
		series = append(series, c)
	}

	return series, nil
}
