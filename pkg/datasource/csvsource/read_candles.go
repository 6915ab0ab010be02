package csvsource

import (
	"encoding/csv"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/c9s/smcchart/pkg/types"
)

var log = logrus.WithField("component", "csvsource")

// CandleReader is an interface for reading candlesticks.
type CandleReader interface {
	Read() (types.Candle, error)
	ReadAll() (types.Series, error)
}

// ReadCandlesFromCSV reads all the .csv files in a given directory or a single file into a Series.
// Wraps a default CSVCandleReader with Binance decoder for convenience.
func ReadCandlesFromCSV(path string) (types.Series, error) {
	return ReadCandlesFromCSVWithDecoder(path, NewBinanceCSVCandleReader)
}

// ReadCandlesFromCSVWithDecoder permits using a custom CSVCandleReader.
// Candles from several files are merged and ordered by timestamp.
func ReadCandlesFromCSVWithDecoder(path string, maker MakeCSVCandleReader) (types.Series, error) {
	var series types.Series

	err := filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".csv" {
			return nil
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		//nolint:errcheck // Read ops only so safe to ignore err return
		defer file.Close()
		reader := maker(csv.NewReader(file))
		candles, err := reader.ReadAll()
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		log.Debugf("loaded %d candles from %s", len(candles), path)
		series = append(series, candles...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !series.IsSorted() {
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Timestamp < series[j].Timestamp
		})
	}

	return series, nil
}
