package server

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/c9s/smcchart/pkg/datasource/csvsource"
	"github.com/c9s/smcchart/pkg/datasource/overlaysource"
	"github.com/c9s/smcchart/pkg/types"
)

//go:generate mockgen -destination=mocks/mock_loader.go -package=mocks . DataLoader

// DataLoader resolves the file references of a chart request.
type DataLoader interface {
	LoadCandles(paths []string, format csvsource.Format) (types.Series, error)
	LoadOverlays(path string) (*types.OverlayBundle, error)
}

// FileLoader reads candles from CSV files and annotations from JSON or YAML documents.
type FileLoader struct{}

func (FileLoader) LoadCandles(paths []string, format csvsource.Format) (types.Series, error) {
	maker, err := csvsource.ReaderFor(format)
	if err != nil {
		return nil, err
	}

	var series types.Series
	for _, path := range paths {
		candles, err := csvsource.ReadCandlesFromCSVWithDecoder(path, maker)
		if err != nil {
			return nil, err
		}
		series = append(series, candles...)
	}

	if !series.IsSorted() {
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Timestamp < series[j].Timestamp
		})
	}

	return series, nil
}

func (FileLoader) LoadOverlays(path string) (*types.OverlayBundle, error) {
	return overlaysource.Load(path)
}

// Source names the files a chart is built from.
type Source struct {
	Candles   []string         `json:"candles"`
	CSVFormat csvsource.Format `json:"csvFormat"`
	Overlays  string           `json:"overlays,omitempty"`
}

// ErrForbiddenPath is returned for source paths that would leave the data directory.
var ErrForbiddenPath = errors.New("path is outside of the data directory")

// resolveDataPath joins the relative path p onto root. Absolute paths and
// paths with a ".." element are rejected.
func resolveDataPath(root, p string) (string, error) {
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\\`) {
		return "", errors.Wrapf(ErrForbiddenPath, "%q", p)
	}

	for _, elem := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if elem == ".." {
			return "", errors.Wrapf(ErrForbiddenPath, "%q", p)
		}
	}

	return filepath.Join(root, filepath.FromSlash(p)), nil
}

// Within resolves every path of src under root.
func (src Source) Within(root string) (Source, error) {
	resolved := Source{CSVFormat: src.CSVFormat}
	for _, p := range src.Candles {
		path, err := resolveDataPath(root, p)
		if err != nil {
			return Source{}, err
		}
		resolved.Candles = append(resolved.Candles, path)
	}

	if src.Overlays != "" {
		path, err := resolveDataPath(root, src.Overlays)
		if err != nil {
			return Source{}, err
		}
		resolved.Overlays = path
	}
	return resolved, nil
}

// LoadSource loads the candles and the overlays of src concurrently.
func LoadSource(ctx context.Context, loader DataLoader, src Source) (types.Series, *types.OverlayBundle, error) {
	var (
		series   types.Series
		overlays *types.OverlayBundle
	)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var g errgroup.Group
	g.Go(func() (err error) {
		if len(src.Candles) == 0 {
			return nil
		}
		series, err = loader.LoadCandles(src.Candles, src.CSVFormat)
		return errors.Wrap(err, "load candles")
	})
	g.Go(func() (err error) {
		if src.Overlays == "" {
			return nil
		}
		overlays, err = loader.LoadOverlays(src.Overlays)
		return errors.Wrap(err, "load overlays")
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return series, overlays, nil
}
