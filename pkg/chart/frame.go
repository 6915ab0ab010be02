package chart

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
)

var ErrNoFrame = errors.New("no frame has been rendered")

// Frame is one rendered raster image.
type Frame struct {
	// Width and Height are the logical size, the raster is scaled by PixelRatio.
	Width      float64
	Height     float64
	PixelRatio float64

	Window     Window
	PriceRange PriceRange

	// Hovered is the candle resolved from the cursor, NoIndex when none.
	Hovered int

	canvas *Canvas
}

// EncodePNG writes the frame as a PNG image.
func (f *Frame) EncodePNG(w io.Writer) error {
	if f == nil || f.canvas == nil {
		return ErrNoFrame
	}
	return f.canvas.Save(w)
}

func (f *Frame) Bytes() ([]byte, error) {
	var buffer bytes.Buffer
	if err := f.EncodePNG(&buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Image returns the raster without a PNG round trip.
func (f *Frame) Image() (image.Image, error) {
	if f == nil || f.canvas == nil {
		return nil, ErrNoFrame
	}

	var writer gochart.ImageWriter
	if err := f.canvas.Save(&writer); err != nil {
		return nil, err
	}
	return writer.Image()
}

// ExportFileName returns the file name of an exported still image.
func ExportFileName(symbol, timeframe string) string {
	return fmt.Sprintf("%s_%s_advanced_chart.png", symbol, timeframe)
}

// SaveAs writes the frame to dir using ExportFileName and returns the path.
func (f *Frame) SaveAs(dir, symbol, timeframe string) (string, error) {
	if f == nil || f.canvas == nil {
		return "", ErrNoFrame
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create output directory %s", dir)
	}

	filePath := filepath.Join(dir, ExportFileName(symbol, timeframe))
	file, err := os.Create(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "cannot create on path %s", filePath)
	}
	defer file.Close()

	if err := f.EncodePNG(file); err != nil {
		return "", errors.Wrapf(err, "cannot render chart to %s", filePath)
	}
	return filePath, nil
}
