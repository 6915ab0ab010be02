package overlaysource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/c9s/smcchart/pkg/types"
)

var log = logrus.WithField("component", "overlaysource")

// ErrUnsupportedExtension is returned when the overlay file is neither json nor yaml.
var ErrUnsupportedExtension = errors.New("unsupported overlay file extension")

// Load reads an annotation bundle from a .json, .yaml or .yml file and validates it.
func Load(path string) (*types.OverlayBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var bundle *types.OverlayBundle
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		bundle, err = DecodeJSON(data)
	case ".yaml", ".yml":
		bundle, err = DecodeYAML(data)
	default:
		return nil, errors.Wrapf(ErrUnsupportedExtension, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	log.Debugf("loaded %d annotations from %s", bundle.Len(), path)
	return bundle, nil
}

func DecodeJSON(data []byte) (*types.OverlayBundle, error) {
	var bundle types.OverlayBundle
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&bundle); err != nil {
		return nil, err
	}
	return &bundle, Validate(&bundle)
}

func DecodeYAML(data []byte) (*types.OverlayBundle, error) {
	var bundle types.OverlayBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, err
	}
	return &bundle, Validate(&bundle)
}

// Validate collects every malformed annotation into one error.
func Validate(bundle *types.OverlayBundle) (err error) {
	if bundle == nil {
		return nil
	}

	for i, ob := range bundle.OrderBlocks {
		if !finite(ob.X1, ob.X2, ob.Y1, ob.Y2, ob.Confidence) {
			err = multierr.Append(err, fmt.Errorf("orderBlocks[%d]: non-finite value", i))
		}
		if ob.Confidence < 0 || ob.Confidence > 1 {
			err = multierr.Append(err, fmt.Errorf("orderBlocks[%d]: confidence %v out of [0,1]", i, ob.Confidence))
		}
		if !ob.Polarity.IsValid() {
			err = multierr.Append(err, fmt.Errorf("orderBlocks[%d]: missing or invalid polarity %q", i, ob.Polarity))
		}
	}

	for i, gap := range bundle.FairValueGaps {
		if !finite(gap.X1, gap.X2, gap.Y1, gap.Y2) {
			err = multierr.Append(err, fmt.Errorf("fairValueGaps[%d]: non-finite value", i))
		}
		if !gap.Polarity.IsValid() {
			err = multierr.Append(err, fmt.Errorf("fairValueGaps[%d]: missing or invalid polarity %q", i, gap.Polarity))
		}
	}

	for i, zone := range bundle.LiquidityZones {
		if !finite(zone.Price, zone.Strength) {
			err = multierr.Append(err, fmt.Errorf("liquidityZones[%d]: non-finite value", i))
		}
		if zone.Strength < 0 {
			err = multierr.Append(err, fmt.Errorf("liquidityZones[%d]: negative strength %v", i, zone.Strength))
		}
		if !zone.Kind.IsValid() {
			err = multierr.Append(err, fmt.Errorf("liquidityZones[%d]: missing or invalid kind %q", i, zone.Kind))
		}
	}

	for i, bos := range bundle.BreakOfStructures {
		if !finite(bos.Index, bos.Price, bos.Significance) {
			err = multierr.Append(err, fmt.Errorf("breakOfStructures[%d]: non-finite value", i))
		}
		if !bos.Polarity.IsValid() {
			err = multierr.Append(err, fmt.Errorf("breakOfStructures[%d]: missing or invalid polarity %q", i, bos.Polarity))
		}
	}

	return err
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
