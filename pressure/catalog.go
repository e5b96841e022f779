package pressure

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownModel = errors.New("ams5935: unknown transducer model")
var ErrInvalidRange = errors.New("ams5935: calibration range has non-positive span")

// Model identifies one AMS5935 part number. The set is closed: every value
// below modelCount has exactly one catalog entry.
type Model uint8

const (
	Model0002D Model = iota
	Model0005D
	Model0010D
	Model0020D
	Model0035D
	Model0050D
	Model0100D
	Model0200D
	Model0350D
	Model0500D
	Model1000D
	Model0002DN
	Model0005DN
	Model0010DN
	Model0020DN
	Model0050DN
	Model0100DN
	Model0200DN
	Model0350DN
	Model1000DN
	Model0001DB
	Model0002DB
	Model0005DB
	Model0010DB
	Model0020DB
	Model0035DB
	Model0050DB
	Model0100DB
	Model0200DB
	Model0350DB
	Model0500DB
	Model1000DB
	Model0001DBN
	Model0002DBN
	Model0005DBN
	Model0010DBN
	Model0020DBN
	Model0050DBN
	Model0100DBN
	Model0200DBN
	Model0350DBN
	Model1000DBN
	Model0500A
	Model1000A
	Model1500A
	Model2000A
	Model1200B

	modelCount
)

// Range is the rated physical pressure span of a transducer in millibar.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Validate rejects ranges that would make the sensitivity undefined or negative.
func (r Range) Validate() error {
	if r.Span() <= 0 {
		return fmt.Errorf("%w: [%g, %g] mbar", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

type catalogEntry struct {
	part string
	rng  Range
}

// Datasheet ranges in millibar. AMS5935-0005-D is kept with min == max as
// published by the reference firmware; ValidateCatalog reports it.
var catalog = [modelCount]catalogEntry{
	Model0002D:   {"AMS5935-0002-D", Range{0, 2}},
	Model0005D:   {"AMS5935-0005-D", Range{0, 0}},
	Model0010D:   {"AMS5935-0010-D", Range{0, 10}},
	Model0020D:   {"AMS5935-0020-D", Range{0, 20}},
	Model0035D:   {"AMS5935-0035-D", Range{0, 35}},
	Model0050D:   {"AMS5935-0050-D", Range{0, 50}},
	Model0100D:   {"AMS5935-0100-D", Range{0, 100}},
	Model0200D:   {"AMS5935-0200-D", Range{0, 200}},
	Model0350D:   {"AMS5935-0350-D", Range{0, 350}},
	Model0500D:   {"AMS5935-0500-D", Range{0, 500}},
	Model1000D:   {"AMS5935-1000-D", Range{0, 1000}},
	Model0002DN:  {"AMS5935-0002-D-N", Range{0, 2}},
	Model0005DN:  {"AMS5935-0005-D-N", Range{0, 5}},
	Model0010DN:  {"AMS5935-0010-D-N", Range{0, 10}},
	Model0020DN:  {"AMS5935-0020-D-N", Range{0, 20}},
	Model0050DN:  {"AMS5935-0050-D-N", Range{0, 50}},
	Model0100DN:  {"AMS5935-0100-D-N", Range{0, 100}},
	Model0200DN:  {"AMS5935-0200-D-N", Range{0, 200}},
	Model0350DN:  {"AMS5935-0350-D-N", Range{0, 350}},
	Model1000DN:  {"AMS5935-1000-D-N", Range{0, 1000}},
	Model0001DB:  {"AMS5935-0001-D-B", Range{-1, 1}},
	Model0002DB:  {"AMS5935-0002-D-B", Range{-2, 2}},
	Model0005DB:  {"AMS5935-0005-D-B", Range{-5, 5}},
	Model0010DB:  {"AMS5935-0010-D-B", Range{-10, 10}},
	Model0020DB:  {"AMS5935-0020-D-B", Range{-20, 20}},
	Model0035DB:  {"AMS5935-0035-D-B", Range{-35, 35}},
	Model0050DB:  {"AMS5935-0050-D-B", Range{-50, 50}},
	Model0100DB:  {"AMS5935-0100-D-B", Range{-100, 100}},
	Model0200DB:  {"AMS5935-0200-D-B", Range{-200, 200}},
	Model0350DB:  {"AMS5935-0350-D-B", Range{-350, 350}},
	Model0500DB:  {"AMS5935-0500-D-B", Range{-500, 500}},
	Model1000DB:  {"AMS5935-1000-D-B", Range{-1000, 1000}},
	Model0001DBN: {"AMS5935-0001-D-B-N", Range{-1, 1}},
	Model0002DBN: {"AMS5935-0002-D-B-N", Range{-2, 2}},
	Model0005DBN: {"AMS5935-0005-D-B-N", Range{-5, 5}},
	Model0010DBN: {"AMS5935-0010-D-B-N", Range{-10, 10}},
	Model0020DBN: {"AMS5935-0020-D-B-N", Range{-20, 20}},
	Model0050DBN: {"AMS5935-0050-D-B-N", Range{-50, 50}},
	Model0100DBN: {"AMS5935-0100-D-B-N", Range{-100, 100}},
	Model0200DBN: {"AMS5935-0200-D-B-N", Range{-200, 200}},
	Model0350DBN: {"AMS5935-0350-D-B-N", Range{-350, 350}},
	Model1000DBN: {"AMS5935-1000-D-B-N", Range{-1000, 1000}},
	Model0500A:   {"AMS5935-0500-A", Range{0, 500}},
	Model1000A:   {"AMS5935-1000-A", Range{0, 1000}},
	Model1500A:   {"AMS5935-1500-A", Range{0, 1500}},
	Model2000A:   {"AMS5935-2000-A", Range{0, 2000}},
	Model1200B:   {"AMS5935-1200-B", Range{700, 1200}},
}

func (m Model) Valid() bool {
	return m < modelCount
}

// String returns the part number, e.g. AMS5935-0002-D-B.
func (m Model) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Model(%d)", uint8(m))
	}
	return catalog[m].part
}

// Lookup returns the rated range of m. The range is returned as published,
// callers selecting a model for conversion must Validate it.
func Lookup(m Model) (Range, error) {
	if !m.Valid() {
		return Range{}, fmt.Errorf("%w: %d", ErrUnknownModel, uint8(m))
	}
	return catalog[m].rng, nil
}

// ParseModel resolves a part number. Matching is case-insensitive, the
// AMS5935- prefix is optional and the dashes inside the variant suffix may be
// left out, so 0100-DB and 0100-D-B name the same part.
func ParseModel(name string) (Model, error) {
	norm := strings.ToUpper(strings.TrimSpace(name))
	norm = strings.TrimPrefix(norm, "AMS5935-")
	norm = strings.ReplaceAll(norm, "-", "")
	for m := range modelCount {
		if compactPart(catalog[m].part) == norm {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

func compactPart(part string) string {
	return strings.ReplaceAll(strings.TrimPrefix(part, "AMS5935-"), "-", "")
}

// Models lists the whole catalog in declaration order.
func Models() []Model {
	models := make([]Model, 0, modelCount)
	for m := range modelCount {
		models = append(models, m)
	}
	return models
}

// ValidateCatalog checks every entry and returns all defects joined.
func ValidateCatalog() error {
	var errs []error
	for m := range modelCount {
		entry := catalog[m]
		if entry.part == "" {
			errs = append(errs, fmt.Errorf("%w: model %d has no catalog entry", ErrUnknownModel, uint8(m)))
			continue
		}
		if err := entry.rng.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.part, err))
		}
	}
	return errors.Join(errs...)
}
