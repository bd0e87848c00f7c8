// Package smdexport reads and writes the JSON export format of Swift
// Mobility Desktop: a single document holding an intersection and the
// matching arrival rates. Exports can live on the local filesystem or in an
// S3 bucket.
package smdexport

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/intersection"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/scenario"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// Export is the content of one Swift Mobility Desktop export file.
type Export struct {
	Intersection intersection.Intersection
	ArrivalRates scenario.ArrivalRates
}

// FromReader parses an export document.
func FromReader(r io.Reader) (Export, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Export{}, errs.NewDeserializationError(errs.WrongType, "export",
			"could not decode smd export: %v", err)
	}
	ixMap, err := jsonmap.Map(doc, "intersection")
	if err != nil {
		return Export{}, err
	}
	ix, err := intersection.IntersectionFromJSON(ixMap)
	if err != nil {
		return Export{}, err
	}
	ratesMap, err := jsonmap.Map(doc, "arrival_rates")
	if err != nil {
		return Export{}, err
	}
	rates, err := scenario.ArrivalRatesFromJSON(ratesMap)
	if err != nil {
		return Export{}, err
	}
	return Export{Intersection: ix, ArrivalRates: rates}, nil
}

// FromFile reads and parses an export file from disk.
func FromFile(path string) (Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return Export{}, fmt.Errorf("open smd export: %w", err)
	}
	defer f.Close()
	return FromReader(f)
}

// ToJSON returns the export document.
func (e Export) ToJSON() map[string]any {
	return map[string]any{
		"intersection":  e.Intersection.ToJSON(),
		"arrival_rates": e.ArrivalRates.ToJSON(),
	}
}

// WriteTo serializes the export document to w.
func (e Export) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.ToJSON()); err != nil {
		return fmt.Errorf("encode smd export: %w", err)
	}
	return nil
}

// ToFile serializes the export document to a file on disk.
func (e Export) ToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create smd export: %w", err)
	}
	if err := e.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
