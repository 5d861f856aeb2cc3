package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Steps   int         `json:"steps"`
	Samples []Sample    `json:"samples"`
}

// ExportJSON writes a run and its samples as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, samples []Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Run:     meta,
		Steps:   len(samples),
		Samples: samples,
	})
}
