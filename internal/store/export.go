package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/cosmolab/internal/cosmology"
)

type ExportData struct {
	Params  map[string]any         `json:"params"`
	Engine  *cosmology.EngineState `json:"engine,omitempty"`
	Derived map[string]float64     `json:"derived"`
}

// derivedNames are the quantities resolved from the canonical mapping
// for the export's convenience section.
var derivedNames = []string{"H0", "Omega_g", "Omega_ur", "Omega_r", "Omega_ncdm", "Omega_m", "N_eff", "T_ur"}

func exportData(c *cosmology.Cosmology) ExportData {
	state := c.State()
	data := ExportData{
		Params:  state.Params,
		Engine:  state.Engine,
		Derived: make(map[string]float64, len(derivedNames)),
	}
	for _, name := range derivedNames {
		if v, err := c.Params().Float(name); err == nil {
			data.Derived[name] = v
		}
	}
	return data
}

func exportTo(w io.Writer, c *cosmology.Cosmology) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(c))
}

// ExportJSON writes the canonical mapping and its derived quantities
// to path as indented JSON.
func ExportJSON(path string, c *cosmology.Cosmology) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportTo(file, c)
}

// ExportJSONStdout writes the same document to standard output.
func ExportJSONStdout(c *cosmology.Cosmology) error {
	return exportTo(os.Stdout, c)
}
