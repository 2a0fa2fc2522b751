// Package notebook extracts format and kernel metadata from Jupyter
// notebook files.
package notebook

import (
	"encoding/json"
	"fmt"
)

// Meta holds the subset of notebook metadata Vigil cares about.
type Meta struct {
	NBFormat   int
	Cells      int
	KernelName string
	Language   string
}

// Parse decodes raw .ipynb bytes. The nbformat marker is required; kernelspec
// details are optional and empty when the notebook omits them. Language falls
// back to language_info when the kernelspec carries none.
func Parse(data []byte) (*Meta, error) {
	var doc struct {
		NBFormat int               `json:"nbformat"`
		Cells    []json.RawMessage `json:"cells"`
		Metadata struct {
			Kernelspec struct {
				Name     string `json:"name"`
				Language string `json:"language"`
			} `json:"kernelspec"`
			LanguageInfo struct {
				Name string `json:"name"`
			} `json:"language_info"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("notebook: decode: %w", err)
	}
	if doc.NBFormat == 0 {
		return nil, fmt.Errorf("notebook: missing nbformat marker")
	}

	lang := doc.Metadata.Kernelspec.Language
	if lang == "" {
		lang = doc.Metadata.LanguageInfo.Name
	}

	return &Meta{
		NBFormat:   doc.NBFormat,
		Cells:      len(doc.Cells),
		KernelName: doc.Metadata.Kernelspec.Name,
		Language:   lang,
	}, nil
}
