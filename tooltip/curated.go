// Curated definitions: externally-authored concept -> text pairs
// loaded once at startup from a JSON sidecar file.

package tooltip

import (
	"encoding/json"
	"os"
	"strings"
)

// LoadCurated reads the curated definitions file. A missing or
// corrupt file degrades to an empty map, never an error: curated
// text is an enhancement, not a requirement.
func LoadCurated(path string) map[string]string {
	curated := map[string]string{}

	data, err := os.ReadFile(path)
	if err != nil {
		return curated
	}

	var loaded map[string]string
	if err := json.Unmarshal(data, &loaded); err != nil {
		return curated
	}

	for concept, def := range loaded {
		if strings.TrimSpace(def) == "" {
			continue
		}
		curated[strings.ToLower(concept)] = def
	}
	return curated
}
