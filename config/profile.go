// User profile loading and persistence.
//
// The profile personalizes the coaching prompt (role, tone, thinking
// style, preferred frameworks). A missing or unreadable file degrades
// to defaults; saving writes the file back in YAML.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds user personalization for prompt generation.
type Profile struct {
	Role                string   `yaml:"role" json:"role"`
	Tone                string   `yaml:"tone" json:"tone"`
	ThinkingStyle       string   `yaml:"thinking_style" json:"thinking_style"`
	PreferredFrameworks []string `yaml:"preferred_frameworks" json:"preferred_frameworks"`
}

// Merge overlays the non-empty fields of other onto p, so partial
// updates leave unmentioned fields intact.
func (p Profile) Merge(other Profile) Profile {
	if other.Role != "" {
		p.Role = other.Role
	}
	if other.Tone != "" {
		p.Tone = other.Tone
	}
	if other.ThinkingStyle != "" {
		p.ThinkingStyle = other.ThinkingStyle
	}
	if len(other.PreferredFrameworks) > 0 {
		p.PreferredFrameworks = other.PreferredFrameworks
	}
	return p
}

// DefaultProfile returns the profile used when no file is present.
func DefaultProfile() Profile {
	return Profile{
		Role:          "helpful tutor",
		Tone:          "encouraging and clear",
		ThinkingStyle: "step-by-step reasoning",
		PreferredFrameworks: []string{
			"decision tree",
			"swot analysis",
			"cost-benefit analysis",
		},
	}
}

// LoadProfile reads a profile from the given YAML path.
// A missing or malformed file returns the defaults, never an error:
// personalization is best-effort.
func LoadProfile(path string) Profile {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return profile
	}

	var loaded Profile
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return profile
	}

	if loaded.Role != "" {
		profile.Role = loaded.Role
	}
	if loaded.Tone != "" {
		profile.Tone = loaded.Tone
	}
	if loaded.ThinkingStyle != "" {
		profile.ThinkingStyle = loaded.ThinkingStyle
	}
	if len(loaded.PreferredFrameworks) > 0 {
		profile.PreferredFrameworks = loaded.PreferredFrameworks
	}

	return profile
}

// SaveProfile writes the profile to the given path as YAML.
func SaveProfile(path string, profile Profile) error {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
