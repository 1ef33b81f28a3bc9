package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProfileMissingFileReturnsDefaults(t *testing.T) {
	profile := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	if profile.Role != "helpful tutor" {
		t.Errorf("expected default role, got %q", profile.Role)
	}
	if len(profile.PreferredFrameworks) == 0 {
		t.Error("expected default preferred frameworks")
	}
}

func TestLoadProfileMalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("role: [unclosed"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	profile := LoadProfile(path)
	if profile.Role != "helpful tutor" {
		t.Errorf("expected default role for malformed file, got %q", profile.Role)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	saved := Profile{
		Role:                "strategy coach",
		Tone:                "direct",
		ThinkingStyle:       "first principles",
		PreferredFrameworks: []string{"premortem"},
	}
	if err := SaveProfile(path, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := LoadProfile(path)
	if loaded.Role != saved.Role {
		t.Errorf("expected role %q, got %q", saved.Role, loaded.Role)
	}
	if loaded.Tone != saved.Tone {
		t.Errorf("expected tone %q, got %q", saved.Tone, loaded.Tone)
	}
	if len(loaded.PreferredFrameworks) != 1 || loaded.PreferredFrameworks[0] != "premortem" {
		t.Errorf("unexpected frameworks: %v", loaded.PreferredFrameworks)
	}
}

func TestLoadProfilePartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("role: negotiation coach\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	profile := LoadProfile(path)
	if profile.Role != "negotiation coach" {
		t.Errorf("expected overridden role, got %q", profile.Role)
	}
	if profile.Tone != "encouraging and clear" {
		t.Errorf("expected default tone to survive, got %q", profile.Tone)
	}
}

func TestAnswerPromptContainsStructureAndInputs(t *testing.T) {
	prompt := AnswerPrompt(DefaultProfile(), "some excerpts", "Should I take the job?")

	for _, want := range []string{
		"Strategy or Explanation",
		"Story or Analogy",
		"Reflection Prompts",
		"Concept/Tool References",
		"some excerpts",
		"Should I take the job?",
		"helpful tutor",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestTooltipPromptTruncatesContext(t *testing.T) {
	long := strings.Repeat("x", 500)
	prompt := TooltipPrompt("decision tree", long)
	if strings.Contains(prompt, strings.Repeat("x", 201)) {
		t.Error("expected context truncated to 200 characters")
	}
	if !strings.Contains(prompt, "decision tree") {
		t.Error("prompt missing concept name")
	}
}
