// Package model defines the wire types shared by the HTTP server and
// its clients: a uniform response envelope plus the answer payload.
package model

import "time"

// APIResponse is the envelope every endpoint returns. Exactly one of
// Data and Error is populated.
type APIResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// SuccessResponse wraps a payload in the standard envelope.
func SuccessResponse(data any) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorResponse wraps an error message in the standard envelope.
func ErrorResponse(message string) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// AnswerData is the /query success payload.
type AnswerData struct {
	QueryID  string            `json:"query_id"`
	Answer   string            `json:"answer"`
	Tooltips map[string]string `json:"tooltips"`
	Metadata AnswerMetadata    `json:"metadata"`
}

// AnswerMetadata describes how the answer was produced.
type AnswerMetadata struct {
	Sources         int      `json:"sources"`
	ContextChars    int      `json:"context_chars"`
	EstimatedTokens int      `json:"estimated_tokens"`
	ResponseTimeMs  int64    `json:"response_time_ms"`
	QualityOK       bool     `json:"quality_ok"`
	QualityIssues   []string `json:"quality_issues,omitempty"`
}
