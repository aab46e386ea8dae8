package ai

import (
	"fmt"
	"strings"
)

// ConfigurationError reports that no usable provider configuration exists.
// It is the only pipeline error that surfaces to the HTTP layer as a failure.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) == 0 {
		return "no usable AI provider configuration"
	}
	return fmt.Sprintf("no usable AI provider configuration; missing: %s", strings.Join(e.Missing, ", "))
}

// AnalysisError wraps a provider failure during an LLM capability call.
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
