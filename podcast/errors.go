package podcast

import "fmt"

// ValidationError indicates the request was missing required input;
// it is surfaced to the caller and never retried
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ProviderExhaustedError indicates every configured LLM backend failed or
// none had credentials; it carries the last underlying cause
type ProviderExhaustedError struct {
	Last error
}

func (e *ProviderExhaustedError) Error() string {
	if e.Last == nil {
		return "all AI providers failed: no provider configured with credentials"
	}
	return fmt.Sprintf("all AI providers failed, last error: %v", e.Last)
}

func (e *ProviderExhaustedError) Unwrap() error {
	return e.Last
}
