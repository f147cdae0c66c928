package core

import "fmt"

// ConfigurationError indicates a required credential or setting is
// missing for the selected backend. It fails before any network call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// FetchError indicates the mailbox listing or message retrieval failed.
// It aborts the current window without touching previously cached ones.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClassificationError indicates the LLM call failed or its response was
// not the expected JSON shape.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
