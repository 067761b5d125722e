package llm

import (
	"errors"
	"strings"
)

var (
	// ErrFatalAPI marks provider errors that retrying cannot fix: billing,
	// quota and authentication failures.
	ErrFatalAPI = errors.New("fatal API error")

	// ErrEmbeddingUnavailable is returned once embedding retries are
	// exhausted. Callers degrade to overlap-only operation.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrGenerationUnavailable is returned once generation retries are
	// exhausted. The structured report is still valid without the narrative.
	ErrGenerationUnavailable = errors.New("generation unavailable")
)

var fatalMarkers = []string{
	"credit balance",
	"rate limit",
	"quota",
	"billing",
	"invalid api key",
	"authentication",
	"unauthorized",
	"401",
	"403",
}

// isFatalAPIError reports whether the error indicates a billing, quota or
// auth problem that will not resolve on retry.
func isFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range fatalMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// wrapFatalError tags fatal API errors with ErrFatalAPI so callers can abort
// instead of retrying. Non-fatal errors pass through unchanged.
func wrapFatalError(err error) error {
	if err == nil {
		return nil
	}
	if isFatalAPIError(err) {
		return errors.Join(ErrFatalAPI, err)
	}
	return err
}
