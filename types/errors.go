package types

import "fmt"

// FetchError reports a network or timeout failure while retrieving the listing page
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports markup that could not be parsed at all
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse listing: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StateCorruptError reports a persisted state file that exists but cannot be decoded
type StateCorruptError struct {
	Path string
	Err  error
}

func (e *StateCorruptError) Error() string {
	return fmt.Sprintf("state file %s is corrupt: %v", e.Path, e.Err)
}

func (e *StateCorruptError) Unwrap() error { return e.Err }

// PublishError reports a failed write of the feed document or the state file
type PublishError struct {
	Path string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
