package domain

import "errors"

// ErrUnhandledSignal is returned when a signal is received but no handler is defined for it.
var ErrUnhandledSignal = errors.New("unhandled signal")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoLastRequest is returned when no search has been exported yet.
var ErrNoLastRequest = errors.New("no previous search request")

// ErrSearchInProgress is returned when the global search flag is already held.
var ErrSearchInProgress = errors.New("a search is already in progress")

// ErrUnknownStation is returned when free text cannot be mapped to a station.
var ErrUnknownStation = errors.New("unknown station")

// ErrNoLogs is returned when the log archive holds nothing for a user.
var ErrNoLogs = errors.New("no logs available")

// ErrNoSearchInProgress is returned when a cancel finds nothing to cancel.
var ErrNoSearchInProgress = errors.New("no search in progress")

// ErrSearchDelegated is returned by searchers that only export the request
// for an external scraper and have no results to report.
var ErrSearchDelegated = errors.New("search delegated to an external backend")
