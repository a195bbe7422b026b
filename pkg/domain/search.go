package domain

import (
	"errors"
	"fmt"
	"time"
)

// SearchRequest is the request object the conversation accumulates step by step.
// Tags follow the snapshot wire format (see constants.go).
type SearchRequest struct {
	OriginStation      string  `json:"origin_station" mapstructure:"origin_station"`
	DestinationStation string  `json:"destination_station" mapstructure:"destination_station"`
	DepartureDate      string  `json:"departure_date" mapstructure:"departure_date"`
	Return             bool    `json:"return" mapstructure:"return"`
	ReturnDate         string  `json:"return_date,omitempty" mapstructure:"return_date"`
	MaxPrice           float64 `json:"max_price,omitempty" mapstructure:"max_price"`
	MaxDuration        float64 `json:"max_duration,omitempty" mapstructure:"max_duration"` // hours
	OutboundEarliest   string  `json:"ida_earliest,omitempty" mapstructure:"ida_earliest"`
	OutboundLatest     string  `json:"ida_latest,omitempty" mapstructure:"ida_latest"`
	ReturnEarliest     string  `json:"vuelta_earliest,omitempty" mapstructure:"vuelta_earliest"`
	ReturnLatest       string  `json:"vuelta_latest,omitempty" mapstructure:"vuelta_latest"`
}

// Validate checks that the fields every search needs are present.
func (r SearchRequest) Validate() error {
	var errs []error
	if r.OriginStation == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyOriginStation))
	}
	if r.DestinationStation == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyDestinationStation))
	}
	if r.DepartureDate == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyDepartureDate))
	}
	if r.Return && r.ReturnDate == "" {
		errs = append(errs, fmt.Errorf("%s is required for a return trip", KeyReturnDate))
	}
	return errors.Join(errs...)
}

// Filtered reports whether any result filter is set.
func (r SearchRequest) Filtered() bool {
	return r.MaxPrice > 0 || r.MaxDuration > 0 ||
		r.OutboundEarliest != "" || r.OutboundLatest != "" ||
		r.ReturnEarliest != "" || r.ReturnLatest != ""
}

// Filter returns the trains that satisfy the request's filters.
// Zero-valued filters are ignored.
func (r SearchRequest) Filter(trains []Train) []Train {
	if !r.Filtered() {
		return trains
	}
	kept := make([]Train, 0, len(trains))
	for _, t := range trains {
		if r.accepts(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (r SearchRequest) accepts(t Train) bool {
	if r.MaxPrice > 0 && t.Price > r.MaxPrice {
		return false
	}
	if r.MaxDuration > 0 && float64(t.DurationMinutes) > r.MaxDuration*60 {
		return false
	}
	earliest, latest := r.OutboundEarliest, r.OutboundLatest
	if t.Direction == DirectionReturn {
		earliest, latest = r.ReturnEarliest, r.ReturnLatest
	}
	return withinWindow(t.Departure, earliest, latest)
}

// withinWindow compares "hh:mm" clock times. Unparseable bounds are ignored.
func withinWindow(departure, earliest, latest string) bool {
	dep, err := time.Parse(TimeLayout, departure)
	if err != nil {
		return true
	}
	if from, err := time.Parse(TimeLayout, earliest); err == nil && dep.Before(from) {
		return false
	}
	if to, err := time.Parse(TimeLayout, latest); err == nil && dep.After(to) {
		return false
	}
	return true
}

// Train directions.
const (
	DirectionOutbound = "ida"
	DirectionReturn   = "vuelta"
)

// Train is a single connection returned by the search backend.
type Train struct {
	Service         string  `json:"service"`
	Direction       string  `json:"direction"`
	Date            string  `json:"date,omitempty"`
	Departure       string  `json:"departure"`
	Arrival         string  `json:"arrival"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

// SearchResult is what the backend hands back for a request.
type SearchResult struct {
	Trains []Train `json:"trains"`
}
