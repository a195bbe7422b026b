package domain

// Context keys under which the conversation accumulates the search request.
// They double as the JSON keys of the last-request snapshot, which the
// external scraper reads, so they must not be renamed.
const (
	KeyOriginStation      = "origin_station"
	KeyDestinationStation = "destination_station"
	KeyDepartureDate      = "departure_date"
	KeyReturn             = "return"
	KeyReturnDate         = "return_date"
	KeyMaxPrice           = "max_price"
	KeyMaxDuration        = "max_duration"
	KeyOutboundEarliest   = "ida_earliest"
	KeyOutboundLatest     = "ida_latest"
	KeyReturnEarliest     = "vuelta_earliest"
	KeyReturnLatest       = "vuelta_latest"
)

// SignalCancel is the global signal raised when the user aborts a conversation.
const SignalCancel = "cancel"

// DateLayout and TimeLayout are the formats users type and the snapshot stores.
const (
	DateLayout = "02-01-2006"
	TimeLayout = "15:04"
)
