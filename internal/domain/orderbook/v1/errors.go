package orderbookv1

import "errors"

var (
	// ErrNilOrder is returned when a nil order is passed to a book operation.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidPrice is returned when an order carries a non-positive price.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidQuantity is returned when an order carries a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrOrderNotFound is returned when an order is absent from the level it
	// was expected to rest in.
	ErrOrderNotFound = errors.New("order not found in level")
	// ErrDuplicateID is returned when an add references an order id that is already live.
	ErrDuplicateID = errors.New("order id already exists")
	// ErrUnknownOrder is returned when a modify or delete references an order id
	// that is not currently live.
	ErrUnknownOrder = errors.New("unknown order id")
	// ErrInvalidEvent is returned for events with an unrecognized action or
	// malformed fields. The book state is left untouched.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrCrossedBook is returned when the best bid meets or exceeds the best ask
	// after an event has been fully processed. It signals a core bug and must be
	// treated as fatal by the caller.
	ErrCrossedBook = errors.New("book is crossed")
)
