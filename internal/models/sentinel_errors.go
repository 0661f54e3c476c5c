package models

import "errors"

var (
	ErrInvalidJSON           = errors.New("invalid json")
	ErrCollectionUnavailable = errors.New("collection data unavailable")
	ErrUnknownCollection     = errors.New("unknown collection")
	ErrDuplicateCollection   = errors.New("duplicate collection")
	ErrEmptyDeck             = errors.New("deck is empty")
	ErrUnknownField          = errors.New("unknown field")
	ErrUnknownAction         = errors.New("unknown action")
	ErrSessionClosed         = errors.New("viewer session closed")
)
