package errors

import "errors"

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotPublished = errors.New("event is not published")
	ErrEventPassed       = errors.New("event registration deadline has passed")
	ErrPlaceNotFound     = errors.New("place not found")
	ErrInvalidListFilter = errors.New("invalid list filter")
)
