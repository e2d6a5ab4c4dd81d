package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist or is not visible to the caller.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. unknown budget tier, duration out of range, negative cost).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrCatalogEmpty is returned by the assembler when neither the requested
// destination nor the default destination has any activities to distribute.
var ErrCatalogEmpty = errors.New("catalog empty")

// ErrDuplicateActivity is returned by Itinerary.AddActivity when an activity
// with the same ID is already scheduled on any day. The itinerary is unchanged.
var ErrDuplicateActivity = errors.New("activity already added")

// ErrIndexOutOfRange is returned by ledger operations whose day or leg index
// does not address an existing element.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrGenerativeAssembly wraps every failure of the AI itinerary path.
// It never reaches a handler: the planner logs it and falls back to the catalog.
var ErrGenerativeAssembly = errors.New("generative assembly failed")

// ErrForbidden is returned when the caller can see a trip but may not change it.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthenticated is returned when an operation needs an account identity.
var ErrUnauthenticated = errors.New("unauthenticated")
