package model

import "errors"

var (
	// ErrTenantNotFound is returned when the backend explicitly reports that
	// no document exists for a tenant (not-found or no-content status).
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrMalformedDocument marks a response body that is not a tenant document.
	ErrMalformedDocument = errors.New("malformed tenant document")

	// ErrMalformedStaticPage marks a StaticPages entry that is neither a
	// tuple nor an object.
	ErrMalformedStaticPage = errors.New("malformed static page")
)
