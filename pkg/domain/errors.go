package domain

import "errors"

// ErrEmptyTemplateSet is returned when an archive is requested with no files.
var ErrEmptyTemplateSet = errors.New("template set is empty")

// ErrDuplicateTemplate is returned when two template files share a name.
var ErrDuplicateTemplate = errors.New("duplicate template name")

// ErrInvalidTemplateName is returned for absolute names or names escaping the archive root.
var ErrInvalidTemplateName = errors.New("invalid template name")

// ErrArchiveMismatch is returned when an archive does not match its template set.
var ErrArchiveMismatch = errors.New("archive does not match template set")

// ErrInvalidPayload is returned when an inbound message is not valid JSON.
var ErrInvalidPayload = errors.New("invalid JSON payload")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
