package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidUUID = errors.New("invalid UUID format")
	ErrNotUUIDv7   = errors.New("UUID must be version 7")
	// ErrFutureTimestamp covers both UUIDv7 ids and entry timestamps
	ErrFutureTimestamp = errors.New("timestamp is too far in the future")
)

// MaxFutureSkew is how far ahead of the server clock a client may be
const MaxFutureSkew = time.Minute

// ValidateUUID checks that id parses as a UUID of any version. Path ids are
// checked before they reach PostgREST, which rejects malformed uuids with 22P02.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}
	return nil
}

// ValidateUUIDv7 checks that id is a UUIDv7 whose embedded time is not
// more than MaxFutureSkew after now
func ValidateUUIDv7(id string, now time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	if parsed.Version() != 7 {
		return fmt.Errorf("%w: got version %d", ErrNotUUIDv7, parsed.Version())
	}

	ts := UUIDv7Time(parsed)
	if ts.After(now.Add(MaxFutureSkew)) {
		return fmt.Errorf("%w: %s", ErrFutureTimestamp, ts.Format(time.RFC3339))
	}
	return nil
}

// UUIDv7Time returns the millisecond timestamp embedded in a UUIDv7
func UUIDv7Time(id uuid.UUID) time.Time {
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec)
}
