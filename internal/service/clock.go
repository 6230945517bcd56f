package service

import "time"

// ISOLayout is the timestamp form used on the wire.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// Clock returns the current time. Services truncate it to milliseconds so
// stored timestamps survive an ISO-8601 round trip unchanged.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}

func (c Clock) now() time.Time {
	if c == nil {
		return systemClock().UTC().Truncate(time.Millisecond)
	}
	return c().UTC().Truncate(time.Millisecond)
}
