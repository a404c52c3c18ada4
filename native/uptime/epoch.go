package uptime

import "time"

// EpochSeconds is the length of one accounting epoch (one calendar day).
const EpochSeconds = 86400

// DayFormat aligns with the UTC calendar date string used in event payloads.
const DayFormat = "2006-01-02"

// EpochOf maps a unix timestamp to its epoch id (the unix day number).
func EpochOf(ts int64) uint64 {
	if ts < 0 {
		return 0
	}
	return uint64(ts / EpochSeconds)
}

// Day renders the UTC calendar date for a unix timestamp.
func Day(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(DayFormat)
}
