package model

import "errors"

// ErrDataContract is the sentinel for §7's DataContract error kind: a
// decoded message or built sample violates the schema (e.g. negative AQI,
// out-of-range coordinates, or neither metric present). Callers acknowledge
// and drop, logging at warn.
var ErrDataContract = errors.New("data contract violation")
