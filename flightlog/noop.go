package flightlog

import "github.com/jigyokei-ai/modelroute"

// NoopLog discards every entry.
type NoopLog struct{}

var _ modelroute.FlightLog = (*NoopLog)(nil)

func (*NoopLog) Append(modelroute.FlightEntry) error { return nil }
