package protocol

import (
  "fmt"
  "strings"
  "time"
)

// Temperature is the decoded temperature characteristic. All temperatures
// are in °C with half-degree resolution. Fields are pointers because some
// firmware revisions return garbage for individual fields; those decode to
// nil instead of failing the whole read.
type Temperature struct {
  Current    *float64
  Manual     *float64
  TargetLow  *float64
  TargetHigh *float64
  Offset     *float64

  WindowOpen        bool
  WindowOpenMinutes *int
}

func (t Temperature) String() string {
  var fields []string

  appendTemp := func(name string, v *float64) {
    if v != nil {
      fields = append(fields, fmt.Sprintf("%s=%.1f", name, *v))
    }
  }

  appendTemp("Current", t.Current)
  appendTemp("Manual", t.Manual)
  appendTemp("TargetLow", t.TargetLow)
  appendTemp("TargetHigh", t.TargetHigh)
  appendTemp("Offset", t.Offset)

  fields = append(fields, fmt.Sprintf("WindowOpen=%v", t.WindowOpen))

  if t.WindowOpenMinutes != nil {
    fields = append(fields, fmt.Sprintf("WindowOpenMinutes=%d", *t.WindowOpenMinutes))
  }

  return "Temperature[" + strings.Join(fields, ",") + "]"
}

// TemperatureUpdate is a sparse update of the writable temperature fields.
// Nil fields are encoded with the "unchanged" sentinel so the device leaves
// them untouched.
type TemperatureUpdate struct {
  Manual     *float64
  TargetLow  *float64
  TargetHigh *float64
  Offset     *float64
}

// TimeOfDay is a schedule switching point on the device's 10-minute grid.
type TimeOfDay struct {
  Hour   int
  Minute int
}

func (t TimeOfDay) String() string {
  return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Period is one heating window of a weekday schedule.
type Period struct {
  Start TimeOfDay
  End   TimeOfDay
}

// Schedule holds up to four heating periods for one weekday.
type Schedule []Period

func (s Schedule) String() string {
  parts := make([]string, len(s))

  for i, p := range s {
    parts[i] = p.Start.String() + "-" + p.End.String()
  }

  return "[" + strings.Join(parts, " ") + "]"
}

// Holiday is one of the eight temperature override periods. Start and end
// have hour resolution; minutes are discarded on encode.
type Holiday struct {
  Start       time.Time
  End         time.Time
  Temperature float64
}

func (h Holiday) String() string {
  return fmt.Sprintf("Holiday[%v - %v @ %.1f]", h.Start, h.End, h.Temperature)
}
