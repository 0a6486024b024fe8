package protocol

import (
  "github.com/pkg/errors"
)

// The device encodes schedule times as 10-minute ticks since midnight
// (0-143). Values of 144 and above mean "slot not set".
const ticksPerHour = 6

func decodeTimeOfDay(raw byte) (TimeOfDay, bool) {
  hour := int(raw) / ticksPerHour

  if hour >= 24 {
    return TimeOfDay{}, false
  }

  return TimeOfDay{
    Hour:   hour,
    Minute: (int(raw) % ticksPerHour) * 10,
  }, true
}

func encodeTimeOfDay(t TimeOfDay) (byte, bool) {
  if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
    return 0, false
  }

  // minutes snap to the next lower tick.
  return byte(t.Hour*ticksPerHour + t.Minute/10), true
}

// DecodeSchedule parses the 8-byte weekday characteristic into the
// configured heating periods. Slots whose start or end is unset, or whose
// start equals its end, are omitted.
func DecodeSchedule(value []byte) (Schedule, error) {
  if len(value) < 8 {
    return nil, errors.Wrapf(ErrInvalidData,
      "schedule buffer too short (%d bytes, want 8)", len(value))
  }

  var s Schedule

  for i := 0; i < 4; i++ {
    start, startOk := decodeTimeOfDay(value[2*i])
    end, endOk := decodeTimeOfDay(value[2*i+1])

    if !startOk || !endOk || start == end {
      continue
    }

    s = append(s, Period{Start: start, End: end})
  }

  return s, nil
}

// EncodeSchedule builds the 8-byte weekday write buffer. Degenerate periods
// (equal or unencodable endpoints) are skipped entirely and the remaining
// periods are packed into the earliest slots; the device expects this
// packing and resets the zero-filled tail slots.
func EncodeSchedule(s Schedule) []byte {
  buf := make([]byte, 0, 8)

  for _, p := range s {
    if len(buf) == 8 {
      break
    }

    start, startOk := encodeTimeOfDay(p.Start)
    end, endOk := encodeTimeOfDay(p.End)

    if !startOk || !endOk || start == end {
      continue
    }

    buf = append(buf, start, end)
  }

  for len(buf) < 8 {
    buf = append(buf, 0)
  }

  return buf
}
