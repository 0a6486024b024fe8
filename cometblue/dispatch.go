package cometblue

import (
  "context"
  "fmt"
  "strconv"
  "time"

  "github.com/pkg/errors"
  "github.com/zero-udo/eurotronic-cometblue/protocol"
)

type opKind uint8

const (
  opTemperature opKind = iota
  opBattery
  opDateTime
  opManualMode
  opWeekday
  opHoliday
)

// attributeOp is one resolved device operation. The parameter fields are
// only meaningful for the kind that carries them.
type attributeOp struct {
  kind opKind
  weekday protocol.Weekday
  holidaySlot int
}

// Attributes returns the full attribute vocabulary accepted by
// GetMultiple, expansion shorthands included.
func Attributes() []string {
  names := []string{"temperature", "battery", "datetime", "manual", "weekdays", "holidays"}

  for day := protocol.Monday; day <= protocol.Sunday; day++ {
    names = append(names, day.String())
  }

  for slot := protocol.HolidaySlotMin; slot <= protocol.HolidaySlotMax; slot++ {
    names = append(names, "holiday"+strconv.Itoa(slot))
  }

  return names
}

// KnownAttribute reports whether name is part of the attribute vocabulary.
func KnownAttribute(name string) bool {
  _, _, ok := resolveAttribute(name)
  return ok
}

func resolveAttribute(name string) (op attributeOp, expand string, ok bool) {
  switch name {
  case "temperature":
    return attributeOp{kind: opTemperature}, "", true
  case "battery":
    return attributeOp{kind: opBattery}, "", true
  case "datetime":
    return attributeOp{kind: opDateTime}, "", true
  case "manual":
    return attributeOp{kind: opManualMode}, "", true
  case "weekdays", "holidays":
    return attributeOp{}, name, true
  }

  if day, ok := protocol.ParseWeekday(name); ok {
    return attributeOp{kind: opWeekday, weekday: day}, "", true
  }

  for slot := protocol.HolidaySlotMin; slot <= protocol.HolidaySlotMax; slot++ {
    if name == "holiday"+strconv.Itoa(slot) {
      return attributeOp{kind: opHoliday, holidaySlot: slot}, "", true
    }
  }

  return attributeOp{}, "", false
}

// resolveAttributes expands the requested names into device operations
// keyed by their expanded name. "weekdays" contributes all seven weekday
// reads, "holidays" all eight holiday slots. Duplicates merge by key with
// the last occurrence winning; unknown names resolve to nothing.
func resolveAttributes(names []string) (keys []string, ops map[string]attributeOp) {
  ops = make(map[string]attributeOp, len(names))

  assign := func(key string, op attributeOp) {
    if _, seen := ops[key]; !seen {
      keys = append(keys, key)
    }

    ops[key] = op
  }

  for _, name := range names {
    op, expand, ok := resolveAttribute(name)

    if !ok {
      continue
    }

    switch expand {
    case "weekdays":
      for day := protocol.Monday; day <= protocol.Sunday; day++ {
        assign(day.String(), attributeOp{kind: opWeekday, weekday: day})
      }
    case "holidays":
      for slot := protocol.HolidaySlotMin; slot <= protocol.HolidaySlotMax; slot++ {
        assign("holiday"+strconv.Itoa(slot), attributeOp{kind: opHoliday, holidaySlot: slot})
      }
    default:
      assign(name, op)
    }
  }

  return keys, ops
}

// GetMultiple reads a set of named attributes over the already-open
// session, one device operation per expanded name. Values are the decoded
// types of the matching getters (protocol.Temperature, uint8, time.Time,
// bool, protocol.Schedule, protocol.Holiday); attributes whose value the
// device reports as absent (unconfigured holidays, undecodable datetimes)
// are omitted from the result. Unknown names are silently ignored.
func (c *Client) GetMultiple(ctx context.Context, names []string) (map[string]any, error) {
  keys, ops := resolveAttributes(names)
  out := make(map[string]any, len(keys))

  for _, key := range keys {
    op := ops[key]

    var value any
    var err error
    present := true

    switch op.kind {
    case opTemperature:
      value, err = c.GetTemperature(ctx)
    case opBattery:
      value, err = c.GetBattery(ctx)
    case opDateTime:
      var t time.Time
      t, err = c.GetDateTime(ctx)
      value, present = t, !t.IsZero()
    case opManualMode:
      value, err = c.GetManualMode(ctx)
    case opWeekday:
      value, err = c.GetWeekday(ctx, op.weekday)
    case opHoliday:
      var h protocol.Holiday
      h, present, err = c.GetHoliday(ctx, op.holidaySlot)
      value = h
    default:
      panic(fmt.Sprintf("unhandled attribute op %d", op.kind))
    }

    if err != nil {
      return out, errors.Wrapf(err, "failed to read attribute %q", key)
    }

    if present {
      out[key] = value
    }
  }

  return out, nil
}
