package protocol

import (
  "encoding/binary"
  "time"

  "github.com/pkg/errors"
  "github.com/rs/zerolog/log"
)

// UnchangedValue is the sentinel the device interprets as "leave this field
// as-is" in partial writes.
const UnchangedValue = 0xFF

// MaxPin is the largest PIN the device accepts (8 decimal digits).
const MaxPin = 99999999

var (
  ErrInvalidData = errors.New("invalid data")
  ErrPinOutOfRange = errors.New("pin out of range (up to 8 digits allowed)")
)

// Temperatures outside this window are known to be firmware garbage and are
// dropped from decoded results.
const (
  minPlausibleValue = -10
  maxPlausibleValue = 50
)

// EncodePin converts a PIN to the 4-byte little-endian buffer the PIN
// characteristic expects.
func EncodePin(pin uint32) ([]byte, error) {
  if pin > MaxPin {
    return nil, errors.Wrapf(ErrPinOutOfRange, "got %d", pin)
  }

  buf := make([]byte, 4)
  binary.LittleEndian.PutUint32(buf, pin)

  return buf, nil
}

func plausible(v float64) *float64 {
  if v < minPlausibleValue || v > maxPlausibleValue {
    log.Warn().Float64("Value", v).Msg("protocol: dropping implausible temperature value")
    return nil
  }

  return &v
}

// DecodeTemperature parses the 7-byte temperature characteristic.
func DecodeTemperature(value []byte) (t Temperature, err error) {
  if len(value) < 7 {
    return t, errors.Wrapf(ErrInvalidData,
      "temperature buffer too short (%d bytes, want 7)", len(value))
  }

  t.Current = plausible(float64(value[0]) / 2)
  t.Manual = plausible(float64(value[1]) / 2)
  t.TargetLow = plausible(float64(value[2]) / 2)
  t.TargetHigh = plausible(float64(value[3]) / 2)

  // byte 4 is a signed two's-complement offset.
  offset := int(value[4])
  if offset > 127 {
    offset -= 256
  }
  t.Offset = plausible(float64(offset) / 2)

  t.WindowOpen = value[5] == 0xF0

  minutes := int(value[6])
  if minutes <= maxPlausibleValue {
    t.WindowOpenMinutes = &minutes
  } else {
    log.Warn().Int("Minutes", minutes).Msg("protocol: dropping implausible window-open minutes")
  }

  return t, nil
}

// EncodeTemperature builds the 7-byte write buffer for a sparse temperature
// update. Byte 0 (current temperature) and bytes 5-6 are read-only on this
// device class and always carry the sentinel.
func EncodeTemperature(u TemperatureUpdate) []byte {
  buf := []byte{
    UnchangedValue,
    UnchangedValue, UnchangedValue, UnchangedValue, UnchangedValue,
    UnchangedValue, UnchangedValue,
  }

  if u.Manual != nil {
    buf[1] = byte(int(*u.Manual * 2))
  }

  if u.TargetLow != nil {
    buf[2] = byte(int(*u.TargetLow * 2))
  }

  if u.TargetHigh != nil {
    buf[3] = byte(int(*u.TargetHigh * 2))
  }

  if u.Offset != nil {
    offset := *u.Offset
    if offset < 0 {
      offset = 256 + offset*2
    } else {
      offset *= 2
    }

    buf[4] = byte(int(offset))
  }

  return buf
}

// DecodeDateTime parses the 5-byte datetime characteristic. A combination
// that is not a valid calendar date is a decode failure, which callers are
// expected to swallow into an absent value.
func DecodeDateTime(value []byte) (time.Time, error) {
  if len(value) < 5 {
    return time.Time{}, errors.Wrapf(ErrInvalidData,
      "datetime buffer too short (%d bytes, want 5)", len(value))
  }

  minute := int(value[0])
  hour := int(value[1])
  day := int(value[2])
  month := int(value[3])
  year := int(value[4]) + 2000

  if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 {
    return time.Time{}, errors.Wrapf(ErrInvalidData, "invalid datetime %v", value[:5])
  }

  t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)

  // time.Date normalizes overflowing components (e.g. Feb 30) instead of
  // failing; a changed day means the input was not a real date.
  if t.Day() != day || t.Month() != time.Month(month) {
    return time.Time{}, errors.Wrapf(ErrInvalidData, "invalid datetime %v", value[:5])
  }

  return t, nil
}

// EncodeDateTime builds the 5-byte write buffer for the device clock.
func EncodeDateTime(t time.Time) []byte {
  return []byte{
    byte(t.Minute()),
    byte(t.Hour()),
    byte(t.Day()),
    byte(int(t.Month())),
    byte(t.Year() % 100),
  }
}

// DecodeManualMode reads the manual-mode flag from bit 0 of the settings
// characteristic.
func DecodeManualMode(value []byte) (bool, error) {
  if len(value) < 1 {
    return false, errors.Wrap(ErrInvalidData, "empty settings buffer")
  }

  return value[0]&0x01 == 0x01, nil
}

// EncodeManualMode builds the 3-byte settings write buffer. Only byte 0 is
// touched; the remaining settings bytes carry the sentinel.
func EncodeManualMode(enabled bool) []byte {
  buf := []byte{0x00, UnchangedValue, UnchangedValue}

  if enabled {
    buf[0] = 0x01
  }

  return buf
}

// DecodeBattery reads the battery level in percent.
func DecodeBattery(value []byte) (uint8, error) {
  if len(value) < 1 {
    return 0, errors.Wrap(ErrInvalidData, "empty battery buffer")
  }

  return value[0], nil
}
