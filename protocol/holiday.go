package protocol

import (
  "time"

  "github.com/pkg/errors"
)

// Holiday temperatures outside [8, 29) are refused by the device.
const (
  minHolidayTemperature = 8
  maxHolidayTemperature = 29
)

func decodeHolidayStamp(value []byte) (time.Time, bool) {
  hour := int(value[0])
  day := int(value[1])
  month := int(value[2])
  year := int(value[3])

  if hour > 24 || day < 1 || day > 30 || month < 1 || month > 12 || year > 99 {
    return time.Time{}, false
  }

  // the field ranges still admit dates like february 30th, which time.Date
  // would silently roll over into march
  t := time.Date(year+2000, time.Month(month), day, 0, 0, 0, 0, time.Local)

  if t.Day() != day || t.Month() != time.Month(month) {
    return time.Time{}, false
  }

  return t.Add(time.Duration(hour) * time.Hour), true
}

// DecodeHoliday parses the 9-byte holiday characteristic. An unconfigured
// slot (or a buffer with out-of-range date fields, which some firmware
// returns) decodes to ok=false rather than an error.
func DecodeHoliday(value []byte) (h Holiday, ok bool, err error) {
  if len(value) < 9 {
    return h, false, errors.Wrapf(ErrInvalidData,
      "holiday buffer too short (%d bytes, want 9)", len(value))
  }

  start, startOk := decodeHolidayStamp(value[0:4])
  end, endOk := decodeHolidayStamp(value[4:8])

  if !startOk || !endOk {
    return h, false, nil
  }

  return Holiday{
    Start:       start,
    End:         end,
    Temperature: float64(value[8]) / 2,
  }, true, nil
}

// EncodeHoliday builds the 9-byte holiday write buffer. A period with equal
// start and end, or a temperature the device would refuse, encodes to the
// all-zero buffer that clears the slot.
func EncodeHoliday(h Holiday) []byte {
  buf := make([]byte, 9)

  if h.Start.Equal(h.End) ||
     h.Temperature < minHolidayTemperature || h.Temperature >= maxHolidayTemperature {
    return buf
  }

  buf[0] = byte(h.Start.Hour())
  buf[1] = byte(h.Start.Day())
  buf[2] = byte(int(h.Start.Month()))
  buf[3] = byte(h.Start.Year() % 100)
  buf[4] = byte(h.End.Hour())
  buf[5] = byte(h.End.Day())
  buf[6] = byte(int(h.End.Month()))
  buf[7] = byte(h.End.Year() % 100)
  buf[8] = byte(int(h.Temperature * 2))

  return buf
}
