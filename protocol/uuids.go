package protocol

import (
  "fmt"

  "github.com/go-ble/ble"
)

// GATT table of the Comet Blue (and rebranded Eurotronic/Sygonix/Xavax)
// radiator thermostats. The device refuses every characteristic until the
// PIN characteristic has been written for the current connection.
var (
  ServiceUUID = ble.MustParse("47e9ee00-47e9-11e4-8939-164230d1df67")

  CharacteristicDateTime    = ble.MustParse("47e9ee01-47e9-11e4-8939-164230d1df67")
  CharacteristicSettings    = ble.MustParse("47e9ee2a-47e9-11e4-8939-164230d1df67")
  CharacteristicTemperature = ble.MustParse("47e9ee2b-47e9-11e4-8939-164230d1df67")
  CharacteristicBattery     = ble.MustParse("47e9ee2c-47e9-11e4-8939-164230d1df67")
  CharacteristicPin         = ble.MustParse("47e9ee30-47e9-11e4-8939-164230d1df67")
)

var weekdayUUIDs = []ble.UUID{
  ble.MustParse("47e9ee10-47e9-11e4-8939-164230d1df67"), // monday
  ble.MustParse("47e9ee11-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee12-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee13-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee14-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee15-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee16-47e9-11e4-8939-164230d1df67"), // sunday
}

var holidayUUIDs = []ble.UUID{
  ble.MustParse("47e9ee20-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee21-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee22-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee23-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee24-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee25-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee26-47e9-11e4-8939-164230d1df67"),
  ble.MustParse("47e9ee27-47e9-11e4-8939-164230d1df67"),
}

type Weekday uint8

const (
  Monday Weekday = iota + 1
  Tuesday
  Wednesday
  Thursday
  Friday
  Saturday
  Sunday
)

var weekdayNames = []string{
  "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func (w Weekday) String() string {
  if w < Monday || w > Sunday {
    return fmt.Sprintf("weekday(%d)", uint8(w))
  }

  return weekdayNames[w-1]
}

func (w Weekday) UUID() ble.UUID {
  if w < Monday || w > Sunday {
    panic("invalid weekday: " + w.String())
  }

  return weekdayUUIDs[w-1]
}

// ParseWeekday maps a lowercase english weekday name to its Weekday value.
func ParseWeekday(name string) (Weekday, bool) {
  for i, n := range weekdayNames {
    if n == name {
      return Weekday(i + 1), true
    }
  }

  return 0, false
}

const (
  HolidaySlotMin = 1
  HolidaySlotMax = 8
)

// HolidayUUID returns the characteristic of holiday slot 1-8.
func HolidayUUID(slot int) (ble.UUID, error) {
  if slot < HolidaySlotMin || slot > HolidaySlotMax {
    return nil, fmt.Errorf("holiday slot %d out of range [%d, %d]",
      slot, HolidaySlotMin, HolidaySlotMax)
  }

  return holidayUUIDs[slot-1], nil
}
