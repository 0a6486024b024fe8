package protocol_test

import (
  "testing"

  "github.com/go-ble/ble"
  "github.com/zero-udo/eurotronic-cometblue/protocol"
)

func TestWeekdayUUID(t *testing.T) {
  monday := ble.MustParse("47e9ee10-47e9-11e4-8939-164230d1df67")
  sunday := ble.MustParse("47e9ee16-47e9-11e4-8939-164230d1df67")

  if got := protocol.Monday.UUID(); !got.Equal(monday) {
    t.Fatalf("Monday.UUID(): got %v, wanted %v", got, monday)
  }

  if got := protocol.Sunday.UUID(); !got.Equal(sunday) {
    t.Fatalf("Sunday.UUID(): got %v, wanted %v", got, sunday)
  }

  seen := make(map[string]protocol.Weekday)

  for day := protocol.Monday; day <= protocol.Sunday; day++ {
    u := day.UUID()

    if prev, dup := seen[u.String()]; dup {
      t.Fatalf("%v and %v share characteristic %v", prev, day, u)
    }

    seen[u.String()] = day
  }
}

func TestHolidayUUID(t *testing.T) {
  first := ble.MustParse("47e9ee20-47e9-11e4-8939-164230d1df67")
  last := ble.MustParse("47e9ee27-47e9-11e4-8939-164230d1df67")

  got, err := protocol.HolidayUUID(protocol.HolidaySlotMin)

  if err != nil {
    t.Fatalf("HolidayUUID(1) got error: %v", err)
  }

  if !got.Equal(first) {
    t.Fatalf("HolidayUUID(1): got %v, wanted %v", got, first)
  }

  got, err = protocol.HolidayUUID(protocol.HolidaySlotMax)

  if err != nil {
    t.Fatalf("HolidayUUID(8) got error: %v", err)
  }

  if !got.Equal(last) {
    t.Fatalf("HolidayUUID(8): got %v, wanted %v", got, last)
  }

  for _, slot := range []int{0, 9} {
    if _, err := protocol.HolidayUUID(slot); err == nil {
      t.Fatalf("HolidayUUID(%d): expected an error", slot)
    }
  }
}

func TestParseWeekday(t *testing.T) {
  for day := protocol.Monday; day <= protocol.Sunday; day++ {
    got, ok := protocol.ParseWeekday(day.String())

    if !ok || got != day {
      t.Fatalf("ParseWeekday(%q): got (%v, %v), wanted (%v, true)",
        day.String(), got, ok, day)
    }
  }

  if _, ok := protocol.ParseWeekday("caturday"); ok {
    t.Fatal("ParseWeekday(\"caturday\"): expected ok=false")
  }
}
