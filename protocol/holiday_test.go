package protocol_test

import (
  "reflect"
  "testing"
  "time"

  "github.com/zero-udo/eurotronic-cometblue/protocol"
)

func TestDecodeHoliday(t *testing.T) {
  value := []byte{18, 26, 12, 20, 14, 5, 1, 21, 33}

  got, ok, err := protocol.DecodeHoliday(value)

  if err != nil {
    t.Fatalf("DecodeHoliday(%v) got error: %v", value, err)
  }

  if !ok {
    t.Fatalf("DecodeHoliday(%v): got ok=false, wanted a holiday", value)
  }

  want := protocol.Holiday{
    Start: time.Date(2020, time.December, 26, 18, 0, 0, 0, time.Local),
    End: time.Date(2021, time.January, 5, 14, 0, 0, 0, time.Local),
    Temperature: 16.5,
  }

  if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) ||
     got.Temperature != want.Temperature {
    t.Fatalf("DecodeHoliday(%v): got %v, wanted %v", value, got, want)
  }
}

func TestDecodeHoliday_InvalidBuffer(t *testing.T) {
  for _, value := range [][]byte{
    {18, 35, 12, 20, 14, 5, 1, 21, 33}, // start day 35
    {25, 26, 12, 20, 14, 5, 1, 21, 33}, // start hour 25
    {18, 26, 13, 20, 14, 5, 1, 21, 33}, // start month 13
    {18, 26, 12, 20, 14, 0, 1, 21, 33}, // end day 0
    {18, 30, 2, 20, 14, 5, 3, 20, 33},  // start february 30th
    {18, 26, 12, 20, 14, 29, 2, 21, 33}, // end february 29th 2021 (not a leap year)
    {0, 0, 0, 0, 0, 0, 0, 0, 0},        // cleared slot
  } {
    _, ok, err := protocol.DecodeHoliday(value)

    if err != nil {
      t.Fatalf("DecodeHoliday(%v) got error: %v", value, err)
    }

    if ok {
      t.Fatalf("DecodeHoliday(%v): got a holiday, wanted empty", value)
    }
  }
}

func TestEncodeHoliday(t *testing.T) {
  h := protocol.Holiday{
    Start: time.Date(2020, time.December, 26, 18, 0, 0, 0, time.Local),
    End: time.Date(2021, time.January, 5, 14, 0, 0, 0, time.Local),
    Temperature: 16.5,
  }

  got := protocol.EncodeHoliday(h)
  want := []byte{18, 26, 12, 20, 14, 5, 1, 21, 33}

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("EncodeHoliday(%v): got %v, wanted %v", h, got, want)
  }
}

func TestEncodeHoliday_RejectsInvalidPeriods(t *testing.T) {
  stamp := time.Date(2021, time.January, 5, 14, 0, 0, 0, time.Local)

  holidays := []protocol.Holiday{
    {Start: stamp, End: stamp, Temperature: 16.5},                     // start == end
    {Start: stamp, End: stamp.Add(24 * time.Hour), Temperature: 30},   // temp too high
    {Start: stamp, End: stamp.Add(24 * time.Hour), Temperature: 29},   // 29 is excluded
    {Start: stamp, End: stamp.Add(24 * time.Hour), Temperature: 7.5},  // temp too low
  }

  for _, h := range holidays {
    got := protocol.EncodeHoliday(h)

    if !reflect.DeepEqual(got, make([]byte, 9)) {
      t.Fatalf("EncodeHoliday(%v): got %v, wanted all-zero buffer", h, got)
    }
  }
}
