package protocol_test

import (
  "errors"
  "reflect"
  "testing"
  "time"

  "github.com/zero-udo/eurotronic-cometblue/protocol"
)

func TestEncodePin_Zero(t *testing.T) {
  got, err := protocol.EncodePin(0)

  if err != nil {
    t.Fatalf("EncodePin(0) got error: %v", err)
  }

  if want := []byte{0x00, 0x00, 0x00, 0x00}; !reflect.DeepEqual(got, want) {
    t.Fatalf("EncodePin(0): got %v, wanted %v", got, want)
  }
}

func TestEncodePin_LittleEndian(t *testing.T) {
  got, err := protocol.EncodePin(123456)

  if err != nil {
    t.Fatalf("EncodePin(123456) got error: %v", err)
  }

  if want := []byte{0x40, 0xE2, 0x01, 0x00}; !reflect.DeepEqual(got, want) {
    t.Fatalf("EncodePin(123456): got %v, wanted %v", got, want)
  }
}

func TestEncodePin_OutOfRange(t *testing.T) {
  _, err := protocol.EncodePin(100000000)

  if !errors.Is(err, protocol.ErrPinOutOfRange) {
    t.Fatalf("EncodePin(100000000): got %v, wanted ErrPinOutOfRange", err)
  }
}

func TestDecodeTemperature(t *testing.T) {
  // current 21.5, manual 16.0, low 8.0, high 28.0, offset -1.0 (0xFE),
  // window open, open for 10 minutes.
  value := []byte{43, 32, 16, 56, 0xFE, 0xF0, 10}

  got, err := protocol.DecodeTemperature(value)

  if err != nil {
    t.Fatalf("DecodeTemperature(%v) got error: %v", value, err)
  }

  checkTemp := func(name string, got *float64, want float64) {
    t.Helper()

    if got == nil {
      t.Fatalf("%v: got nil, wanted %v", name, want)
    }

    if *got != want {
      t.Fatalf("%v: got %v, wanted %v", name, *got, want)
    }
  }

  checkTemp("Current", got.Current, 21.5)
  checkTemp("Manual", got.Manual, 16.0)
  checkTemp("TargetLow", got.TargetLow, 8.0)
  checkTemp("TargetHigh", got.TargetHigh, 28.0)
  checkTemp("Offset", got.Offset, -1.0)

  if !got.WindowOpen {
    t.Fatal("WindowOpen: got false, wanted true")
  }

  if got.WindowOpenMinutes == nil || *got.WindowOpenMinutes != 10 {
    t.Fatalf("WindowOpenMinutes: got %v, wanted 10", got.WindowOpenMinutes)
  }
}

func TestDecodeTemperature_DropsImplausibleFields(t *testing.T) {
  // byte 1 decodes to 60°C, which no radiator thermostat reports. The rest
  // of the buffer is fine and must survive.
  value := []byte{43, 120, 16, 56, 0, 0x00, 0}

  got, err := protocol.DecodeTemperature(value)

  if err != nil {
    t.Fatalf("DecodeTemperature(%v) got error: %v", value, err)
  }

  if got.Manual != nil {
    t.Fatalf("Manual: got %v, wanted nil (dropped)", *got.Manual)
  }

  if got.Current == nil || *got.Current != 21.5 {
    t.Fatalf("Current: got %v, wanted 21.5", got.Current)
  }

  if got.TargetLow == nil || got.TargetHigh == nil || got.Offset == nil {
    t.Fatal("expected remaining fields to be retained")
  }
}

func TestDecodeTemperature_TooShort(t *testing.T) {
  if _, err := protocol.DecodeTemperature([]byte{1, 2, 3}); !errors.Is(err, protocol.ErrInvalidData) {
    t.Fatalf("got %v, wanted ErrInvalidData", err)
  }
}

func float64Ptr(v float64) *float64 {
  return &v
}

func TestEncodeTemperature_Sparse(t *testing.T) {
  got := protocol.EncodeTemperature(protocol.TemperatureUpdate{
    Manual: float64Ptr(8.0),
  })

  want := []byte{0xFF, 16, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("EncodeTemperature: got %v, wanted %v", got, want)
  }
}

func TestEncodeTemperature_AllFields(t *testing.T) {
  got := protocol.EncodeTemperature(protocol.TemperatureUpdate{
    Manual: float64Ptr(21.5),
    TargetLow: float64Ptr(16.0),
    TargetHigh: float64Ptr(24.0),
    Offset: float64Ptr(-2.0),
  })

  want := []byte{0xFF, 43, 32, 48, 252, 0xFF, 0xFF}

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("EncodeTemperature: got %v, wanted %v", got, want)
  }
}

func TestDecodeDateTime(t *testing.T) {
  value := []byte{30, 14, 26, 12, 20}

  got, err := protocol.DecodeDateTime(value)

  if err != nil {
    t.Fatalf("DecodeDateTime(%v) got error: %v", value, err)
  }

  want := time.Date(2020, time.December, 26, 14, 30, 0, 0, time.Local)

  if !got.Equal(want) {
    t.Fatalf("DecodeDateTime(%v): got %v, wanted %v", value, got, want)
  }
}

func TestDecodeDateTime_InvalidCalendarDate(t *testing.T) {
  for _, value := range [][]byte{
    {0, 12, 30, 2, 21},  // Feb 30
    {0, 12, 1, 13, 21},  // month 13
    {61, 12, 1, 12, 21}, // minute 61
    {0, 25, 1, 12, 21},  // hour 25
  } {
    if _, err := protocol.DecodeDateTime(value); !errors.Is(err, protocol.ErrInvalidData) {
      t.Fatalf("DecodeDateTime(%v): got %v, wanted ErrInvalidData", value, err)
    }
  }
}

func TestEncodeDateTime(t *testing.T) {
  got := protocol.EncodeDateTime(time.Date(2020, time.December, 26, 14, 30, 0, 0, time.Local))

  want := []byte{30, 14, 26, 12, 20}

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("EncodeDateTime: got %v, wanted %v", got, want)
  }
}

func TestManualModeRoundTrip(t *testing.T) {
  for _, enabled := range []bool{true, false} {
    encoded := protocol.EncodeManualMode(enabled)

    if len(encoded) != 3 || encoded[1] != 0xFF || encoded[2] != 0xFF {
      t.Fatalf("EncodeManualMode(%v): got %v, wanted sentinel tail", enabled, encoded)
    }

    got, err := protocol.DecodeManualMode(encoded)

    if err != nil {
      t.Fatalf("DecodeManualMode(%v) got error: %v", encoded, err)
    }

    if got != enabled {
      t.Fatalf("DecodeManualMode(EncodeManualMode(%v)): got %v", enabled, got)
    }
  }
}

func TestDecodeBattery(t *testing.T) {
  got, err := protocol.DecodeBattery([]byte{87})

  if err != nil {
    t.Fatalf("DecodeBattery got error: %v", err)
  }

  if got != 87 {
    t.Fatalf("DecodeBattery: got %v, wanted 87", got)
  }
}
