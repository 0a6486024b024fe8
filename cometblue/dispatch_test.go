package cometblue_test

import (
  "context"
  "reflect"
  "sort"
  "testing"
  "time"

  "github.com/zero-udo/eurotronic-cometblue/cometblue"
  "github.com/zero-udo/eurotronic-cometblue/protocol"
)

func newTestClient(t *testing.T, transport *fakeTransport) *cometblue.Client {
  t.Helper()

  client, err := cometblue.NewClient("AA:BB:CC:DD:EE:FF", 0, transport, testOptions)

  if err != nil {
    t.Fatalf("NewClient got error: %v", err)
  }

  if err := client.Connect(context.Background()); err != nil {
    t.Fatalf("Connect got error: %v", err)
  }

  return client
}

func TestGetMultiple_WeekdaysExpansion(t *testing.T) {
  transport := newFakeTransport()

  for day := protocol.Monday; day <= protocol.Sunday; day++ {
    transport.values[day.UUID().String()] = []byte{36, 48, 0, 0, 0, 0, 0, 0}
  }

  client := newTestClient(t, transport)

  got, err := client.GetMultiple(context.Background(), []string{"weekdays"})

  if err != nil {
    t.Fatalf("GetMultiple got error: %v", err)
  }

  var keys []string
  for k := range got {
    keys = append(keys, k)
  }
  sort.Strings(keys)

  want := []string{"friday", "monday", "saturday", "sunday", "thursday", "tuesday", "wednesday"}

  if !reflect.DeepEqual(keys, want) {
    t.Fatalf("GetMultiple([weekdays]) keys: got %v, wanted %v", keys, want)
  }

  schedule, ok := got["monday"].(protocol.Schedule)

  if !ok || len(schedule) != 1 {
    t.Fatalf("monday: got %v, wanted a one-period schedule", got["monday"])
  }
}

func TestGetMultiple_HolidaysExpansionMergesDuplicates(t *testing.T) {
  transport := newFakeTransport()

  for slot := protocol.HolidaySlotMin; slot <= protocol.HolidaySlotMax; slot++ {
    uuid, _ := protocol.HolidayUUID(slot)
    transport.values[uuid.String()] = []byte{18, 26, 12, 20, 14, 5, 1, 21, 33}
  }

  client := newTestClient(t, transport)

  // holiday3 duplicates an entry of the holidays expansion; the merge must
  // leave exactly 8 operations.
  got, err := client.GetMultiple(context.Background(), []string{"holidays", "holiday3"})

  if err != nil {
    t.Fatalf("GetMultiple got error: %v", err)
  }

  if len(got) != 8 {
    t.Fatalf("GetMultiple([holidays, holiday3]): got %d values, wanted 8", len(got))
  }

  for _, key := range []string{"holiday1", "holiday3", "holiday8"} {
    if _, ok := got[key].(protocol.Holiday); !ok {
      t.Fatalf("%v: got %v, wanted a holiday", key, got[key])
    }
  }
}

func TestGetMultiple_IgnoresUnknownAttributes(t *testing.T) {
  transport := newFakeTransport()
  transport.values[protocol.CharacteristicBattery.String()] = []byte{95}

  client := newTestClient(t, transport)

  got, err := client.GetMultiple(context.Background(), []string{"battery", "bogus"})

  if err != nil {
    t.Fatalf("GetMultiple got error: %v", err)
  }

  if len(got) != 1 {
    t.Fatalf("GetMultiple([battery, bogus]): got %v, wanted only battery", got)
  }

  if battery, ok := got["battery"].(uint8); !ok || battery != 95 {
    t.Fatalf("battery: got %v, wanted 95", got["battery"])
  }
}

func TestGetMultiple_OmitsAbsentValues(t *testing.T) {
  transport := newFakeTransport()
  // unconfigured holiday slot and a garbage datetime.
  uuid, _ := protocol.HolidayUUID(1)
  transport.values[uuid.String()] = make([]byte, 9)
  transport.values[protocol.CharacteristicDateTime.String()] = []byte{0, 0, 0, 0, 0}

  client := newTestClient(t, transport)

  got, err := client.GetMultiple(context.Background(), []string{"holiday1", "datetime"})

  if err != nil {
    t.Fatalf("GetMultiple got error: %v", err)
  }

  if len(got) != 0 {
    t.Fatalf("GetMultiple: got %v, wanted no values", got)
  }
}

func TestGetMultiple_MixedAttributes(t *testing.T) {
  transport := newFakeTransport()
  transport.values[protocol.CharacteristicTemperature.String()] = []byte{43, 32, 16, 56, 0, 0xF0, 10}
  transport.values[protocol.CharacteristicBattery.String()] = []byte{42}
  transport.values[protocol.CharacteristicSettings.String()] = []byte{0x01, 0, 0}
  transport.values[protocol.CharacteristicDateTime.String()] = protocol.EncodeDateTime(
    time.Date(2021, time.June, 1, 12, 0, 0, 0, time.Local))

  client := newTestClient(t, transport)

  got, err := client.GetMultiple(context.Background(),
    []string{"temperature", "battery", "manual", "datetime"})

  if err != nil {
    t.Fatalf("GetMultiple got error: %v", err)
  }

  if len(got) != 4 {
    t.Fatalf("GetMultiple: got %d values, wanted 4", len(got))
  }

  if manual, ok := got["manual"].(bool); !ok || !manual {
    t.Fatalf("manual: got %v, wanted true", got["manual"])
  }

  temperature, ok := got["temperature"].(protocol.Temperature)

  if !ok || temperature.Current == nil || *temperature.Current != 21.5 {
    t.Fatalf("temperature: got %v", got["temperature"])
  }

  if !temperature.WindowOpen {
    t.Fatal("temperature.WindowOpen: got false, wanted true")
  }
}

func TestKnownAttribute(t *testing.T) {
  for _, name := range cometblue.Attributes() {
    if !cometblue.KnownAttribute(name) {
      t.Fatalf("KnownAttribute(%q): got false", name)
    }
  }

  for _, name := range []string{"", "holiday0", "holiday9", "mondays", "Temperature"} {
    if cometblue.KnownAttribute(name) {
      t.Fatalf("KnownAttribute(%q): got true", name)
    }
  }
}
