package cometblue

import (
  "context"
  "fmt"
  "regexp"
  "runtime"
  "strings"
  "time"

  "github.com/pkg/errors"
  "github.com/rs/zerolog/log"
  "github.com/zero-udo/eurotronic-cometblue/protocol"
)

var (
  macRegex = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)
  uuidRegex = regexp.MustCompile(
    `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// ValidateIdentifier checks a device identifier before any I/O happens.
// Most platforms address peripherals by MAC; darwin anonymizes BLE
// addresses and hands out UUIDs instead.
func ValidateIdentifier(id string) error {
  if runtime.GOOS == "darwin" {
    if !uuidRegex.MatchString(id) {
      return fmt.Errorf(
        "device identifier %q must be a UUID in the format XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX",
        id)
    }

    return nil
  }

  if !macRegex.MatchString(id) {
    return fmt.Errorf(
      "device identifier %q must be a Bluetooth address in the format XX:XX:XX:XX:XX:XX", id)
  }

  return nil
}

// Client exposes the thermostat's configuration and state as typed
// operations on top of a Session. Nothing is cached: every getter reads the
// physical device, every setter writes it.
type Client struct {
  name string
  addr string
  session *Session
}

// NewClient validates the identifier and PIN and prepares a session over
// the given transport. No connection is attempted yet.
func NewClient(addr string, pin uint32, t Transport, opts SessionOptions) (*Client, error) {
  if err := ValidateIdentifier(addr); err != nil {
    return nil, err
  }

  session, err := NewSession(t, pin, opts)

  if err != nil {
    return nil, err
  }

  return &Client{
    name: "cometblue-" + strings.ToLower(strings.ReplaceAll(addr, ":", "")),
    addr: addr,
    session: session,
  }, nil
}

// SetName overrides the generated device name used in logs and metrics.
func (c *Client) SetName(name string) {
  if name != "" {
    c.name = name
  }
}

func (c *Client) Name() string {
  return c.name
}

func (c *Client) Addr() string {
  return c.addr
}

func (c *Client) String() string {
  return fmt.Sprintf("cometblue[name=%q, addr=%v]", c.name, c.addr)
}

// Connect opens the session (transport connect plus PIN handshake).
func (c *Client) Connect(ctx context.Context) error {
  return c.session.Open(ctx)
}

// Disconnect closes the session. The device applies pending writes when the
// link drops.
func (c *Client) Disconnect() error {
  return c.session.Close()
}

// GetTemperature reads the temperature configuration block.
func (c *Client) GetTemperature(ctx context.Context) (protocol.Temperature, error) {
  value, err := c.session.Read(ctx, protocol.CharacteristicTemperature)

  if err != nil {
    return protocol.Temperature{}, errors.Wrap(err, "failed to read temperature")
  }

  return protocol.DecodeTemperature(value)
}

// SetTemperature writes a sparse temperature update; nil fields are left
// untouched on the device.
func (c *Client) SetTemperature(ctx context.Context, u protocol.TemperatureUpdate) error {
  return c.session.Write(ctx, protocol.CharacteristicTemperature, protocol.EncodeTemperature(u))
}

// GetBattery reads the battery level in percent.
func (c *Client) GetBattery(ctx context.Context) (uint8, error) {
  value, err := c.session.Read(ctx, protocol.CharacteristicBattery)

  if err != nil {
    return 0, errors.Wrap(err, "failed to read battery")
  }

  return protocol.DecodeBattery(value)
}

// GetDateTime reads the device clock. Some firmware returns garbage here;
// an undecodable value yields the zero time.Time, not an error.
func (c *Client) GetDateTime(ctx context.Context) (time.Time, error) {
  value, err := c.session.Read(ctx, protocol.CharacteristicDateTime)

  if err != nil {
    return time.Time{}, errors.Wrap(err, "failed to read datetime")
  }

  t, err := protocol.DecodeDateTime(value)

  if err != nil {
    log.Warn().Err(err).Stringer("Device", c).Msg("cometblue: device returned invalid datetime")
    return time.Time{}, nil
  }

  return t, nil
}

// SetDateTime sets the device clock, defaulting to the current time when t
// is the zero value. Schedules depend on the clock being right.
func (c *Client) SetDateTime(ctx context.Context, t time.Time) error {
  if t.IsZero() {
    t = time.Now()
  }

  return c.session.Write(ctx, protocol.CharacteristicDateTime, protocol.EncodeDateTime(t))
}

// GetWeekday reads the heating periods programmed for one weekday.
func (c *Client) GetWeekday(ctx context.Context, day protocol.Weekday) (protocol.Schedule, error) {
  value, err := c.session.Read(ctx, day.UUID())

  if err != nil {
    return nil, errors.Wrapf(err, "failed to read schedule for %v", day)
  }

  return protocol.DecodeSchedule(value)
}

// SetWeekday programs the heating periods for one weekday. Degenerate
// periods are dropped and the rest packed into the earliest slots.
func (c *Client) SetWeekday(ctx context.Context, day protocol.Weekday, s protocol.Schedule) error {
  return c.session.Write(ctx, day.UUID(), protocol.EncodeSchedule(s))
}

// SetWeekdays programs several weekdays in one session. Nil schedules clear
// the day's slots.
func (c *Client) SetWeekdays(ctx context.Context, schedules map[protocol.Weekday]protocol.Schedule) error {
  for day := protocol.Monday; day <= protocol.Sunday; day++ {
    s, ok := schedules[day]

    if !ok {
      continue
    }

    if err := c.SetWeekday(ctx, day, s); err != nil {
      return err
    }
  }

  return nil
}

// GetHoliday reads holiday slot 1-8. An unconfigured slot returns ok=false.
func (c *Client) GetHoliday(ctx context.Context, slot int) (protocol.Holiday, bool, error) {
  uuid, err := protocol.HolidayUUID(slot)

  if err != nil {
    return protocol.Holiday{}, false, err
  }

  value, err := c.session.Read(ctx, uuid)

  if err != nil {
    return protocol.Holiday{}, false, errors.Wrapf(err, "failed to read holiday %d", slot)
  }

  return protocol.DecodeHoliday(value)
}

// SetHoliday writes holiday slot 1-8. An invalid period (equal start/end or
// a temperature the device refuses) clears the slot instead of failing; the
// rejection is logged.
func (c *Client) SetHoliday(ctx context.Context, slot int, h protocol.Holiday) error {
  uuid, err := protocol.HolidayUUID(slot)

  if err != nil {
    return err
  }

  value := protocol.EncodeHoliday(h)

  if h != (protocol.Holiday{}) && value[8] == 0 {
    log.Warn().
      Stringer("Device", c).
      Int("Slot", slot).
      Stringer("Holiday", h).
      Msg("cometblue: invalid holiday period, clearing slot instead")
  }

  return c.session.Write(ctx, uuid, value)
}

// GetManualMode reads whether manual mode is enabled.
func (c *Client) GetManualMode(ctx context.Context) (bool, error) {
  value, err := c.session.Read(ctx, protocol.CharacteristicSettings)

  if err != nil {
    return false, errors.Wrap(err, "failed to read settings")
  }

  return protocol.DecodeManualMode(value)
}

// SetManualMode enables or disables manual mode.
func (c *Client) SetManualMode(ctx context.Context, enabled bool) error {
  return c.session.Write(ctx, protocol.CharacteristicSettings, protocol.EncodeManualMode(enabled))
}
