package ble

import (
  "context"
  "time"

  "github.com/go-ble/ble"
  "github.com/pkg/errors"
  "github.com/prometheus/client_golang/prometheus"
  "github.com/rs/zerolog/log"
)

var (
  successfulConnectionsCounter = prometheus.NewCounter(prometheus.CounterOpts{
    Name: "cometblue_ble_successful_connections_total",
  })
  failedConnectionsCounter = prometheus.NewCounter(prometheus.CounterOpts{
    Name: "cometblue_ble_failed_connections_total",
  })
  disconnectsCounter = prometheus.NewCounter(prometheus.CounterOpts{
    Name: "cometblue_ble_disconnections_total",
  })
  characteristicReadsCounter = prometheus.NewCounter(prometheus.CounterOpts{
    Name: "cometblue_ble_characteristic_reads_total",
  })
  characteristicWritesCounter = prometheus.NewCounter(prometheus.CounterOpts{
    Name: "cometblue_ble_characteristic_writes_total",
  })
)

var ErrUnknownCharacteristic = errors.New("characteristic not present on device")

// Connection is one radio link to a thermostat, implementing the transport
// capability consumed by cometblue.Session. The GATT profile is discovered
// once per connect; characteristics are addressed by UUID afterwards.
type Connection struct {
  addr string
  client ble.Client
  chars map[string]*ble.Characteristic
}

func (h *Handle) NewConnection(addr string) *Connection {
  return &Connection{addr: addr}
}

func (c *Connection) Connect(ctx context.Context, timeout time.Duration) error {
  ctx, cancel := context.WithTimeout(ctx, timeout)
  defer cancel()

  client, err := ble.Dial(ctx, ble.NewAddr(c.addr))

  if err != nil {
    failedConnectionsCounter.Inc()
    return errors.Wrapf(err, "failed to connect to %v", c.addr)
  }

  profile, err := client.DiscoverProfile(true)

  if err != nil {
    failedConnectionsCounter.Inc()
    client.CancelConnection()

    return errors.Wrapf(err, "failed to discover profile of %v", c.addr)
  }

  chars := make(map[string]*ble.Characteristic)

  for _, svc := range profile.Services {
    for _, char := range svc.Characteristics {
      chars[char.UUID.String()] = char
    }
  }

  c.client = client
  c.chars = chars

  successfulConnectionsCounter.Inc()
  log.Debug().
    Str("Addr", c.addr).
    Int("Characteristics", len(chars)).
    Msg("ble: connected and discovered profile")

  // the peripheral drops the link on its own when it idles too long
  go func() {
    <-client.Disconnected()

    disconnectsCounter.Inc()
    log.Debug().Str("Addr", c.addr).Msg("ble: connection with device closed")
  }()

  return nil
}

func (c *Connection) Disconnect() error {
  if c.client == nil {
    return nil
  }

  err := c.client.CancelConnection()
  c.client = nil
  c.chars = nil

  return err
}

func (c *Connection) characteristic(u ble.UUID) (*ble.Characteristic, error) {
  if c.client == nil {
    return nil, errors.New("not connected")
  }

  char, ok := c.chars[u.String()]

  if !ok {
    return nil, errors.Wrapf(ErrUnknownCharacteristic, "%v", u)
  }

  return char, nil
}

func (c *Connection) Read(ctx context.Context, u ble.UUID) ([]byte, error) {
  char, err := c.characteristic(u)

  if err != nil {
    return nil, err
  }

  characteristicReadsCounter.Inc()

  value, err := c.client.ReadCharacteristic(char)

  if err != nil {
    return nil, errors.Wrapf(err, "failed to read characteristic %v", u)
  }

  return value, nil
}

func (c *Connection) Write(ctx context.Context, u ble.UUID, value []byte) error {
  char, err := c.characteristic(u)

  if err != nil {
    return err
  }

  characteristicWritesCounter.Inc()

  // noRsp=false: every write requires an acknowledgment before returning.
  if err := c.client.WriteCharacteristic(char, value, false); err != nil {
    return errors.Wrapf(err, "failed to write characteristic %v", u)
  }

  return nil
}
