package main

import (
  "flag"
  "fmt"
  "math"
  "os"
  "strconv"
  "strings"
  "time"

  "github.com/zero-udo/eurotronic-cometblue/ble"
  "github.com/zero-udo/eurotronic-cometblue/collector"
  "github.com/zero-udo/eurotronic-cometblue/cometblue"
)

type deviceConfig struct {
  Name string
  Addr string
  Pin uint32
}

func (d deviceConfig) String() string {
  return fmt.Sprintf("device[name=%q, addr=%v]", d.Name, d.Addr)
}

type config struct {
  Debug, Trace bool
  BindAddress string
  DiscoverDevices bool
  DiscoveryTimeout time.Duration
  BluetoothDeviceId int
  BluetoothConnParams ble.ConnParams
  Attributes []string
  SessionOptions cometblue.SessionOptions
  MaxRetries int
  CollectionTimeout time.Duration
  CollectionInterval time.Duration
  Backoff time.Duration
  SyncClock bool
  ManualTemp float64
  Devices []deviceConfig
}

type boundDeviceList struct {
  list *[]deviceConfig
}

func (d *boundDeviceList) String() string {
  return ""
}

// Set parses one `addr=XX:XX:XX:XX:XX:XX,pin=1234,name=livingroom` spec.
func (d *boundDeviceList) Set(v string) error {
  var dev deviceConfig

  for _, entry := range strings.Split(v, ",") {
    parts := strings.SplitN(entry, "=", 2)

    if len(parts) != 2 {
      return fmt.Errorf("invalid device spec entry %q, want key=value", entry)
    }

    key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

    switch key {
    case "addr":
      dev.Addr = value
    case "name":
      dev.Name = value
    case "pin":
      pin, err := strconv.ParseUint(value, 10, 32)

      if err != nil {
        return fmt.Errorf("invalid pin %q: %w", value, err)
      }

      dev.Pin = uint32(pin)
    default:
      return fmt.Errorf("unknown device spec key %q (supported: addr, pin, name)", key)
    }
  }

  if dev.Addr == "" {
    return fmt.Errorf("device spec %q is missing the addr key", v)
  }

  *d.list = append(*d.list, dev)

  return nil
}

func ParseArgs() config {
  var cfg config
  var attributes string

  cfg.BluetoothConnParams = ble.ConnParamsPowerSaving

  flag.Var(&boundDeviceList{&cfg.Devices}, "device",
    "Thermostat spec in the form `addr=XX:XX:XX:XX:XX:XX,pin=0,name=label`. Repeatable.")
  flag.StringVar(&attributes, "get", "temperature,battery",
    "Comma-separated attributes to read (temperature, battery, datetime, manual, "+
    "monday..sunday, weekdays, holiday1..holiday8, holidays)")
  flag.BoolVar(&cfg.DiscoverDevices, "discover", false, "Discover available thermostats and quit")
  flag.DurationVar(&cfg.DiscoveryTimeout, "discovery-timeout", 30 * time.Second,
    "Duration of the discovery scan")
  flag.StringVar(&cfg.BindAddress, "bind", "",
    "Serve Prometheus metrics on this address instead of exiting after one read")
  flag.IntVar(&cfg.BluetoothDeviceId, "bluetooth-device", 0, "Bluetooth (HCI) device ID")
  flag.Var(&cfg.BluetoothConnParams, "bluetooth-connection-params",
    "Bluetooth connection parameters (one of 'default' or 'power-saving')")
  flag.DurationVar(&cfg.SessionOptions.Timeout, "connect-timeout", cometblue.DefaultTimeout,
    "Initial per-attempt connection timeout; escalates up to twice this value")
  flag.DurationVar(&cfg.SessionOptions.TimeoutStep, "connect-timeout-step",
    cometblue.DefaultTimeoutStep, "Connection timeout increase after each failed attempt")
  flag.IntVar(&cfg.SessionOptions.MaxRetries, "connect-retries", cometblue.DefaultMaxRetries,
    "Max connection attempts per session")
  flag.IntVar(&cfg.MaxRetries, "max-retries", collector.DefaultMaxRetries,
    "Max number of collection retries per device")
  flag.DurationVar(&cfg.CollectionTimeout, "timeout", collector.DefaultTimeoutPerAttempt,
    "Timeout for one collection round (per retry attempt)")
  flag.DurationVar(&cfg.CollectionInterval, "interval", 300 * time.Second,
    "How frequently data collection happens in exporter mode")
  flag.DurationVar(&cfg.Backoff, "backoff", collector.DefaultBackoffFactor,
    "Exponential backoff factor for collection retries")
  flag.BoolVar(&cfg.SyncClock, "sync-clock", false,
    "Set each thermostat's clock to the current time before reading")
  flag.Float64Var(&cfg.ManualTemp, "set-manual-temp", math.NaN(),
    "Write this manual-mode temperature (°C, half-degree steps) before reading")
  flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logs")
  flag.BoolVar(&cfg.Trace, "trace", false, "Enable trace logs")

  flag.Parse()

  for _, name := range strings.Split(attributes, ",") {
    name = strings.TrimSpace(name)

    if name == "" {
      continue
    }

    if !cometblue.KnownAttribute(name) {
      fmt.Fprintf(os.Stderr, "Error: unknown attribute %q (supported: %v)\n",
        name, strings.Join(cometblue.Attributes(), ", "))
      os.Exit(1)
    }

    cfg.Attributes = append(cfg.Attributes, name)
  }

  if !cfg.DiscoverDevices && len(cfg.Devices) == 0 {
    fmt.Fprintln(os.Stderr, "Error: at least one -device is required!")
    flag.Usage()
    os.Exit(1)
  }

  return cfg
}
