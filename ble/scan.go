package ble

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/go-ble/ble"
  "github.com/rs/zerolog/log"
  "github.com/zero-udo/eurotronic-cometblue/protocol"
  "github.com/zero-udo/eurotronic-cometblue/utils"
  "golang.org/x/exp/maps"
)

func WrapContextWithSigHandler(ctx context.Context, cancel func()) context.Context {
  return ble.WithSigHandler(ctx, cancel)
}

// ScanAll performs an active scan and hands every advertisement to the
// callback until the context expires.
func (h *Handle) ScanAll(ctx context.Context, onDevice func(Advertisement)) error {
  err := h.dev.Scan(ctx, true, onDevice)

  if err != nil && !utils.ErrorIsAnyOf(err, context.Canceled, context.DeadlineExceeded) {
    return fmt.Errorf("failed to initiate scan: %w", err)
  }

  return nil
}

// DiscoveredDevice is one thermostat found during discovery.
type DiscoveredDevice struct {
  Addr string
  Name string
  Services []string
}

func (d DiscoveredDevice) String() string {
  return fmt.Sprintf("device[addr=%v, name=%q]", d.Addr, d.Name)
}

// DiscoverThermostats scans for the given duration and returns every device
// advertising the Comet Blue service. Advertisements for the same address
// are merged: the name usually arrives in a separate scan response.
func (h *Handle) DiscoverThermostats(ctx context.Context, timeout time.Duration) ([]DiscoveredDevice, error) {
  ctx, cancel := context.WithTimeout(ctx, timeout)
  defer cancel()

  found := make(map[string]DiscoveredDevice)

  err := h.ScanAll(ctx, func(a Advertisement) {
    services := make(map[string]bool)
    isThermostat := false

    for _, uuid := range a.Services() {
      services[uuid.String()] = true

      if uuid.Equal(protocol.ServiceUUID) {
        isThermostat = true
      }
    }

    addr := strings.ToLower(a.Addr().String())

    if dev, ok := found[addr]; ok {
      if dev.Name == "" {
        dev.Name = a.LocalName()
      }

      for _, uuid := range dev.Services {
        services[uuid] = true
      }

      dev.Services = maps.Keys(services)
      found[addr] = dev
    } else if isThermostat {
      log.Debug().
        Str("Addr", addr).
        Str("Name", a.LocalName()).
        Msg("ble: found thermostat")

      found[addr] = DiscoveredDevice{
        Addr: addr,
        Name: a.LocalName(),
        Services: maps.Keys(services),
      }
    }
  })

  return maps.Values(found), err
}
