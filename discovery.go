package main

import (
  "context"

  "github.com/rs/zerolog/log"

  "github.com/zero-udo/eurotronic-cometblue/ble"
)

func doDeviceDiscovery(cfg config, handle *ble.Handle) {
  log.Info().
    Dur("Timeout", cfg.DiscoveryTimeout).
    Msg("Starting in device discovery mode - scanning for thermostats...")

  ctx := ble.WrapContextWithSigHandler(context.WithCancel(context.Background()))

  devices, err := handle.DiscoverThermostats(ctx, cfg.DiscoveryTimeout)

  if err != nil {
    log.Fatal().Err(err).Msg("Failed to scan for thermostats")
  }

  log.Info().Int("Found", len(devices)).Msg("Finished device discovery")

  for _, dev := range devices {
    log.Info().
      Str("Addr", dev.Addr).
      Str("Name", dev.Name).
      Strs("Services", dev.Services).
      Msg("Found thermostat")
  }
}
