package main

import (
  "context"
  "fmt"
  "math"
  "net/http"
  "os"
  "time"

  "github.com/prometheus/client_golang/prometheus"
  "github.com/prometheus/client_golang/prometheus/promhttp"
  "github.com/rs/zerolog"
  "github.com/rs/zerolog/log"
  "github.com/zero-udo/eurotronic-cometblue/ble"
  "github.com/zero-udo/eurotronic-cometblue/collector"
  "github.com/zero-udo/eurotronic-cometblue/cometblue"
  "github.com/zero-udo/eurotronic-cometblue/metrics"
  "github.com/zero-udo/eurotronic-cometblue/protocol"
  "github.com/zero-udo/eurotronic-cometblue/utils"
)

func main() {
  zerolog.DurationFieldUnit = time.Second
  zerolog.TimeFieldFormat = time.RFC3339Nano

  log.Logger = log.Output(zerolog.ConsoleWriter{
    Out: os.Stderr,
    TimeFormat: "15:04:05.000",
  })

  cfg := ParseArgs()

  if cfg.Trace || os.Getenv("TRACE") != "" {
      zerolog.SetGlobalLevel(zerolog.TraceLevel)
  } else if cfg.Debug || os.Getenv("DEBUG") != "" {
      zerolog.SetGlobalLevel(zerolog.DebugLevel)
  } else {
      zerolog.SetGlobalLevel(zerolog.InfoLevel)
  }

  bleHandle, err := ble.Init(cfg.BluetoothDeviceId, cfg.BluetoothConnParams)

  if err != nil {
    log.Fatal().Err(err).Msg("Failed to initialize Bluetooth device")
  }

  defer bleHandle.Stop()

  if cfg.DiscoverDevices {
    doDeviceDiscovery(cfg, bleHandle)
    return
  }

  clients := buildClients(cfg, bleHandle)

  log.Info().
    Array("Devices", utils.ToZeroLogArray(clients)).
    Strs("Attributes", cfg.Attributes).
    Msg("Starting with the specified configuration")

  applyWrites(cfg, clients)

  options := collector.Options{
    MaxRetries: cfg.MaxRetries,
    TimeoutPerAttempt: cfg.CollectionTimeout,
    BackoffFactor: cfg.Backoff,
  }

  if cfg.BindAddress == "" {
    oneShot(clients, cfg.Attributes, options)
    return
  }

  runExporter(cfg, clients, options)
}

func buildClients(cfg config, bleHandle *ble.Handle) []*cometblue.Client {
  clients := make([]*cometblue.Client, 0, len(cfg.Devices))

  for _, dev := range cfg.Devices {
    client, err := cometblue.NewClient(
      dev.Addr,
      dev.Pin,
      bleHandle.NewConnection(dev.Addr),
      cfg.SessionOptions,
    )

    if err != nil {
      log.Fatal().Err(err).Str("Addr", dev.Addr).Msg("Invalid device configuration")
    }

    client.SetName(dev.Name)
    clients = append(clients, client)
  }

  return clients
}

// applyWrites pushes the requested configuration changes before any read.
// Each device gets its own short session; the thermostat applies writes
// when the session closes.
func applyWrites(cfg config, clients []*cometblue.Client) {
  syncClock := cfg.SyncClock
  setManualTemp := !math.IsNaN(cfg.ManualTemp)

  if !syncClock && !setManualTemp {
    return
  }

  ctx := context.Background()

  for _, client := range clients {
    if err := client.Connect(ctx); err != nil {
      log.Fatal().Err(err).Stringer("Device", client).Msg("Failed to connect for writing")
    }

    if syncClock {
      if err := client.SetDateTime(ctx, time.Time{}); err != nil {
        log.Fatal().Err(err).Stringer("Device", client).Msg("Failed to sync clock")
      }

      log.Info().Stringer("Device", client).Msg("Synchronized device clock")
    }

    if setManualTemp {
      update := protocol.TemperatureUpdate{Manual: &cfg.ManualTemp}

      if err := client.SetTemperature(ctx, update); err != nil {
        log.Fatal().Err(err).Stringer("Device", client).Msg("Failed to set manual temperature")
      }

      log.Info().
        Stringer("Device", client).
        Float64("ManualTemp", cfg.ManualTemp).
        Msg("Set manual temperature")
    }

    if err := client.Disconnect(); err != nil {
      log.Error().Err(err).Stringer("Device", client).Msg("Failed to disconnect after writing")
    }
  }
}

func oneShot(clients []*cometblue.Client, attributes []string, options collector.Options) {
  results, err := collector.CollectWithOptions(
    context.Background(),
    clients,
    attributes,
    options,
  )

  if err != nil {
    log.Fatal().Err(err).Msg("Collection failed")
  }

  hasError := false

  for client, result := range results {
    if result.Error != nil {
      hasError = true

      log.Error().
        Stringer("Device", client).
        Err(result.Error).
        Msg("Failed to collect readings for device")

      continue
    }

    event := log.Info().Stringer("Device", client)

    for attribute, value := range result.Values {
      event = event.Str(attribute, fmt.Sprintf("%v", value))
    }

    event.Msg("Readings")
  }

  if hasError {
    os.Exit(1)
  }
}

func runExporter(cfg config, clients []*cometblue.Client, options collector.Options) {
  coll := collector.NewRecurring(clients, cfg.Attributes)

  registry := prometheus.NewRegistry()

  ble.RegisterMetrics(registry)
  metrics.RegisterCollector(coll.Latest, registry)

  go coll.Start(context.Background(), cfg.CollectionInterval, options)

  log.Info().
      Str("ListenAddress", cfg.BindAddress).
      Msg("Starting Prometheus server")

  http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

  if err := http.ListenAndServe(cfg.BindAddress, nil); err != nil {
      log.Fatal().Err(err).Msg("Unable to bind on requested address")
  }
}
