package collector

import (
  "context"
  "sync"
  "time"

  "github.com/rs/zerolog/log"
  "github.com/zero-udo/eurotronic-cometblue/cometblue"
)

// Recurring polls a set of thermostats on a fixed interval and keeps the
// latest readings around for scraping. The interval should be generous:
// every poll wakes the devices' radios and costs battery.
type Recurring struct {
  clients []*cometblue.Client
  attributes []string

  mu sync.Mutex
  readings map[string]map[string]any
  collectionTime time.Time
}

func NewRecurring(clients []*cometblue.Client, attributes []string) *Recurring {
  return &Recurring{
    clients: clients,
    attributes: attributes,
    readings: make(map[string]map[string]any),
  }
}

// Latest returns the most recent successful readings keyed by device name,
// together with the time they were collected.
func (r *Recurring) Latest() (map[string]map[string]any, time.Time) {
  r.mu.Lock()
  defer r.mu.Unlock()

  return r.readings, r.collectionTime
}

func (r *Recurring) update(results map[*cometblue.Client]Result) {
  // maps handed out by Latest are never written again; build a fresh one
  // carrying over the last good reading of devices that failed this round,
  // then swap it in.
  r.mu.Lock()
  defer r.mu.Unlock()

  readings := make(map[string]map[string]any, len(r.readings))

  for name, values := range r.readings {
    readings[name] = values
  }

  for client, result := range results {
    if result.Error != nil {
      log.Error().
        Stringer("Device", client).
        Err(result.Error).
        Msg("Failed to collect readings for device")

      continue
    }

    readings[client.Name()] = result.Values
  }

  r.readings = readings
  r.collectionTime = time.Now()
}

// Start collects immediately and then on every interval tick until the
// context is cancelled. It blocks; run it in its own goroutine.
func (r *Recurring) Start(ctx context.Context, interval time.Duration, options Options) {
  ticker := time.NewTicker(interval)
  defer ticker.Stop()

  for {
    results, err := CollectWithOptions(ctx, r.clients, r.attributes, options)

    if err != nil {
      log.Error().Err(err).Msg("Collection round failed")
    }

    r.update(results)

    select {
    case <-ctx.Done():
      return
    case <-ticker.C:
    }
  }
}
