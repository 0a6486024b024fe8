package collector

import (
  "context"
  "fmt"
  "time"

  "github.com/rs/zerolog/log"
  "github.com/zero-udo/eurotronic-cometblue/cometblue"
  "github.com/zero-udo/eurotronic-cometblue/utils"
  "golang.org/x/sync/errgroup"
)

const (
  DefaultMaxRetries = 2
  DefaultTimeoutPerAttempt = 30 * time.Second
  DefaultBackoffFactor = 500 * time.Millisecond
)

type Options struct {
  MaxRetries int
  TimeoutPerAttempt time.Duration
  BackoffFactor time.Duration

  attempt int
}

// Result holds the attribute values read from one thermostat, keyed by
// expanded attribute name.
type Result struct {
  Values map[string]any
  Error error
}

func (r Result) String() string {
  if r.Error != nil {
    return fmt.Sprintf("result:error(%v)", r.Error)
  }

  return fmt.Sprintf("result:success(%d values)", len(r.Values))
}

func collectOne(
  ctx context.Context,
  client *cometblue.Client,
  attributes []string,
) (map[string]any, error) {
  if err := client.Connect(ctx); err != nil {
    return nil, fmt.Errorf("failed to open session: %w", err)
  }

  defer func() {
    if err := client.Disconnect(); err != nil {
      log.Debug().Err(err).Stringer("Device", client).Msg("collector: disconnect failed")
    }
  }()

  values, err := client.GetMultiple(ctx, attributes)

  if err != nil {
    return values, fmt.Errorf("failed to read attributes: %w", err)
  }

  return values, nil
}

func Collect(
  ctx context.Context,
  clients []*cometblue.Client,
  attributes []string,
) (map[*cometblue.Client]Result, error) {
  return CollectWithOptions(ctx, clients, attributes, Options{
    MaxRetries: DefaultMaxRetries,
    TimeoutPerAttempt: DefaultTimeoutPerAttempt,
    BackoffFactor: DefaultBackoffFactor,
  })
}

// CollectWithOptions reads the requested attributes from every thermostat,
// one session per device, all devices in parallel. Devices that fail are
// retried with exponential backoff until MaxRetries is exhausted; their
// last error is kept in the result map.
func CollectWithOptions(
  parentCtx context.Context,
  clients []*cometblue.Client,
  attributes []string,
  options Options,
) (out map[*cometblue.Client]Result, err error) {
  out = make(map[*cometblue.Client]Result, len(clients))

  log.Debug().
    Array("Devices", utils.ToZeroLogArray(clients)).
    Strs("Attributes", attributes).
    Msg("Collecting readings from thermostats")

  var ctx context.Context
  var cancel func()

  if options.TimeoutPerAttempt > 0 {
    ctx, cancel = context.WithTimeout(parentCtx, options.TimeoutPerAttempt)
  } else {
    ctx, cancel = context.WithCancel(parentCtx)
  }

  defer cancel()

  type deviceResult struct {
    client *cometblue.Client
    result Result
  }

  var eg errgroup.Group
  resultCh := make(chan deviceResult)

  for _, client := range clients {
    client := client

    eg.Go(func() error {
      values, err := collectOne(ctx, client, attributes)

      select {
      case <-ctx.Done():
        return ctx.Err()
      case resultCh <- deviceResult{client, Result{Values: values, Error: err}}:
      }

      return nil
    })
  }

  go func() {
    err = eg.Wait()
    close(resultCh)
  }()

  for v := range resultCh {
    log.Trace().
      Stringer("Device", v.client).
      Stringer("Result", v.result).
      Msg("Received result for device")

    out[v.client] = v.result
  }

  if options.MaxRetries > 0 {
    var failed []*cometblue.Client

    for _, client := range clients {
      if result, ok := out[client]; !ok || result.Error != nil {
        failed = append(failed, client)

        log.Debug().
          Stringer("Device", client).
          Int("RetriesLeft", options.MaxRetries).
          Err(result.Error).
          Msg("Collection failed for device - will retry")
      }
    }

    if len(failed) > 0 {
      if options.BackoffFactor > 0 {
        backoff := options.BackoffFactor << int64(options.attempt)

        if backoff < 0 {
          backoff = DefaultBackoffFactor
        }

        select {
        case <-parentCtx.Done():
          return out, parentCtx.Err()
        case <-time.After(backoff):
        }
      }

      options.MaxRetries -= 1
      options.attempt += 1

      retryOutput, err := CollectWithOptions(parentCtx, failed, attributes, options)

      for client := range retryOutput {
        out[client] = retryOutput[client]
      }

      return out, err
    }
  }

  return out, err
}
