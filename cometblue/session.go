package cometblue

import (
  "context"
  "strconv"
  "time"

  "github.com/go-ble/ble"
  "github.com/pkg/errors"
  "github.com/rs/zerolog/log"
  "github.com/zero-udo/eurotronic-cometblue/protocol"
)

var (
  ErrConnectionFailed = errors.New("connection failed")
  ErrNotReady = errors.New("session is not ready")
)

type SessionState uint8

const (
  StateDisconnected SessionState = iota
  StateConnecting
  StateAuthenticating
  StateReady
)

func (s SessionState) String() string {
  switch s {
  case StateDisconnected:
    return "Disconnected"
  case StateConnecting:
    return "Connecting"
  case StateAuthenticating:
    return "Authenticating"
  case StateReady:
    return "Ready"
  default:
    panic("unknown SessionState value: " + strconv.Itoa(int(s)))
  }
}

const (
  DefaultTimeout = 2 * time.Second
  DefaultTimeoutStep = 2 * time.Second
  DefaultMaxRetries = 10
)

// SessionOptions controls the connect retry loop. Each failed attempt
// raises the per-attempt timeout by TimeoutStep, capped at twice the
// initial Timeout.
type SessionOptions struct {
  Timeout time.Duration
  TimeoutStep time.Duration
  MaxRetries int
}

var SessionOptionsDefault = SessionOptions{
  Timeout: DefaultTimeout,
  TimeoutStep: DefaultTimeoutStep,
  MaxRetries: DefaultMaxRetries,
}

// Session owns one authenticated connection to a thermostat. The device
// rejects every characteristic access until the PIN has been written, so
// Open couples the transport connect with the PIN handshake. A Session must
// not be shared between goroutines.
type Session struct {
  transport Transport
  pin []byte
  opts SessionOptions
  state SessionState
}

// NewSession validates and encodes the PIN, without touching the transport.
func NewSession(t Transport, pin uint32, opts SessionOptions) (*Session, error) {
  encodedPin, err := protocol.EncodePin(pin)

  if err != nil {
    return nil, err
  }

  if opts.Timeout <= 0 {
    opts.Timeout = DefaultTimeout
  }

  if opts.TimeoutStep <= 0 {
    opts.TimeoutStep = DefaultTimeoutStep
  }

  if opts.MaxRetries <= 0 {
    opts.MaxRetries = DefaultMaxRetries
  }

  return &Session{
    transport: t,
    pin: encodedPin,
    opts: opts,
    state: StateDisconnected,
  }, nil
}

func (s *Session) State() SessionState {
  return s.state
}

// Open connects and authenticates, retrying transport failures with an
// escalating per-attempt timeout. Calling Open on a Ready session is a
// no-op. When all attempts fail the last transport error is surfaced,
// wrapped in ErrConnectionFailed.
func (s *Session) Open(ctx context.Context) error {
  if s.state == StateReady {
    return nil
  }

  timeout := s.opts.Timeout
  var lastErr error

  for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
    s.state = StateConnecting

    log.Debug().
      Int("Attempt", attempt).
      Dur("Timeout", timeout).
      Msg("cometblue: connecting")

    lastErr = s.transport.Connect(ctx, timeout)

    if lastErr == nil {
      s.state = StateAuthenticating

      lastErr = s.transport.Write(ctx, protocol.CharacteristicPin, s.pin)

      if lastErr == nil {
        s.state = StateReady

        log.Debug().Int("Attempt", attempt).Msg("cometblue: session ready")

        return nil
      }

      // the PIN write failed; this connection is useless.
      if err := s.transport.Disconnect(); err != nil {
        log.Debug().Err(err).Msg("cometblue: disconnect after failed pin write")
      }
    }

    log.Debug().
      Err(lastErr).
      Int("Attempt", attempt).
      Msg("cometblue: connection attempt failed")

    // give up immediately when the caller is gone. The transport error
    // itself can't distinguish this: a per-attempt timeout also surfaces
    // context.DeadlineExceeded, and that one must retry.
    if ctx.Err() != nil {
      break
    }

    timeout += s.opts.TimeoutStep

    if max := 2 * s.opts.Timeout; timeout > max {
      timeout = max
    }
  }

  s.state = StateDisconnected

  return errors.Wrapf(ErrConnectionFailed, "%v", lastErr)
}

// Close disconnects the transport. Closing an already-closed session is a
// no-op.
func (s *Session) Close() error {
  if s.state == StateDisconnected {
    return nil
  }

  s.state = StateDisconnected

  return s.transport.Disconnect()
}

// Read reads a characteristic. Valid only while Ready; in-session transport
// errors propagate to the caller without triggering a reconnect.
func (s *Session) Read(ctx context.Context, c ble.UUID) ([]byte, error) {
  if s.state != StateReady {
    return nil, errors.Wrapf(ErrNotReady, "cannot read in state %v", s.state)
  }

  return s.transport.Read(ctx, c)
}

// Write writes a characteristic with acknowledgment required.
func (s *Session) Write(ctx context.Context, c ble.UUID, value []byte) error {
  if s.state != StateReady {
    return errors.Wrapf(ErrNotReady, "cannot write in state %v", s.state)
  }

  return s.transport.Write(ctx, c, value)
}
