package cometblue

import (
  "context"
  "time"

  "github.com/go-ble/ble"
)

// Transport is the BLE link capability a Session drives. Implementations
// serialize operations per link; a Session never issues more than one
// outstanding operation at a time.
type Transport interface {
  // Connect establishes the radio-level connection, bounded by timeout.
  Connect(ctx context.Context, timeout time.Duration) error

  // Disconnect tears the connection down. The thermostat applies pending
  // writes when the link closes.
  Disconnect() error

  // Read reads the raw value of a characteristic.
  Read(ctx context.Context, c ble.UUID) ([]byte, error)

  // Write writes a characteristic with acknowledgment required.
  Write(ctx context.Context, c ble.UUID, value []byte) error
}
