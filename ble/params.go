package ble

import (
  "fmt"
  "slices"

  "github.com/go-ble/ble/linux/hci/cmd"
)

type ConnParams string

const (
  ConnParamsDefault     ConnParams = "default"
  ConnParamsPowerSaving ConnParams = "power-saving"
)

// *flag.Value
func (c *ConnParams) String() string {
  return string(*c)
}

func (c *ConnParams) Set(v string) error {
  if v == "" {
    *c = ConnParamsDefault
    return nil
  }

  allParams := []ConnParams{ConnParamsDefault, ConnParamsPowerSaving}
  p := ConnParams(v)

  if !slices.Contains(allParams, p) {
    return fmt.Errorf("unknown connection param %v (must be one of %v)", p, allParams)
  }

  *c = p
  return nil
}

func (c ConnParams) AdapterOptions() cmd.LECreateConnection {
  p := cmd.LECreateConnection{
    LEScanInterval:        0x0004, // N * 0.625 msec
    LEScanWindow:          0x0004,
    InitiatorFilterPolicy: 0x00,   // allow-list unused
    PeerAddressType:       0x00,   // public
    OwnAddressType:        0x00,
    ConnIntervalMin:       0x0006, // N * 1.25 msec
    ConnIntervalMax:       0x0006,
    ConnLatency:           0x0000,
    SupervisionTimeout:    0x0048, // N * 10 msec
    MinimumCELength:       0x0000,
    MaximumCELength:       0x0000,
  }

  switch c {
  case ConnParamsDefault:
    break
  case ConnParamsPowerSaving:
    // relaxed parameters for the battery-powered thermostats: a slow
    // connection interval with high slave latency keeps the radio asleep
    // between the handful of characteristic exchanges a session needs.
    p.ConnIntervalMin    = 0x00f0 // 300ms
    p.ConnIntervalMax    = 0x00f0
    p.ConnLatency        = 0x0014
    p.SupervisionTimeout = 0x0708 // 18s
  default:
    panic("unknown Bluetooth connection param: " + c)
  }

  return p
}
