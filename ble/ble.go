package ble

import (
  "fmt"

  "github.com/go-ble/ble"
  "github.com/go-ble/ble/linux"
  "github.com/go-ble/ble/linux/hci/cmd"
  "github.com/prometheus/client_golang/prometheus"
  "github.com/rs/zerolog/log"
)

type Advertisement = ble.Advertisement

// Handle wraps the HCI device every connection and scan goes through.
type Handle struct {
  dev *linux.Device
}

func RegisterMetrics(reg prometheus.Registerer) {
  reg.MustRegister(
    successfulConnectionsCounter,
    failedConnectionsCounter,
    disconnectsCounter,
    characteristicReadsCounter,
    characteristicWritesCounter,
  )
}

// Init sets up the Bluetooth adapter. Scans are always active: the
// thermostats only expose their local name in scan responses.
func Init(deviceId int, connParams ConnParams) (*Handle, error) {
  log.Debug().
    Int("DeviceID", deviceId).
    Stringer("ConnParams", &connParams).
    Msg("Initializing Bluetooth device")

  dev, err := linux.NewDevice(
    ble.OptDeviceID(deviceId),
    ble.OptScanParams(cmd.LESetScanParameters{
      LEScanType:           0x01,   // active
      LEScanInterval:       0x0004, // 0x0004 - 0x4000; N * 0.625msec
      LEScanWindow:         0x0004, // 0x0004 - 0x4000; N * 0.625msec
      OwnAddressType:       0x00,   // public
      ScanningFilterPolicy: 0x00,   // accept all
    }),
    ble.OptConnParams(connParams.AdapterOptions()),
  )

  if err != nil {
    return nil, fmt.Errorf("failed to init bluetooth device: %w", err)
  }

  ble.SetDefaultDevice(dev)

  return &Handle{dev: dev}, nil
}

func (h *Handle) Stop() {
  h.dev.Stop()
}
