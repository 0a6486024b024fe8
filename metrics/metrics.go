package metrics

import (
  "time"

  "github.com/prometheus/client_golang/prometheus"
  "github.com/zero-udo/eurotronic-cometblue/protocol"
)

var (
  descTemperature = prometheus.NewDesc(
    "cometblue_temperature_celsius",
    "Temperature configuration of the thermostat in Celsius.",
    []string{"name", "field"},
    nil,
  )

  descWindowOpen = prometheus.NewDesc(
    "cometblue_window_open",
    "Whether the thermostat has detected an open window.",
    []string{"name"},
    nil,
  )

  descBattery = prometheus.NewDesc(
    "cometblue_battery_ratio",
    "Battery percentage reported by the thermostat.",
    []string{"name"},
    nil,
  )

  descManualMode = prometheus.NewDesc(
    "cometblue_manual_mode",
    "Whether the thermostat is in manual mode.",
    []string{"name"},
    nil,
  )

  descClockOffset = prometheus.NewDesc(
    "cometblue_clock_offset_seconds",
    "Offset of the thermostat clock relative to the host at collection time.",
    []string{"name"},
    nil,
  )
)

// CollectFunc supplies the latest readings keyed by device name and
// expanded attribute name, plus the time they were collected.
type CollectFunc func() (map[string]map[string]any, time.Time)

type collector struct {
  CollectFunc
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
  prometheus.DescribeByCollect(c, ch)
}

func boolToFloat(v bool) float64 {
  if v {
    return 1
  }

  return 0
}

func (c *collector) collectTemperature(ch chan<- prometheus.Metric, ts time.Time, name string, t protocol.Temperature) {
  fields := map[string]*float64{
    "current": t.Current,
    "manual": t.Manual,
    "target_low": t.TargetLow,
    "target_high": t.TargetHigh,
    "offset": t.Offset,
  }

  for field, value := range fields {
    if value == nil {
      continue
    }

    m := prometheus.MustNewConstMetric(
      descTemperature,
      prometheus.GaugeValue,
      *value,
      name,
      field,
    )

    ch <- prometheus.NewMetricWithTimestamp(ts, m)
  }

  windowOpen := prometheus.MustNewConstMetric(
    descWindowOpen,
    prometheus.GaugeValue,
    boolToFloat(t.WindowOpen),
    name,
  )

  ch <- prometheus.NewMetricWithTimestamp(ts, windowOpen)
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
  out, ts := c.CollectFunc()

  for name, values := range out {
    for attribute, value := range values {
      switch v := value.(type) {
      case protocol.Temperature:
        c.collectTemperature(ch, ts, name, v)
      case uint8:
        // only battery decodes to uint8
        battery := prometheus.MustNewConstMetric(
          descBattery,
          prometheus.GaugeValue,
          float64(v) / 100,
          name,
        )

        ch <- prometheus.NewMetricWithTimestamp(ts, battery)
      case bool:
        if attribute != "manual" {
          continue
        }

        manual := prometheus.MustNewConstMetric(
          descManualMode,
          prometheus.GaugeValue,
          boolToFloat(v),
          name,
        )

        ch <- prometheus.NewMetricWithTimestamp(ts, manual)
      case time.Time:
        offset := prometheus.MustNewConstMetric(
          descClockOffset,
          prometheus.GaugeValue,
          v.Sub(ts).Seconds(),
          name,
        )

        ch <- prometheus.NewMetricWithTimestamp(ts, offset)
      }
    }
  }
}

func RegisterCollector(f CollectFunc, reg prometheus.Registerer) {
  c := &collector{f}

  reg.MustRegister(c)
}
