// Package metrics writes usage measurements to InfluxDB when enabled:
// captures per batch, export durations, page counts. Entirely optional;
// a disabled or unreachable Influx never affects the annotation flow.
package metrics

import (
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/scopemark/scopemark/pkg/core"
)

// Manager handles the InfluxDB connection and writes.
type Manager struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPI
	IsValid bool
	Logger  zerolog.Logger
}

// NewManager creates a new metrics manager. Call Connect before use;
// all Record methods are safe no-ops until the connection is valid.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

// Connect establishes a connection to InfluxDB using viper config.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	m.Writer = m.Client.WriteAPI(
		viper.GetString("influx.org"),
		viper.GetString("influx.bucket"),
	)
	m.IsValid = true
	m.Logger.Info().Msg("Connected to InfluxDB")
	return nil
}

// Close flushes and shuts down the client.
func (m *Manager) Close() {
	if !m.IsValid {
		return
	}
	m.Writer.Flush()
	m.Client.Close()
	m.IsValid = false
}

// RecordCapture writes one point per captured annotation.
func (m *Manager) RecordCapture(rec core.AnnotationRecord) {
	if !m.IsValid {
		return
	}
	p := influxdb2.NewPointWithMeasurement("annotation_captured").
		AddTag("status", string(rec.Attributes.Status)).
		AddField("azimuth_deg", rec.Polar.AzimuthDeg).
		AddField("range_units", rec.Polar.RangeUnits).
		AddField("scale_value", rec.Calibration.ScaleValue).
		SetTime(time.Now())
	m.Writer.WritePoint(p)
}

// RecordExport writes one point per finished report export.
func (m *Manager) RecordExport(pages, records int, duration time.Duration) {
	if !m.IsValid {
		return
	}
	p := influxdb2.NewPointWithMeasurement("report_exported").
		AddField("pages", pages).
		AddField("records", records).
		AddField("duration_ms", duration.Milliseconds()).
		SetTime(time.Now())
	m.Writer.WritePoint(p)
}
