package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// PointTimeLayout is the second-precision UTC layout used for point timestamps.
const PointTimeLayout = "2006-01-02T15:04:05Z"

// PointTags identifies the host and process a point was taken from.
type PointTags struct {
	Hostname string `json:"hostname"`
	PID      int    `json:"pid"`
	PPID     int    `json:"ppid"`
	Process  string `json:"process"`
}

// Map renders the tags as strings for backends that index them.
func (t PointTags) Map() map[string]string {
	return map[string]string{
		"hostname": t.Hostname,
		"pid":      strconv.Itoa(t.PID),
		"ppid":     strconv.Itoa(t.PPID),
		"process":  t.Process,
	}
}

// PointFields holds the measured value.
type PointFields struct {
	Value float64 `json:"value"`
}

// Map renders the fields for backends that take a generic field set.
func (f PointFields) Map() map[string]interface{} {
	return map[string]interface{}{"value": f.Value}
}

// MetricPoint is one emission-ready record for a metrics sink.
type MetricPoint struct {
	Measurement string      `json:"measurement"`
	Tags        PointTags   `json:"tags"`
	Timestamp   time.Time   `json:"-"`
	Fields      PointFields `json:"fields"`
}

// Time returns the point timestamp in PointTimeLayout.
func (p MetricPoint) Time() string {
	return p.Timestamp.UTC().Format(PointTimeLayout)
}

// MarshalJSON encodes the point in the batch shape
// {measurement, tags, time, fields}.
func (p MetricPoint) MarshalJSON() ([]byte, error) {
	type alias MetricPoint
	return json.Marshal(struct {
		alias
		Time string `json:"time"`
	}{
		alias: alias(p),
		Time:  p.Time(),
	})
}
