package models

import "time"

// ChartPoint is one (timestamp, value) sample in a chart dataset.
// Field names follow the Chart.js point format the frontend consumes.
type ChartPoint struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// ChartDataset is a named time series for one line on a chart.
type ChartDataset struct {
	Label       string       `json:"label"`
	Data        []ChartPoint `json:"data"`
	BorderColor string       `json:"borderColor,omitempty"`
	Fill        bool         `json:"fill"`
	Tension     float64      `json:"tension,omitempty"`
	PointRadius float64      `json:"pointRadius"`
	BorderWidth float64      `json:"borderWidth,omitempty"`
}

// LotHistory is the occupancy-over-time view for a single lot.
// YMax bounds the display axis; the data itself is not clamped.
type LotHistory struct {
	LotName  string         `json:"lotName"`
	Datasets []ChartDataset `json:"datasets"`
	YMax     float64        `json:"y_max,omitempty"`
}
