package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// LinkBody holds the fields shared by single and sweep requests
type LinkBody struct {
	Power      Measurement `json:"power" doc:"Transmit power (dBm, mW or W)"`
	Distance   Measurement `json:"distance" doc:"Link distance (km or m)"`
	GainTxDB   *float64    `json:"gain_tx_db,omitempty" doc:"Transmit antenna gain in dB, defaults to 0"`
	GainRxDB   *float64    `json:"gain_rx_db,omitempty" doc:"Receive antenna gain in dB, defaults to 0"`
	MiscLossDB *float64    `json:"misc_loss_db,omitempty" doc:"Miscellaneous loss in dB, defaults to 0"`
}

// SingleRequest represents a single-frequency calculation request
type SingleRequest struct {
	Body struct {
		LinkBody
		Frequency Measurement `json:"frequency" doc:"Carrier frequency (Hz, kHz, MHz or GHz)"`
	}
}

// FormattedOutputs are the result fields as the calculator page shows them
type FormattedOutputs struct {
	TransmitPower string `json:"transmit_power" example:"20.00 dBm"`
	Distance      string `json:"distance" example:"1.000000 km"`
	Frequency     string `json:"frequency" example:"2400.000000 MHz"`
	Fspl          string `json:"fspl" example:"100.04 dB"`
	ReceivedPower string `json:"received_power" example:"-80.04 dBm"`
}

// SingleResponseBody is the body of the single-frequency response
type SingleResponseBody struct {
	Params    LinkParameters   `json:"params" doc:"Normalized inputs"`
	Result    LinkResult       `json:"result" doc:"Path loss and received power"`
	Formatted FormattedOutputs `json:"formatted" doc:"Display strings"`
}

// SingleResponse represents the single-frequency response
type SingleResponse struct {
	Body SingleResponseBody
}

// SweepBody describes a frequency sweep; start, stop and step share one unit
type SweepBody struct {
	LinkBody
	Start float64 `json:"start" doc:"First frequency"`
	Stop  float64 `json:"stop" doc:"Last frequency, inclusive"`
	Step  float64 `json:"step" doc:"Spacing between samples"`
	Unit  string  `json:"unit" doc:"Frequency unit for start, stop and step"`
}

// SweepRequest represents a frequency sweep request
type SweepRequest struct {
	Body SweepBody
}

// SweepResponseBody is the body of the sweep response
type SweepResponseBody struct {
	Params    LinkParameters   `json:"params" doc:"Normalized inputs; frequency_mhz is unused"`
	Unit      string           `json:"unit" doc:"Frequency unit of the request"`
	StartMHz  float64          `json:"start_mhz"`
	StopMHz   float64          `json:"stop_mhz"`
	StepMHz   float64          `json:"step_mhz"`
	Count     int              `json:"count" doc:"Number of samples, at most 3000"`
	MinFsplDB float64          `json:"min_fspl_db"`
	MaxFsplDB float64          `json:"max_fspl_db"`
	MinPrDBm  float64          `json:"min_pr_dbm"`
	MaxPrDBm  float64          `json:"max_pr_dbm"`
	Points    []SweepPoint     `json:"points"`
	Summary   string           `json:"summary" doc:"Human-readable summary"`
	Formatted FormattedOutputs `json:"formatted" doc:"Display strings"`
}

// SweepResponse represents the sweep response
type SweepResponse struct {
	Body SweepResponseBody
}

// SweepChartRequest represents a request for a sweep chart image
type SweepChartRequest struct {
	Width  int `query:"width" minimum:"0" maximum:"4096" doc:"Image width in pixels"`
	Height int `query:"height" minimum:"0" maximum:"4096" doc:"Image height in pixels"`
	Body   SweepBody
}

// SweepChartResponse carries a PNG image
type SweepChartResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// DefaultsResponse returns the reset-to-defaults form values
type DefaultsResponse struct {
	Body RawForm
}
