package models

// Mode selects which input panel drives a calculation
type Mode string

const (
	ModeSingle Mode = "single"
	ModeRange  Mode = "range"
)

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	return m == ModeSingle || m == ModeRange
}

// Measurement is a magnitude paired with the unit it was entered in
type Measurement struct {
	Value float64 `json:"value" doc:"Magnitude as entered"`
	Unit  string  `json:"unit" doc:"Unit tag, e.g. dBm, mW, W, km, m, Hz, kHz, MHz, GHz"`
}

// LinkParameters holds normalized link inputs
type LinkParameters struct {
	TransmitDBm  float64 `json:"transmit_dbm"`
	DistanceKm   float64 `json:"distance_km"`
	FrequencyMHz float64 `json:"frequency_mhz"`
	GainTxDB     float64 `json:"gain_tx_db"`
	GainRxDB     float64 `json:"gain_rx_db"`
	MiscLossDB   float64 `json:"misc_loss_db"`
}

// LinkResult is the outcome of one FSPL evaluation
type LinkResult struct {
	FsplDB float64 `json:"fspl_db" doc:"Free-space path loss in dB"`
	PrDBm  float64 `json:"pr_dbm" doc:"Received power in dBm"`
}

// SweepPoint is one sample of a frequency sweep
type SweepPoint struct {
	FrequencyMHz float64 `json:"frequency_mhz" doc:"Sample frequency in MHz"`
	FsplDB       float64 `json:"fspl_db" doc:"Free-space path loss in dB"`
	PrDBm        float64 `json:"pr_dbm" doc:"Received power in dBm"`
}

// RawForm carries the form fields exactly as the user typed them.
// Field names follow the HTML form.
type RawForm struct {
	PtValue    string `json:"pt_value" form:"ptValue"`
	PtUnit     string `json:"pt_unit" form:"ptUnit"`
	DValue     string `json:"d_value" form:"dValue"`
	DUnit      string `json:"d_unit" form:"dUnit"`
	FValue     string `json:"f_value" form:"fValue"`
	FUnit      string `json:"f_unit" form:"fUnit"`
	FStart     string `json:"f_start" form:"fStart"`
	FStop      string `json:"f_stop" form:"fStop"`
	FStep      string `json:"f_step" form:"fStep"`
	FRangeUnit string `json:"f_range_unit" form:"fRangeUnit"`
	Gt         string `json:"gt" form:"gt"`
	Gr         string `json:"gr" form:"gr"`
	Loss       string `json:"loss" form:"loss"`
}

// DefaultForm returns the reset-to-defaults parameter set
func DefaultForm() RawForm {
	return RawForm{
		PtValue:    "20",
		PtUnit:     "dBm",
		DValue:     "1",
		DUnit:      "km",
		FValue:     "2400",
		FUnit:      "MHz",
		FStart:     "800",
		FStop:      "2600",
		FStep:      "50",
		FRangeUnit: "MHz",
		Gt:         "0",
		Gr:         "0",
		Loss:       "0",
	}
}
