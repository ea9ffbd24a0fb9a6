package api

// Response represents the top-level envelope of the time-table API.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data holds the prayer timings, date info, and metadata for one day.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains prayer and event times as localized clock strings.
// The API may append a timezone suffix like " (BST)" or include seconds;
// both are stripped during normalization.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// DateInfo contains the Hijri and Gregorian representations of the day.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date from the API response.
type HijriDate struct {
	Date    string     `json:"date"` // e.g. "10-08-1447"
	Day     string     `json:"day"`
	Weekday Weekday    `json:"weekday"`
	Month   HijriMonth `json:"month"`
	Year    string     `json:"year"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // English name, e.g. "Ramaḍān"
	Ar     string `json:"ar"` // Arabic name
}

// Weekday contains localized weekday names.
type Weekday struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " AH"
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "28-02-2026"
	Day     string         `json:"day"`
	Weekday Weekday        `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "February"
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	School    string  `json:"school"`
}

// ConversionResponse is the envelope of the gToH/hToG calendar endpoints.
type ConversionResponse struct {
	Code   int            `json:"code"`
	Status string         `json:"status"`
	Data   ConversionData `json:"data"`
}

// ConversionData pairs the two calendar representations of one date.
type ConversionData struct {
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// QiblaResponse is the envelope of the qibla endpoint.
type QiblaResponse struct {
	Code   int       `json:"code"`
	Status string    `json:"status"`
	Data   QiblaData `json:"data"`
}

// QiblaData holds the remote qibla bearing for a coordinate pair.
type QiblaData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Direction float64 `json:"direction"`
}
