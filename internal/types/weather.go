package types

// WeatherSnapshot is one day's forecast, joined onto schedule entries by
// exact ISO-date key. Nil when the provider has no data for the date.
type WeatherSnapshot struct {
	TemperatureCelsius       float64 `json:"temperature_celsius"`
	Description              string  `json:"description"`
	PrecipitationProbability int     `json:"precipitation_probability_percent"`
}
