package weather

// Reading is the subset of the current.json response the reporter renders.
type Reading struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
}

type Location struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

type Current struct {
	TempC      float64   `json:"temp_c"`
	FeelsLikeC float64   `json:"feelslike_c"`
	Condition  Condition `json:"condition"`
	Humidity   int       `json:"humidity"`
	WindKPH    float64   `json:"wind_kph"`
	VisKM      float64   `json:"vis_km"`
}

type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}
