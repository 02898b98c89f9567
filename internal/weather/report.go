package weather

import (
	"fmt"

	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/present"
)

// Report is the display-ready form of a Reading.
type Report struct {
	LocationName    string `json:"location_name"`
	LocationDetails string `json:"location_details"`
	Temperature     int    `json:"temperature"`
	Condition       string `json:"condition"`
	FeelsLike       string `json:"feels_like"`
	Humidity        string `json:"humidity"`
	Wind            string `json:"wind"`
	Visibility      string `json:"visibility"`
	Coordinates     string `json:"coordinates"`
}

// NewReport formats r. The coordinates are the ones queried, not anything the
// service echoed back.
func NewReport(r *Reading, pos geo.Position) Report {
	return Report{
		LocationName:    r.Location.Name,
		LocationDetails: fmt.Sprintf("%s, %s", r.Location.Country, r.Location.Region),
		Temperature:     present.Round(r.Current.TempC),
		Condition:       r.Current.Condition.Text,
		FeelsLike:       fmt.Sprintf("%d°C", present.Round(r.Current.FeelsLikeC)),
		Humidity:        fmt.Sprintf("%d%%", r.Current.Humidity),
		Wind:            present.FormatDecimal(r.Current.WindKPH) + " km/h",
		Visibility:      present.FormatDecimal(r.Current.VisKM) + " km",
		Coordinates:     fmt.Sprintf("%.4f, %.4f", pos.Latitude, pos.Longitude),
	}
}
