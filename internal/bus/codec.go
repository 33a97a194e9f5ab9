package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"trafficaqi/internal/model"
)

// wireSample is the JSON wire shape for a LocationSample (§6 Bus topic):
// timestamp is ISO-8601 with offset, is_peak_hour and aqi_category are
// always present, and omitted metrics appear as null.
type wireSample struct {
	Timestamp    time.Time          `json:"timestamp"`
	Location     string             `json:"location"`
	Latitude     float64            `json:"latitude"`
	Longitude    float64            `json:"longitude"`
	AQIValue     *int               `json:"aqi_value"`
	TrafficLevel *int               `json:"traffic_level"`
	AQICategory  *model.AQICategory `json:"aqi_category"`
	IsPeakHour   bool               `json:"is_peak_hour"`
}

// EncodeSample serializes a LocationSample to its bus wire format.
func EncodeSample(s model.LocationSample) ([]byte, error) {
	w := wireSample{
		Timestamp:    s.Timestamp.UTC(),
		Location:     s.Location,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		AQIValue:     s.AQIValue,
		TrafficLevel: s.TrafficLevel,
		AQICategory:  s.AQICategory,
		IsPeakHour:   s.IsPeakHour,
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("bus: encode sample: %w", err)
	}
	return data, nil
}

// DecodeSample deserializes a LocationSample from its bus wire format. A
// malformed payload returns model.ErrDataContract wrapped with decode
// context (§4.4 step 1: "decode the record; if malformed, acknowledge and
// drop").
func DecodeSample(payload []byte) (model.LocationSample, error) {
	var w wireSample
	if err := json.Unmarshal(payload, &w); err != nil {
		return model.LocationSample{}, fmt.Errorf("%w: malformed payload: %v", model.ErrDataContract, err)
	}
	s := model.LocationSample{
		Timestamp:    w.Timestamp,
		Location:     w.Location,
		Latitude:     w.Latitude,
		Longitude:    w.Longitude,
		AQIValue:     w.AQIValue,
		TrafficLevel: w.TrafficLevel,
		AQICategory:  w.AQICategory,
		IsPeakHour:   w.IsPeakHour,
	}
	if err := s.Validate(); err != nil {
		return model.LocationSample{}, err
	}
	return s, nil
}
