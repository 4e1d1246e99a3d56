package loader

import "GoldDashboard/internal/model"

// StaticSource returns fixed data for development and testing.
type StaticSource struct {
	Series model.PriceSeries
	Err    error
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Load() (model.PriceSeries, error) {
	if s.Err != nil {
		return model.PriceSeries{}, s.Err
	}
	out := make(model.PriceSeries, len(s.Series))
	copy(out, s.Series)
	return out, nil
}
