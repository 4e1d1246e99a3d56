package model

import "time"

// TimestampLayout is the fixed timestamp format of the price file.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout formats the calendar date of a record.
const DateLayout = "2006-01-02"

// PriceRecord is a single (timestamp, price) observation.
type PriceRecord struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// PriceSeries holds records in file order. The loader never re-sorts.
type PriceSeries []PriceRecord

// Prices extracts the price column.
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s))
	for i, r := range s {
		prices[i] = r.Price
	}
	return prices
}

// OnDay returns the records whose calendar date equals day's date.
// Dates are compared in each record's own location.
func (s PriceSeries) OnDay(day time.Time) PriceSeries {
	y, m, d := day.Date()
	out := PriceSeries{}
	for _, r := range s {
		ry, rm, rd := r.Time.Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

// Empty reports whether the series has no records.
func (s PriceSeries) Empty() bool { return len(s) == 0 }
