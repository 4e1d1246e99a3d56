package model

import (
	"time"

	"github.com/moznion/go-optional"
)

// KPIStatus tells callers why a snapshot may carry no values.
type KPIStatus string

const (
	KPIStatusOK          KPIStatus = "OK"
	KPIStatusUnavailable KPIStatus = "UNAVAILABLE"      // empty series
	KPIStatusNoData      KPIStatus = "NO_DATA_FOR_DATE" // day filter matched nothing
)

// Direction is the sign of Change, left for the presentation layer to style.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// KPISnapshot summarises a series or a single day of it.
// Every value field is None when Status is not OK.
type KPISnapshot struct {
	Status     KPIStatus                  `json:"status"`
	Day        optional.Option[time.Time] `json:"day"`
	Count      int                        `json:"count"`
	Open       optional.Option[float64]   `json:"open"`
	Last       optional.Option[float64]   `json:"last"`
	Change     optional.Option[float64]   `json:"change"`
	Direction  Direction                  `json:"direction,omitempty"`
	Volatility optional.Option[float64]   `json:"volatility"`
	Max        optional.Option[float64]   `json:"max"`
	Min        optional.Option[float64]   `json:"min"`
}

// Available reports whether the snapshot holds values.
func (k KPISnapshot) Available() bool { return k.Status == KPIStatusOK }
