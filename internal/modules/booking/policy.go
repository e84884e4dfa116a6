package booking

import (
	"math"
	"time"
)

const day = 24 * time.Hour

type Policy struct {
	AdvanceRate   float64
	MinStayNights int
}

func DefaultPolicy() Policy {
	return Policy{AdvanceRate: 0.4, MinStayNights: 1}
}

// StayNights is ceil((out - in) / 24h), never below MinStayNights.
func (p Policy) StayNights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	n := int(d / day)
	if d%day > 0 {
		n++
	}
	minNights := p.MinStayNights
	if minNights < 1 {
		minNights = 1
	}
	if n < minNights {
		n = minNights
	}
	return n
}

type Quote struct {
	Nights      int     `json:"nights"`
	TotalAmount float64 `json:"totalAmount"`
	Advance     float64 `json:"advance"`
}

func (p Policy) Quote(prices []float64, checkIn, checkOut time.Time) Quote {
	nights := p.StayNights(checkIn, checkOut)
	var total float64
	for _, price := range prices {
		total += price * float64(nights)
	}
	advance := math.Round(total * p.AdvanceRate)
	if advance > total {
		advance = total
	}
	return Quote{Nights: nights, TotalAmount: total, Advance: advance}
}
