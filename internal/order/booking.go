package order

import "time"

// DateLayout is the timestamp format the order service expects.
const DateLayout = "2006-01-02 15:04:05"

const (
	outboundFlightID = "76f3334e-486c-4be6-8fd6-d4fe9ee1a3c1"
	returnFlightID   = "9c0ca371-184e-47e4-b083-e9af4d7e1f17"
	outboundSegment  = "AA467"
	returnSegment    = "AA482"
	fromAirport      = "北京 Beijing"
	toAirport        = "上海 Shanghai"
	flightPrice      = 200
	flightClass      = 1
	flightTime       = 2 * time.Hour
	returnOffset     = 24 * time.Hour
)

// Booking is the round-trip reservation payload sent by create-order.
type Booking struct {
	FromAirPortName           string `json:"fromAirPortName"`
	OneWayFlight              bool   `json:"oneWayFlight"`
	RetFlightClass            int    `json:"retFlightClass"`
	RetFlightID               string `json:"retFlightId"`
	RetFlightPrice            int    `json:"retFlightPrice"`
	RetFlightSegID            string `json:"retFlightSegId"`
	RetScheduledArrivalTime   string `json:"retScheduledArrivalTime"`
	RetScheduledDepartureTime string `json:"retScheduledDepartureTime"`
	ToAirPortName             string `json:"toAirPortName"`
	ToFlightClass             int    `json:"toFlightClass"`
	ToFlightID                string `json:"toFlightId"`
	ToFlightPrice             int    `json:"toFlightPrice"`
	ToFlightSegID             string `json:"toFlightSegId"`
	ToScheduledArrivalTime    string `json:"toScheduledArrivalTime"`
	ToScheduledDepartureTime  string `json:"toScheduledDepartureTime"`
	UserID                    string `json:"userId"`
}

// NewBooking builds the fixed Beijing/Shanghai round trip departing at now.
// The outbound leg lands two hours after departure; the return leg departs a
// day after the outbound one and also takes two hours.
func NewBooking(userID string, now time.Time) Booking {
	toDeparture := now
	toArrival := toDeparture.Add(flightTime)
	retDeparture := toDeparture.Add(returnOffset)
	retArrival := retDeparture.Add(flightTime)

	return Booking{
		FromAirPortName:           fromAirport,
		OneWayFlight:              false,
		RetFlightClass:            flightClass,
		RetFlightID:               returnFlightID,
		RetFlightPrice:            flightPrice,
		RetFlightSegID:            returnSegment,
		RetScheduledArrivalTime:   retArrival.Format(DateLayout),
		RetScheduledDepartureTime: retDeparture.Format(DateLayout),
		ToAirPortName:             toAirport,
		ToFlightClass:             flightClass,
		ToFlightID:                outboundFlightID,
		ToFlightPrice:             flightPrice,
		ToFlightSegID:             outboundSegment,
		ToScheduledArrivalTime:    toArrival.Format(DateLayout),
		ToScheduledDepartureTime:  toDeparture.Format(DateLayout),
		UserID:                    userID,
	}
}
