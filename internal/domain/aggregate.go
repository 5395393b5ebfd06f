package domain

import "time"

// NewResponse assembles the success envelope. Severe alerts keep classifier
// order and the outlook alert, if any, goes last.
func NewResponse(coord Coordinate, generatedAt time.Time, severe []Alert, outlook *Alert) Response {
	alerts := make([]Alert, 0, len(severe)+1)
	alerts = append(alerts, severe...)
	if outlook != nil {
		alerts = append(alerts, *outlook)
	}
	return Response{
		Success:     true,
		Alerts:      alerts,
		Location:    coord,
		LastUpdated: generatedAt,
	}
}

// FailureResponse builds the failure envelope. It carries no alerts.
func FailureResponse(message string) Response {
	return Response{Message: message, Alerts: []Alert{}}
}

// Classify runs every classifier over ev and aggregates the result. The
// returned error is never fatal: it reports a suppressed outlook alert and
// the response is complete without it.
func Classify(ev Evaluation) (Response, error) {
	severe := ClassifySevere(ev)
	outlook, err := ClassifyOutlook(ev)
	return NewResponse(ev.Coord, ev.GeneratedAt, severe, outlook), err
}
