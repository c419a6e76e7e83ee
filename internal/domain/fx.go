package domain

import "time"

// FxLatest selects the most recent known rate.
const FxLatest = "latest"

// FxRequest identifies a conversion rate. Date is YYYY-MM-DD or FxLatest.
type FxRequest struct {
	From string
	To   string
	Date string
}

// FxDateOf formats t as a historical rate date. A zero time selects the latest rate.
func FxDateOf(t time.Time) string {
	if t.IsZero() {
		return FxLatest
	}
	return t.UTC().Format(time.DateOnly)
}

// Key is the cache key of the request.
func (r FxRequest) Key() string {
	return r.From + ":" + r.To + ":" + r.Date
}
