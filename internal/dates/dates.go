// Package dates converts between the display date format shown in forms
// (dd/mm/yyyy) and the wire format the booking API expects (yyyy-mm-dd).
package dates

import "time"

const (
	// DisplayFormat is what users type and date pickers produce.
	DisplayFormat = "02/01/2006"
	// APIFormat is what every backend date field carries.
	APIFormat = "2006-01-02"
)

// ToAPIFormat converts a dd/mm/yyyy string to yyyy-mm-dd. The second return
// is false for empty input, garbage, or input already in wire format — the
// conversion is strict so a wrong-format date never slips into a request.
func ToAPIFormat(display string) (string, bool) {
	if display == "" {
		return "", false
	}
	t, err := time.Parse(DisplayFormat, display)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(APIFormat), true
}

// FromAPIFormat converts a yyyy-mm-dd wire date back to dd/mm/yyyy for
// seeding edit forms. Returns the input unchanged when it does not parse,
// so malformed server data stays visible rather than vanishing.
func FromAPIFormat(api string) string {
	t, err := time.Parse(APIFormat, api)
	if err != nil {
		return api
	}
	return t.Format(DisplayFormat)
}
