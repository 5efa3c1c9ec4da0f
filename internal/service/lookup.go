package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"github.com/flyt/flyt/internal/api"
)

// LookupField identifies one typeahead input. Fields debounce and cancel
// independently of each other.
type LookupField string

const (
	FieldOrigin      LookupField = "origen"
	FieldDestination LookupField = "destino"
)

// LookupState is the observable per-field typeahead state.
type LookupState struct {
	Suggestions []api.Airport
	Loading     bool
}

// LookupFunc queries the backend for suggestions matching text.
type LookupFunc func(ctx context.Context, query string) ([]api.Airport, error)

const (
	minQueryLen     = 2
	defaultDebounce = 300 * time.Millisecond
)

// Lookup is the debounced typeahead engine shared by the public search form
// and the admin edit form. Each keystroke for a field supersedes whatever
// that field had pending: the quiet-period timer is stopped and the field's
// generation is bumped, so a response from an earlier lookup can never be
// applied. Lookup failures degrade silently — suggestions stay as they were
// and the error only reaches the log.
type Lookup struct {
	mu       sync.Mutex
	query    LookupFunc
	onChange func(LookupField, LookupState)
	log      zerolog.Logger
	debounce time.Duration
	fields   map[LookupField]*lookupField
}

type lookupField struct {
	gen   uint64
	timer *time.Timer
	state LookupState
}

// NewLookup builds the engine. debounce <= 0 selects the standard 300ms quiet
// period; onChange may be nil.
func NewLookup(query LookupFunc, onChange func(LookupField, LookupState), debounce time.Duration, log zerolog.Logger) *Lookup {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if onChange == nil {
		onChange = func(LookupField, LookupState) {}
	}
	return &Lookup{
		query:    query,
		onChange: onChange,
		log:      log.With().Str("component", "lookup").Logger(),
		debounce: debounce,
		fields:   map[LookupField]*lookupField{},
	}
}

// Input reacts to a keystroke. Queries shorter than two characters clear the
// field immediately without touching the network; anything longer schedules a
// lookup after the quiet period.
func (l *Lookup) Input(field LookupField, text string) {
	l.mu.Lock()
	f := l.field(field)
	f.supersede()

	if len([]rune(strings.TrimSpace(text))) < minQueryLen {
		f.state = LookupState{}
		st := f.state
		l.mu.Unlock()
		l.onChange(field, st)
		return
	}

	// a superseded in-flight lookup will never clear the flag itself
	f.state.Loading = false
	gen := f.gen
	f.timer = time.AfterFunc(l.debounce, func() { l.fire(field, text, gen) })
	st := f.state
	l.mu.Unlock()
	l.onChange(field, st)
}

// Clear drops suggestions and any pending or in-flight lookup for the field.
// Used when a suggestion is picked and the field collapses to its label.
func (l *Lookup) Clear(field LookupField) {
	l.mu.Lock()
	f := l.field(field)
	f.supersede()
	f.state = LookupState{}
	st := f.state
	l.mu.Unlock()
	l.onChange(field, st)
}

// State returns the current state of a field.
func (l *Lookup) State(field LookupField) LookupState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.field(field).state
}

func (l *Lookup) fire(field LookupField, text string, gen uint64) {
	l.mu.Lock()
	f := l.field(field)
	if f.gen != gen {
		l.mu.Unlock()
		return
	}
	f.state.Loading = true
	st := f.state
	l.mu.Unlock()
	l.onChange(field, st)

	results, err := l.query(context.Background(), text)

	l.mu.Lock()
	if f.gen != gen {
		// superseded while in flight; the result must not be applied
		l.mu.Unlock()
		return
	}
	f.state.Loading = false
	if err != nil {
		l.log.Warn().Err(err).Str("field", string(field)).Str("query", text).Msg("typeahead lookup failed")
	} else {
		rankSuggestions(results, text)
		f.state.Suggestions = results
	}
	st = f.state
	l.mu.Unlock()
	l.onChange(field, st)
}

func (l *Lookup) field(field LookupField) *lookupField {
	f, ok := l.fields[field]
	if !ok {
		f = &lookupField{}
		l.fields[field] = f
	}
	return f
}

// supersede invalidates whatever the field has pending. Callers hold l.mu.
func (f *lookupField) supersede() {
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// rankSuggestions orders results by edit distance of city to the query so
// the closest match sits on top of the dropdown.
func rankSuggestions(results []api.Airport, query string) {
	q := strings.ToLower(strings.TrimSpace(query))
	sort.SliceStable(results, func(i, j int) bool {
		di := levenshtein.ComputeDistance(strings.ToLower(results[i].City), q)
		dj := levenshtein.ComputeDistance(strings.ToLower(results[j].City), q)
		return di < dj
	})
}
