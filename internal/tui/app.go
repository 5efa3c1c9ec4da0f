package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/flyt/flyt/internal/api"
	"github.com/flyt/flyt/internal/config"
	"github.com/flyt/flyt/internal/dates"
	"github.com/flyt/flyt/internal/service"
)

// App ties together views.
type App struct {
	ctx   context.Context
	coord Coordinators
	cfg   config.Config
	log   zerolog.Logger

	state  appState
	modal  modalState
	status string

	// auth
	auth         service.AuthState
	loginFields  []formField
	loginFocus   int
	regFields    []formField
	regFocus     int
	lastUserID   int64

	// search
	searchResult  service.FlightListState
	searchFields  []formField
	searchFocus   int
	searchSuggest map[service.LookupField][]api.Airport
	sugCursor     int
	resultCursor  int

	// admin
	adminList    service.FlightListState
	airlines     service.AirlinesState
	adminSuggest map[service.LookupField][]api.Airport
	adminCursor  int
	adminLoaded  bool
	draft        draftForm
	editing      *api.ScheduledFlight
	deleteTarget *api.ScheduledFlight
}

// Coordinators are the workflow owners the views dispatch into.
type Coordinators struct {
	Auth   *service.Auth
	Search *service.FlightSearch
	Admin  *service.FlightAdmin
}

type appState string

const (
	viewLogin     appState = "login"
	viewRegister  appState = "register"
	viewSearch    appState = "search"
	viewAdminList appState = "adminList"
	viewAdminForm appState = "adminForm"
)

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmDelete modalState = "confirmDelete"
)

type formField struct {
	label  string
	value  string
	secret bool
}

// draftForm is the admin edit form buffer. Airport ids are bound when a
// suggestion is picked and dropped again the moment the text is edited by
// hand, so a save can tell a chosen airport from loose text.
type draftForm struct {
	fields     []formField
	focus      int
	airlineIdx int
	originID   *int64
	destID     *int64
}

const (
	dfCode = iota
	dfOrigin
	dfDestination
	dfDepartureDate
	dfDepartureTime
	dfArrivalDate
	dfArrivalTime
	dfDuration
	dfPrice
	dfSeatsAvailable
	dfSeatsTotal
	dfStops
)

func New(ctx context.Context, cfg config.Config, coord Coordinators, log zerolog.Logger) *App {
	return &App{
		ctx:   ctx,
		coord: coord,
		cfg:   cfg,
		log:   log.With().Str("component", "tui").Logger(),
		state: viewLogin,
		loginFields: []formField{
			{label: "Email"},
			{label: "Contraseña", secret: true},
		},
		regFields:     newRegisterFields(),
		searchFields:  newSearchFields(),
		searchSuggest: map[service.LookupField][]api.Airport{},
		adminSuggest:  map[service.LookupField][]api.Airport{},
		draft:         newDraftForm(),
	}
}

func newRegisterFields() []formField {
	return []formField{
		{label: "Nombre"},
		{label: "Apellido"},
		{label: "Email"},
		{label: "Teléfono"},
		{label: "Fecha de nacimiento (dd/mm/aaaa)"},
		{label: "Contraseña", secret: true},
		{label: "Repite la contraseña", secret: true},
	}
}

func newSearchFields() []formField {
	return []formField{
		{label: "Origen"},
		{label: "Destino"},
		{label: "Fecha de salida (dd/mm/aaaa)"},
	}
}

func newDraftForm() draftForm {
	return draftForm{fields: []formField{
		{label: "Código de vuelo"},
		{label: "Origen"},
		{label: "Destino"},
		{label: "Fecha salida (dd/mm/aaaa)"},
		{label: "Hora salida (HH:MM)"},
		{label: "Fecha llegada (dd/mm/aaaa)"},
		{label: "Hora llegada (HH:MM)"},
		{label: "Duración (min)"},
		{label: "Precio"},
		{label: "Asientos disponibles"},
		{label: "Asientos totales"},
		{label: "Escalas"},
	}}
}

func (a *App) Init() tea.Cmd {
	return a.restoreCmd()
}

// messages delivered by the coordinator observers

type authStateMsg service.AuthState

type loginResultMsg service.OpState

type registerResultMsg service.OpState

type searchResultMsg service.FlightListState

type searchSuggestMsg struct {
	Field service.LookupField
	State service.LookupState
}

type adminListMsg service.FlightListState

type airlinesMsg service.AirlinesState

type adminResultMsg service.OpResult

type adminSuggestMsg struct {
	Field service.LookupField
	State service.LookupState
}

// Observers adapts coordinator callbacks into program messages. send is
// invoked from coordinator goroutines, so it must be safe to call from any
// of them; tea.Program.Send is.
func Observers(send func(tea.Msg)) (service.AuthObservers, service.SearchObservers, service.AdminObservers) {
	auth := service.AuthObservers{
		State:    func(s service.AuthState) { send(authStateMsg(s)) },
		Login:    func(s service.OpState) { send(loginResultMsg(s)) },
		Register: func(s service.OpState) { send(registerResultMsg(s)) },
	}
	search := service.SearchObservers{
		Result: func(s service.FlightListState) { send(searchResultMsg(s)) },
		Suggestions: func(f service.LookupField, s service.LookupState) {
			send(searchSuggestMsg{Field: f, State: s})
		},
	}
	admin := service.AdminObservers{
		List:     func(s service.FlightListState) { send(adminListMsg(s)) },
		Airlines: func(s service.AirlinesState) { send(airlinesMsg(s)) },
		Result:   func(s service.OpResult) { send(adminResultMsg(s)) },
		Suggestions: func(f service.LookupField, s service.LookupState) {
			send(adminSuggestMsg{Field: f, State: s})
		},
	}
	return auth, search, admin
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch a.state {
		case viewLogin:
			return a.handleLoginKey(m)
		case viewRegister:
			return a.handleRegisterKey(m)
		case viewSearch:
			return a.handleSearchKey(m)
		case viewAdminList:
			return a.handleAdminListKey(m)
		case viewAdminForm:
			return a.handleAdminFormKey(m)
		}

	case authStateMsg:
		return a.applyAuthState(service.AuthState(m))

	case loginResultMsg:
		switch service.OpState(m).Phase {
		case service.Loading:
			a.status = "Entrando..."
		case service.Failed:
			a.status = m.Message
		case service.Success:
			a.status = ""
		}

	case registerResultMsg:
		switch service.OpState(m).Phase {
		case service.Loading:
			a.status = "Creando cuenta..."
		case service.Failed:
			a.status = m.Message
		case service.Success:
			a.state = viewLogin
			a.status = "Cuenta creada. Inicia sesión."
			a.regFields = newRegisterFields()
			a.regFocus = 0
		}

	case searchResultMsg:
		a.searchResult = service.FlightListState(m)
		a.resultCursor = 0
		if a.searchResult.Phase == service.Failed {
			a.status = a.searchResult.Message
		} else {
			a.status = ""
		}

	case searchSuggestMsg:
		a.searchSuggest[m.Field] = m.State.Suggestions
		a.sugCursor = 0

	case adminListMsg:
		a.adminList = service.FlightListState(m)
		if a.adminCursor >= len(a.adminList.Flights) {
			a.adminCursor = 0
		}
		if a.adminList.Phase == service.Failed {
			a.status = a.adminList.Message
		}

	case airlinesMsg:
		a.airlines = service.AirlinesState(m)

	case adminSuggestMsg:
		a.adminSuggest[m.Field] = m.State.Suggestions
		a.sugCursor = 0

	case adminResultMsg:
		a.status = m.Message
		if m.OK && a.state == viewAdminForm {
			a.state = viewAdminList
		}
	}
	return a, nil
}

// applyAuthState reacts to session transitions. A change of account resets
// the search so one user's results never show up under another.
func (a *App) applyAuthState(s service.AuthState) (tea.Model, tea.Cmd) {
	prev := a.auth
	a.auth = s
	switch s.Phase {
	case service.LoggedIn:
		if prev.Phase != service.LoggedIn || (s.Profile != nil && s.Profile.ID != a.lastUserID) {
			a.coord.Search.Reset()
			a.searchFields = newSearchFields()
			a.searchFocus = 0
		}
		if s.Profile != nil {
			a.lastUserID = s.Profile.ID
		}
		a.state = viewSearch
		a.status = ""
	case service.LoggedOut:
		if prev.Phase != service.LoggedOut {
			a.state = viewLogin
			a.loginFields[0].value = ""
			a.loginFields[1].value = ""
			a.loginFocus = 0
			a.adminLoaded = false
		}
	case service.Pending:
		a.status = "Cargando perfil..."
	}
	return a, nil
}

// commands

func (a *App) restoreCmd() tea.Cmd {
	return func() tea.Msg {
		a.coord.Auth.Restore(a.ctx)
		return nil
	}
}

func (a *App) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		a.coord.Auth.Login(a.ctx, email, password)
		return nil
	}
}

func (a *App) registerCmd(draft service.RegisterDraft) tea.Cmd {
	return func() tea.Msg {
		a.coord.Auth.Register(a.ctx, draft)
		return nil
	}
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		a.coord.Auth.Logout(a.ctx)
		return nil
	}
}

func (a *App) searchCmd() tea.Cmd {
	return func() tea.Msg {
		a.coord.Search.Search(a.ctx)
		return nil
	}
}

func (a *App) adminLoadCmd() tea.Cmd {
	return func() tea.Msg {
		a.coord.Admin.LoadInitial(a.ctx)
		return nil
	}
}

func (a *App) adminReloadCmd() tea.Cmd {
	return func() tea.Msg {
		a.coord.Admin.LoadFlights(a.ctx)
		return nil
	}
}

func (a *App) saveCmd(isEditing bool, existing *api.ScheduledFlight, draft service.FlightDraft) tea.Cmd {
	return func() tea.Msg {
		a.coord.Admin.Save(a.ctx, isEditing, existing, draft)
		return nil
	}
}

func (a *App) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		a.coord.Admin.Delete(a.ctx, id)
		return nil
	}
}

// key handlers

func (a *App) handleLoginKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyTab, tea.KeyDown:
		a.loginFocus = (a.loginFocus + 1) % len(a.loginFields)
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		a.loginFocus = (a.loginFocus + len(a.loginFields) - 1) % len(a.loginFields)
		return a, nil
	case tea.KeyEnter:
		return a, a.loginCmd(a.loginFields[0].value, a.loginFields[1].value)
	case tea.KeyEsc:
		return a, tea.Quit
	}
	switch m.String() {
	case "ctrl+n":
		a.state = viewRegister
		a.status = ""
		a.coord.Auth.ResetRegister()
		return a, nil
	}
	editField(&a.loginFields[a.loginFocus], m)
	return a, nil
}

func (a *App) handleRegisterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewLogin
		a.status = ""
		return a, nil
	case tea.KeyTab, tea.KeyDown:
		a.regFocus = (a.regFocus + 1) % len(a.regFields)
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		a.regFocus = (a.regFocus + len(a.regFields) - 1) % len(a.regFields)
		return a, nil
	case tea.KeyEnter:
		f := a.regFields
		return a, a.registerCmd(service.RegisterDraft{
			Name:            f[0].value,
			Surname:         f[1].value,
			Email:           f[2].value,
			Phone:           f[3].value,
			Birthdate:       strings.TrimSpace(f[4].value),
			Password:        f[5].value,
			ConfirmPassword: f[6].value,
		})
	}
	editField(&a.regFields[a.regFocus], m)
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := a.searchLookupField()
	suggestions := a.searchSuggest[field]

	switch m.Type {
	case tea.KeyTab:
		a.searchFocus = (a.searchFocus + 1) % len(a.searchFields)
		a.sugCursor = 0
		return a, nil
	case tea.KeyShiftTab:
		a.searchFocus = (a.searchFocus + len(a.searchFields) - 1) % len(a.searchFields)
		a.sugCursor = 0
		return a, nil
	case tea.KeyUp:
		if len(suggestions) > 0 {
			if a.sugCursor > 0 {
				a.sugCursor--
			}
		} else if a.resultCursor > 0 {
			a.resultCursor--
		}
		return a, nil
	case tea.KeyDown:
		if len(suggestions) > 0 {
			if a.sugCursor < len(suggestions)-1 {
				a.sugCursor++
			}
		} else if a.resultCursor < len(a.searchResult.Flights)-1 {
			a.resultCursor++
		}
		return a, nil
	case tea.KeyEnter:
		if len(suggestions) > 0 && field != "" {
			picked := suggestions[a.sugCursor]
			a.coord.Search.SelectSuggestion(field, picked)
			a.searchFields[a.searchFocus].value = picked.Label()
			return a, nil
		}
		return a, a.searchCmd()
	case tea.KeyEsc:
		if field != "" && len(suggestions) > 0 {
			a.searchFields[a.searchFocus].value = ""
			a.syncSearchField(a.searchFocus)
		}
		return a, nil
	}
	switch m.String() {
	case "ctrl+l":
		return a, a.logoutCmd()
	case "ctrl+a":
		if a.auth.Profile != nil && a.auth.Profile.IsAdmin() {
			a.state = viewAdminList
			a.status = ""
			if !a.adminLoaded {
				a.adminLoaded = true
				return a, a.adminLoadCmd()
			}
		}
		return a, nil
	}
	if editField(&a.searchFields[a.searchFocus], m) {
		a.syncSearchField(a.searchFocus)
	}
	return a, nil
}

func (a *App) searchLookupField() service.LookupField {
	switch a.searchFocus {
	case 0:
		return service.FieldOrigin
	case 1:
		return service.FieldDestination
	}
	return ""
}

// syncSearchField pushes the edited text into the coordinator, which feeds
// the typeahead for the airport fields.
func (a *App) syncSearchField(idx int) {
	text := a.searchFields[idx].value
	switch idx {
	case 0:
		a.coord.Search.SetOrigin(text)
	case 1:
		a.coord.Search.SetDestination(text)
	case 2:
		a.coord.Search.SetDate(text)
	}
}

func (a *App) handleAdminListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "esc":
		a.state = viewSearch
		a.status = ""
		return a, nil
	case "up", "k":
		if a.adminCursor > 0 {
			a.adminCursor--
		}
	case "down", "j":
		if a.adminCursor < len(a.adminList.Flights)-1 {
			a.adminCursor++
		}
	case "r":
		return a, a.adminReloadCmd()
	case "n":
		a.editing = nil
		a.draft = newDraftForm()
		a.state = viewAdminForm
		a.status = ""
		return a, nil
	case "enter":
		if len(a.adminList.Flights) == 0 {
			return a, nil
		}
		flight := a.adminList.Flights[a.adminCursor]
		a.editing = &flight
		a.draft = draftFromFlight(flight, a.airlines.Airlines)
		a.state = viewAdminForm
		a.status = ""
		return a, nil
	case "d", "backspace", "delete":
		if len(a.adminList.Flights) == 0 {
			return a, nil
		}
		flight := a.adminList.Flights[a.adminCursor]
		a.deleteTarget = &flight
		a.modal = modalConfirmDelete
		return a, nil
	}
	return a, nil
}

func (a *App) handleAdminFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := a.adminLookupField()
	suggestions := a.adminSuggest[field]

	switch m.Type {
	case tea.KeyEsc:
		a.state = viewAdminList
		a.status = ""
		a.coord.Admin.ClearSuggestions(service.FieldOrigin)
		a.coord.Admin.ClearSuggestions(service.FieldDestination)
		return a, nil
	case tea.KeyTab:
		a.draft.focus = (a.draft.focus + 1) % len(a.draft.fields)
		a.sugCursor = 0
		return a, nil
	case tea.KeyShiftTab:
		a.draft.focus = (a.draft.focus + len(a.draft.fields) - 1) % len(a.draft.fields)
		a.sugCursor = 0
		return a, nil
	case tea.KeyUp:
		if len(suggestions) > 0 && a.sugCursor > 0 {
			a.sugCursor--
		}
		return a, nil
	case tea.KeyDown:
		if len(suggestions) > 0 && a.sugCursor < len(suggestions)-1 {
			a.sugCursor++
		}
		return a, nil
	case tea.KeyLeft:
		if len(a.airlines.Airlines) > 0 {
			a.draft.airlineIdx = (a.draft.airlineIdx + len(a.airlines.Airlines)) % (len(a.airlines.Airlines) + 1)
		}
		return a, nil
	case tea.KeyRight:
		if len(a.airlines.Airlines) > 0 {
			a.draft.airlineIdx = (a.draft.airlineIdx + 1) % (len(a.airlines.Airlines) + 1)
		}
		return a, nil
	case tea.KeyEnter:
		if len(suggestions) > 0 && field != "" {
			picked := suggestions[a.sugCursor]
			a.draft.fields[a.draft.focus].value = picked.Label()
			if a.draft.focus == dfOrigin {
				a.draft.originID = &picked.ID
			} else {
				a.draft.destID = &picked.ID
			}
			a.coord.Admin.ClearSuggestions(field)
			a.adminSuggest[field] = nil
			return a, nil
		}
		return a, nil
	}
	switch m.String() {
	case "ctrl+s":
		return a.submitDraft()
	}
	if editField(&a.draft.fields[a.draft.focus], m) {
		switch a.draft.focus {
		case dfOrigin:
			a.draft.originID = nil
			a.coord.Admin.SearchAirports(service.FieldOrigin, a.draft.fields[dfOrigin].value)
		case dfDestination:
			a.draft.destID = nil
			a.coord.Admin.SearchAirports(service.FieldDestination, a.draft.fields[dfDestination].value)
		}
	}
	return a, nil
}

func (a *App) adminLookupField() service.LookupField {
	switch a.draft.focus {
	case dfOrigin:
		return service.FieldOrigin
	case dfDestination:
		return service.FieldDestination
	}
	return ""
}

// submitDraft converts the form buffer into a coordinator draft. Numeric and
// date fields are validated here so the coordinator only sees typed values.
func (a *App) submitDraft() (tea.Model, tea.Cmd) {
	draft := service.FlightDraft{
		FlightCode:      strings.TrimSpace(a.draft.fields[dfCode].value),
		OriginID:        a.draft.originID,
		OriginText:      a.draft.fields[dfOrigin].value,
		DestinationID:   a.draft.destID,
		DestinationText: a.draft.fields[dfDestination].value,
		DepartureTime:   strings.TrimSpace(a.draft.fields[dfDepartureTime].value),
		ArrivalTime:     strings.TrimSpace(a.draft.fields[dfArrivalTime].value),
	}
	if idx := a.draft.airlineIdx - 1; idx >= 0 && idx < len(a.airlines.Airlines) {
		draft.AirlineID = &a.airlines.Airlines[idx].ID
	}

	for _, d := range []struct {
		idx  int
		into *string
	}{
		{dfDepartureDate, &draft.DepartureDate},
		{dfArrivalDate, &draft.ArrivalDate},
	} {
		raw := strings.TrimSpace(a.draft.fields[d.idx].value)
		if raw == "" {
			continue
		}
		converted, ok := dates.ToAPIFormat(raw)
		if !ok {
			a.status = "Fecha inválida: " + a.draft.fields[d.idx].label
			return a, nil
		}
		*d.into = converted
	}

	for _, n := range []struct {
		idx  int
		into **int
	}{
		{dfDuration, &draft.DurationMinutes},
		{dfSeatsAvailable, &draft.SeatsAvailable},
		{dfSeatsTotal, &draft.SeatsTotal},
		{dfStops, &draft.StopCount},
	} {
		raw := strings.TrimSpace(a.draft.fields[n.idx].value)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			a.status = "Valor numérico inválido: " + a.draft.fields[n.idx].label
			return a, nil
		}
		*n.into = &v
	}
	if raw := strings.TrimSpace(a.draft.fields[dfPrice].value); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			a.status = "Valor numérico inválido: Precio"
			return a, nil
		}
		draft.Price = &v
	}

	a.status = "Guardando..."
	return a, a.saveCmd(a.editing != nil, a.editing, draft)
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			if a.deleteTarget == nil {
				return a, nil
			}
			id := a.deleteTarget.ID
			a.deleteTarget = nil
			return a, a.deleteCmd(id)
		case "n", "N", "esc":
			a.modal = modalNone
			a.deleteTarget = nil
		}
	}
	return a, nil
}

// editField applies a key to a text field. Returns true when the value
// changed.
func editField(f *formField, m tea.KeyMsg) bool {
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(f.value) > 0 {
			runes := []rune(f.value)
			f.value = string(runes[:len(runes)-1])
			return true
		}
	case tea.KeySpace:
		f.value += " "
		return true
	case tea.KeyRunes:
		f.value += string(m.Runes)
		return true
	}
	return false
}

// rendering

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	focusStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	markerStyle = lipgloss.NewStyle().Bold(true)
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewRegister:
		body = a.renderRegister()
	case viewSearch:
		body = a.renderSearch()
	case viewAdminList:
		body = a.renderAdminList()
	case viewAdminForm:
		body = a.renderAdminForm()
	default:
		body = a.renderLogin()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderLogin() string {
	title := titleStyle.Render("Flyt - Iniciar sesión")
	out := title + "\n"
	out += renderFields(a.loginFields, a.loginFocus)
	out += dimStyle.Render("Servidor: "+a.cfg.API.BaseURL) + "\n"
	out += "[enter] Entrar  [ctrl+n] Crear cuenta  [esc] Salir"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderRegister() string {
	title := titleStyle.Render("Flyt - Crear cuenta")
	out := title + "\n"
	out += renderFields(a.regFields, a.regFocus)
	out += "[enter] Registrar  [esc] Volver"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderSearch() string {
	name := ""
	if a.auth.Profile != nil {
		name = " - " + a.auth.Profile.Name
	}
	title := titleStyle.Render("Buscar vuelos" + name)
	out := title + "\n"
	out += renderFields(a.searchFields, a.searchFocus)

	if field := a.searchLookupField(); field != "" {
		out += renderSuggestions(a.searchSuggest[field], a.sugCursor)
	}

	switch a.searchResult.Phase {
	case service.Loading:
		out += "Buscando...\n"
	case service.Success:
		out += fmt.Sprintf("%d vuelos encontrados:\n", len(a.searchResult.Flights))
		out += renderFlights(a.searchResult.Flights, a.resultCursor)
	}

	keys := "[tab] Campo  [enter] Buscar  [ctrl+l] Cerrar sesión  [ctrl+c] Salir"
	if a.auth.Profile != nil && a.auth.Profile.IsAdmin() {
		keys = "[tab] Campo  [enter] Buscar  [ctrl+a] Gestión  [ctrl+l] Cerrar sesión  [ctrl+c] Salir"
	}
	out += keys
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderAdminList() string {
	title := titleStyle.Render("Gestión de vuelos")
	out := title + "\n"
	switch a.adminList.Phase {
	case service.Loading:
		out += "Cargando...\n"
	case service.Failed:
		out += a.adminList.Message + "\n"
	default:
		if len(a.adminList.Flights) == 0 {
			out += "(sin vuelos programados)\n"
		} else {
			out += renderFlights(a.adminList.Flights, a.adminCursor)
		}
	}
	out += "[n] Nuevo  [enter] Editar  [d] Eliminar  [r] Recargar  [esc] Volver  [q] Salir"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderAdminForm() string {
	header := "Nuevo vuelo"
	if a.editing != nil {
		header = fmt.Sprintf("Editar vuelo %s", a.editing.Flight.FlightCode)
	}
	out := titleStyle.Render(header) + "\n"

	airline := "(ninguna)"
	if idx := a.draft.airlineIdx - 1; idx >= 0 && idx < len(a.airlines.Airlines) {
		al := a.airlines.Airlines[idx]
		airline = fmt.Sprintf("%s (%s)", al.Name, al.Code)
	}
	out += fmt.Sprintf("  Aerolínea [←/→]: %s\n", airline)

	out += renderFields(a.draft.fields, a.draft.focus)
	if field := a.adminLookupField(); field != "" {
		out += renderSuggestions(a.adminSuggest[field], a.sugCursor)
	}
	out += "[tab] Campo  [ctrl+s] Guardar  [esc] Cancelar"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		code := ""
		if a.deleteTarget != nil {
			code = " " + a.deleteTarget.Flight.FlightCode
		}
		return titleStyle.Render("¿Eliminar vuelo"+code+"?") + "\n[y] Sí  [n] No"
	}
	return ""
}

func renderFields(fields []formField, focus int) string {
	out := ""
	for i, f := range fields {
		marker := "  "
		label := f.label
		if i == focus {
			marker = markerStyle.Render("▶") + " "
			label = focusStyle.Render(label)
		}
		value := f.value
		if f.secret {
			value = strings.Repeat("*", len([]rune(value)))
		}
		out += fmt.Sprintf("%s%s: %s\n", marker, label, value)
	}
	return out
}

func renderSuggestions(suggestions []api.Airport, cursor int) string {
	if len(suggestions) == 0 {
		return ""
	}
	out := ""
	for i, s := range suggestions {
		marker := "    "
		if i == cursor {
			marker = "  " + markerStyle.Render("▶") + " "
		}
		out += marker + s.Label() + "\n"
	}
	return out
}

func renderFlights(flights []api.ScheduledFlight, cursor int) string {
	out := ""
	for i, f := range flights {
		marker := " "
		if i == cursor {
			marker = "▶"
		}
		route := fmt.Sprintf("%s → %s", f.Flight.Origin.City, f.Flight.Destination.City)
		out += fmt.Sprintf("%s %-8s %-30s %s %s  %8.2f€  %d/%d asientos\n",
			marker, f.Flight.FlightCode, route, dates.FromAPIFormat(f.DepartureDate), f.DepartureTime,
			f.Price, f.SeatsAvailable, f.SeatsTotal)
	}
	return out
}

// draftFromFlight pre-fills the edit form from a listed flight.
func draftFromFlight(f api.ScheduledFlight, airlines []api.Airline) draftForm {
	d := newDraftForm()
	d.fields[dfCode].value = f.Flight.FlightCode
	d.fields[dfOrigin].value = f.Flight.Origin.Label()
	d.fields[dfDestination].value = f.Flight.Destination.Label()
	d.fields[dfDepartureDate].value = dates.FromAPIFormat(f.DepartureDate)
	d.fields[dfDepartureTime].value = f.DepartureTime
	d.fields[dfArrivalDate].value = dates.FromAPIFormat(f.ArrivalDate)
	d.fields[dfArrivalTime].value = f.ArrivalTime
	d.fields[dfDuration].value = strconv.Itoa(f.Flight.DurationMinutes)
	d.fields[dfPrice].value = strconv.FormatFloat(f.Price, 'f', 2, 64)
	d.fields[dfSeatsAvailable].value = strconv.Itoa(f.SeatsAvailable)
	d.fields[dfSeatsTotal].value = strconv.Itoa(f.SeatsTotal)
	d.fields[dfStops].value = strconv.Itoa(f.StopCount)

	originID, destID := f.Flight.Origin.ID, f.Flight.Destination.ID
	d.originID = &originID
	d.destID = &destID

	for i, al := range airlines {
		if al.ID == f.Flight.Airline.ID {
			d.airlineIdx = i + 1
			break
		}
	}
	return d
}
