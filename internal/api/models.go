package api

// Wire types for the booking backend. Field tags follow the backend's JSON
// contract exactly (Spanish names, idVueloProg/asientosDisp abbreviations);
// Go names stay English.

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register. Roles is a list
// even though the form picks a single role.
type RegisterRequest struct {
	Name      string   `json:"nombre"`
	Surname   string   `json:"apellido"`
	Email     string   `json:"email"`
	Phone     string   `json:"fono"`
	Birthdate *string  `json:"fechaNacimiento"`
	Password  string   `json:"password"`
	Roles     []string `json:"roles"`
	PhotoPath *string  `json:"fotoPerfil"`
}

// AuthResponse is what a successful login returns.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
}

// UserProfile is the full profile from GET /api/auth/me. Roles is a plain
// string here, not a list; admin access is gated on it containing "ADMIN".
type UserProfile struct {
	ID        int64   `json:"id"`
	Name      string  `json:"nombre"`
	Surname   string  `json:"apellido"`
	Email     string  `json:"email"`
	Phone     *string `json:"telefono"`
	Birthdate *string `json:"fechaNacimiento"`
	Roles     *string `json:"roles"`
	CreatedAt *string `json:"creadoEn"`
	UpdatedAt *string `json:"actualizadoEn"`
	PhotoPath *string `json:"fotoPerfil"`
}

// IsAdmin reports whether the profile's role string grants admin access.
func (p UserProfile) IsAdmin() bool {
	return p.Roles != nil && containsFold(*p.Roles, "ADMIN")
}

// Airline is one entry of GET /api/aerolineas.
type Airline struct {
	ID   int64  `json:"idAerolinea"`
	Name string `json:"nombre"`
	Code string `json:"codigo"`
}

// Airport is one typeahead suggestion from GET /api/lugares/buscar.
type Airport struct {
	ID       int64  `json:"idAeropuerto"`
	IATACode string `json:"codigoIata"`
	Name     string `json:"nombre"`
	City     string `json:"ciudad"`
	Country  string `json:"pais"`
}

// Label renders the composed form label a selected suggestion collapses to.
func (a Airport) Label() string {
	return a.City + ", " + a.Country + " (" + a.IATACode + ")"
}

// BaseFlight is the route/airline/duration record independent of any date.
type BaseFlight struct {
	ID              int64   `json:"idVuelo"`
	FlightCode      string  `json:"codigoVuelo"`
	Airline         Airline `json:"aerolinea"`
	Origin          Airport `json:"origen"`
	Destination     Airport `json:"destino"`
	DurationMinutes int     `json:"duracionMin"`
}

// ScheduledFlight is a dated instance of a BaseFlight with pricing and seats.
type ScheduledFlight struct {
	ID             int64      `json:"idVueloProg"`
	Flight         BaseFlight `json:"vuelo"`
	DepartureDate  string     `json:"fechaSalida"`
	DepartureTime  string     `json:"horaSalida"`
	ArrivalDate    string     `json:"fechaLlegada"`
	ArrivalTime    string     `json:"horaLlegada"`
	Price          float64    `json:"precio"`
	SeatsAvailable int        `json:"asientosDisp"`
	SeatsTotal     int        `json:"asientosTotales"`
	StopCount      int        `json:"numeroEscalas"`
}

// id wrappers: the backend expects nested {"idX": n} objects in payloads.

type airlineID struct {
	ID int64 `json:"idAerolinea"`
}

type airportID struct {
	ID int64 `json:"idAeropuerto"`
}

type flightID struct {
	ID int64 `json:"idVuelo"`
}

// BaseFlightPayload creates or updates a base flight. ID is omitted on create.
type BaseFlightPayload struct {
	ID              *int64    `json:"idVuelo,omitempty"`
	FlightCode      string    `json:"codigoVuelo"`
	Airline         airlineID `json:"aerolinea"`
	Origin          airportID `json:"origen"`
	Destination     airportID `json:"destino"`
	DurationMinutes int       `json:"duracionMin"`
}

// NewBaseFlightPayload builds the payload from its association ids.
func NewBaseFlightPayload(id *int64, code string, airline, origin, destination int64, durationMin int) BaseFlightPayload {
	return BaseFlightPayload{
		ID:              id,
		FlightCode:      code,
		Airline:         airlineID{ID: airline},
		Origin:          airportID{ID: origin},
		Destination:     airportID{ID: destination},
		DurationMinutes: durationMin,
	}
}

// SchedulePayload creates or updates a scheduled flight referencing an
// existing base flight.
type SchedulePayload struct {
	Flight         flightID `json:"vuelo"`
	DepartureDate  string   `json:"fechaSalida"`
	DepartureTime  string   `json:"horaSalida"`
	ArrivalDate    string   `json:"fechaLlegada"`
	ArrivalTime    string   `json:"horaLlegada"`
	Price          float64  `json:"precio"`
	SeatsAvailable int      `json:"asientosDisp"`
	SeatsTotal     int      `json:"asientosTotales"`
	StopCount      int      `json:"numeroEscalas"`
}

// SetFlightID points the schedule at the base flight it belongs to.
func (p *SchedulePayload) SetFlightID(id int64) {
	p.Flight = flightID{ID: id}
}
