package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flyt/flyt/internal/api"
	"github.com/flyt/flyt/internal/dates"
	"github.com/flyt/flyt/internal/session"
)

// AuthPhase is the derived "is a user logged in" signal.
type AuthPhase int

const (
	LoggedOut AuthPhase = iota
	Pending
	LoggedIn
)

// AuthState is the observable session state. Profile is non-nil exactly when
// Phase is LoggedIn.
type AuthState struct {
	Phase   AuthPhase
	Profile *api.UserProfile
}

// AuthClient is the slice of the gateway the auth coordinator needs.
type AuthClient interface {
	Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Me(ctx context.Context) (api.UserProfile, error)
}

// AuthObservers receive state transitions. Any of them may be nil.
type AuthObservers struct {
	State    func(AuthState)
	Login    func(OpState)
	Register func(OpState)
}

// RegisterDraft is the register form before validation.
type RegisterDraft struct {
	Name            string
	Surname         string
	Email           string
	Phone           string
	Birthdate       string // dd/mm/yyyy, optional
	Password        string
	ConfirmPassword string
	Role            string
	PhotoPath       string
}

// Auth owns the login, registration and logout workflows. A non-absent token
// always implies an attempted profile resolution; if the profile cannot be
// resolved the session is invalidated rather than left half-open.
type Auth struct {
	mu     sync.Mutex
	client AuthClient
	store  *session.Store
	obs    AuthObservers
	log    zerolog.Logger
	now    func() time.Time

	state    AuthState
	login    OpState
	register OpState
}

func NewAuth(client AuthClient, store *session.Store, obs AuthObservers, log zerolog.Logger) *Auth {
	if obs.State == nil {
		obs.State = func(AuthState) {}
	}
	if obs.Login == nil {
		obs.Login = func(OpState) {}
	}
	if obs.Register == nil {
		obs.Register = func(OpState) {}
	}
	return &Auth{
		client: client,
		store:  store,
		obs:    obs,
		log:    log.With().Str("component", "auth").Logger(),
		now:    time.Now,
		state:  AuthState{Phase: LoggedOut},
	}
}

// State returns the current session state.
func (a *Auth) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Restore re-establishes the session at process start. A stored token forces
// a profile resolution; if that fails — or the token is already expired — the
// session is cleared and the app lands logged out.
func (a *Auth) Restore(ctx context.Context) {
	sess := a.store.Get(ctx)
	if sess.Token == "" {
		a.setState(AuthState{Phase: LoggedOut})
		return
	}
	if session.TokenExpired(sess.Token, a.now()) {
		a.log.Info().Msg("stored token expired, logging out")
		a.Logout(ctx)
		return
	}
	a.setState(AuthState{Phase: Pending})
	profile, err := a.client.Me(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("profile resolution failed on restore")
		a.Logout(ctx)
		return
	}
	a.setState(AuthState{Phase: LoggedIn, Profile: &profile})
}

// Login runs the full login workflow: credentials, token persistence, profile
// resolution. A login that authenticates but cannot resolve the profile is
// rolled back to logged-out with a distinguished message.
func (a *Auth) Login(ctx context.Context, email, password string) {
	if strings.TrimSpace(email) == "" || password == "" {
		a.setLogin(OpState{Phase: Failed, Message: "Email y contraseña son obligatorios."})
		return
	}
	a.setLogin(OpState{Phase: Loading})

	resp, err := a.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.setLogin(OpState{Phase: Failed, Message: errText(err)})
		return
	}

	if err := a.store.SetToken(ctx, resp.Token); err != nil {
		a.log.Error().Err(err).Msg("persisting token failed")
	}
	if err := a.store.SetUserID(ctx, resp.ID); err != nil {
		a.log.Error().Err(err).Msg("persisting user id failed")
	}

	a.setState(AuthState{Phase: Pending})
	profile, err := a.client.Me(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("profile resolution failed after login")
		a.Logout(ctx)
		a.setLogin(OpState{Phase: Failed, Message: "Login correcto, pero no se pudo cargar el perfil."})
		return
	}

	a.setState(AuthState{Phase: LoggedIn, Profile: &profile})
	a.setLogin(OpState{Phase: Success})
}

// Register creates an account. It never touches the session; the caller
// navigates to login separately on success.
func (a *Auth) Register(ctx context.Context, draft RegisterDraft) {
	req, err := buildRegisterRequest(draft)
	if err != nil {
		a.setRegister(OpState{Phase: Failed, Message: errText(err)})
		return
	}
	a.setRegister(OpState{Phase: Loading})

	if err := a.client.Register(ctx, req); err != nil {
		a.setRegister(OpState{Phase: Failed, Message: errText(err)})
		return
	}
	a.setRegister(OpState{Phase: Success})
}

// ResetRegister returns the register outcome to idle when the form reopens.
func (a *Auth) ResetRegister() {
	a.setRegister(OpState{Phase: Idle})
}

// Logout clears the persisted session and transitions to logged out. It never
// fails: a storage error is logged and the in-memory state drops regardless.
func (a *Auth) Logout(ctx context.Context) {
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error().Err(err).Msg("clearing session failed")
	}
	a.setState(AuthState{Phase: LoggedOut})
}

func buildRegisterRequest(d RegisterDraft) (api.RegisterRequest, error) {
	if d.Name == "" || d.Surname == "" || d.Email == "" || d.Phone == "" || d.Password == "" {
		return api.RegisterRequest{}, ValidationError{Message: "Todos los campos son obligatorios"}
	}
	if d.Password != d.ConfirmPassword {
		return api.RegisterRequest{}, ValidationError{Message: "Las contraseñas no coinciden"}
	}
	role := d.Role
	if role == "" {
		role = "CLIENTE"
	}
	req := api.RegisterRequest{
		Name:     d.Name,
		Surname:  d.Surname,
		Email:    d.Email,
		Phone:    d.Phone,
		Password: d.Password,
		Roles:    []string{role},
	}
	if d.Birthdate != "" {
		apiDate, ok := dates.ToAPIFormat(d.Birthdate)
		if !ok {
			return api.RegisterRequest{}, ValidationError{Message: "Formato de fecha inválido"}
		}
		req.Birthdate = &apiDate
	}
	if d.PhotoPath != "" {
		req.PhotoPath = &d.PhotoPath
	}
	return req, nil
}

func (a *Auth) setState(s AuthState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
	a.obs.State(s)
}

func (a *Auth) setLogin(s OpState) {
	a.mu.Lock()
	a.login = s
	a.mu.Unlock()
	a.obs.Login(s)
}

func (a *Auth) setRegister(s OpState) {
	a.mu.Lock()
	a.register = s
	a.mu.Unlock()
	a.obs.Register(s)
}
