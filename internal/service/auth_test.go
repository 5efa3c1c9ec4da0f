package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/flyt/flyt/internal/api"
	"github.com/flyt/flyt/internal/database"
	"github.com/flyt/flyt/internal/session"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "flyt.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewStore(db, zerolog.Nop())
}

// fakeAuthClient scripts the three auth endpoints.
type fakeAuthClient struct {
	loginResp   api.AuthResponse
	loginErr    error
	registerErr error
	profile     api.UserProfile
	profileErr  error

	loginCalls    int
	registerCalls int
	meCalls       int
}

func (f *fakeAuthClient) Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error) {
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeAuthClient) Register(ctx context.Context, req api.RegisterRequest) error {
	f.registerCalls++
	return f.registerErr
}

func (f *fakeAuthClient) Me(ctx context.Context) (api.UserProfile, error) {
	f.meCalls++
	return f.profile, f.profileErr
}

// stateRecorder collects auth states and op states.
type stateRecorder struct {
	mu     sync.Mutex
	states []AuthState
	logins []OpState
}

func (r *stateRecorder) observers() AuthObservers {
	return AuthObservers{
		State: func(s AuthState) {
			r.mu.Lock()
			r.states = append(r.states, s)
			r.mu.Unlock()
		},
		Login: func(s OpState) {
			r.mu.Lock()
			r.logins = append(r.logins, s)
			r.mu.Unlock()
		},
	}
}

func TestLoginHappyPath(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	roles := "ADMIN"
	client := &fakeAuthClient{
		loginResp: api.AuthResponse{Token: "tok-1", ID: 42},
		profile:   api.UserProfile{ID: 42, Name: "Ana", Roles: &roles},
	}
	rec := &stateRecorder{}
	auth := NewAuth(client, store, rec.observers(), zerolog.Nop())

	auth.Login(ctx, "ana@example.com", "secret")

	st := auth.State()
	require.Equal(t, LoggedIn, st.Phase)
	require.NotNil(t, st.Profile)
	require.True(t, st.Profile.IsAdmin())

	sess := store.Get(ctx)
	require.Equal(t, "tok-1", sess.Token)
	require.EqualValues(t, 42, sess.UserID)

	require.Equal(t, Success, rec.logins[len(rec.logins)-1].Phase)
	// the pending phase was observable before the profile resolved
	require.Equal(t, Pending, rec.states[0].Phase)
}

func TestLoginValidationBlocksNetwork(t *testing.T) {
	t.Parallel()

	client := &fakeAuthClient{}
	rec := &stateRecorder{}
	auth := NewAuth(client, newTestStore(t), rec.observers(), zerolog.Nop())

	auth.Login(context.Background(), "", "secret")
	auth.Login(context.Background(), "ana@example.com", "")

	require.Zero(t, client.loginCalls, "validation failures must not reach the network")
	require.Len(t, rec.logins, 2)
	require.Equal(t, Failed, rec.logins[0].Phase)
}

func TestLoginProfileFailureInvalidatesSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	client := &fakeAuthClient{
		loginResp:  api.AuthResponse{Token: "tok-1", ID: 42},
		profileErr: &api.ServerError{Status: 500, Message: "boom"},
	}
	rec := &stateRecorder{}
	auth := NewAuth(client, store, rec.observers(), zerolog.Nop())

	auth.Login(ctx, "ana@example.com", "secret")

	require.Equal(t, LoggedOut, auth.State().Phase)
	require.Equal(t, session.Session{}, store.Get(ctx), "session must be cleared")

	last := rec.logins[len(rec.logins)-1]
	require.Equal(t, Failed, last.Phase)
	require.Equal(t, "Login correcto, pero no se pudo cargar el perfil.", last.Message)
}

func TestLoginServerErrorSurfacesEnvelopeMessage(t *testing.T) {
	t.Parallel()

	client := &fakeAuthClient{loginErr: &api.ServerError{Status: 401, Message: "Credenciales inválidas"}}
	rec := &stateRecorder{}
	auth := NewAuth(client, newTestStore(t), rec.observers(), zerolog.Nop())

	auth.Login(context.Background(), "ana@example.com", "wrong")

	last := rec.logins[len(rec.logins)-1]
	require.Equal(t, Failed, last.Phase)
	require.Equal(t, "Credenciales inválidas", last.Message)
	require.Zero(t, client.meCalls)
}

func TestRestoreWithoutTokenStaysLoggedOut(t *testing.T) {
	t.Parallel()

	client := &fakeAuthClient{}
	auth := NewAuth(client, newTestStore(t), AuthObservers{}, zerolog.Nop())

	auth.Restore(context.Background())

	require.Equal(t, LoggedOut, auth.State().Phase)
	require.Zero(t, client.meCalls, "no token, no profile fetch")
}

func TestRestoreResolvesProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SetToken(ctx, "opaque-token"))

	client := &fakeAuthClient{profile: api.UserProfile{ID: 7}}
	auth := NewAuth(client, store, AuthObservers{}, zerolog.Nop())

	auth.Restore(ctx)

	require.Equal(t, LoggedIn, auth.State().Phase)
	require.Equal(t, 1, client.meCalls)
}

func TestRestoreProfileFailureLogsOut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SetToken(ctx, "opaque-token"))

	client := &fakeAuthClient{profileErr: &api.ConnectionError{}}
	auth := NewAuth(client, store, AuthObservers{}, zerolog.Nop())

	auth.Restore(ctx)

	require.Equal(t, LoggedOut, auth.State().Phase)
	require.Equal(t, session.Session{}, store.Get(ctx))
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	auth := NewAuth(&fakeAuthClient{}, store, AuthObservers{}, zerolog.Nop())

	auth.Logout(ctx)
	auth.Logout(ctx)

	require.Equal(t, LoggedOut, auth.State().Phase)
	require.Equal(t, session.Session{}, store.Get(ctx))
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	client := &fakeAuthClient{}
	var outcomes []OpState
	auth := NewAuth(client, newTestStore(t), AuthObservers{
		Register: func(s OpState) { outcomes = append(outcomes, s) },
	}, zerolog.Nop())

	base := RegisterDraft{
		Name: "Ana", Surname: "García", Email: "ana@example.com",
		Phone: "600111222", Password: "secret", ConfirmPassword: "secret",
	}

	missing := base
	missing.Email = ""
	auth.Register(context.Background(), missing)
	require.Equal(t, Failed, outcomes[len(outcomes)-1].Phase)
	require.Equal(t, "Todos los campos son obligatorios", outcomes[len(outcomes)-1].Message)

	mismatch := base
	mismatch.ConfirmPassword = "other"
	auth.Register(context.Background(), mismatch)
	require.Equal(t, "Las contraseñas no coinciden", outcomes[len(outcomes)-1].Message)

	badDate := base
	badDate.Birthdate = "2000-01-15"
	auth.Register(context.Background(), badDate)
	require.Equal(t, "Formato de fecha inválido", outcomes[len(outcomes)-1].Message)

	require.Zero(t, client.registerCalls, "invalid drafts must not reach the network")
}

func TestRegisterSuccessLeavesSessionAlone(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	client := &fakeAuthClient{}
	var outcomes []OpState
	auth := NewAuth(client, store, AuthObservers{
		Register: func(s OpState) { outcomes = append(outcomes, s) },
	}, zerolog.Nop())

	auth.Register(ctx, RegisterDraft{
		Name: "Ana", Surname: "García", Email: "ana@example.com",
		Phone: "600111222", Password: "secret", ConfirmPassword: "secret",
		Birthdate: "15/01/2000",
	})

	require.Equal(t, []OpState{{Phase: Loading}, {Phase: Success}}, outcomes)
	require.Equal(t, 1, client.registerCalls)
	require.Equal(t, session.Session{}, store.Get(ctx), "register never touches the session")
	require.Equal(t, LoggedOut, auth.State().Phase)
}

func TestBuildRegisterRequestShape(t *testing.T) {
	t.Parallel()

	req, err := buildRegisterRequest(RegisterDraft{
		Name: "Ana", Surname: "García", Email: "ana@example.com",
		Phone: "600111222", Password: "secret", ConfirmPassword: "secret",
		Birthdate: "15/01/2000", Role: "ADMIN", PhotoPath: "/tmp/foto.jpg",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ADMIN"}, req.Roles)
	require.NotNil(t, req.Birthdate)
	require.Equal(t, "2000-01-15", *req.Birthdate)
	require.NotNil(t, req.PhotoPath)

	// role defaults to CLIENTE, optional fields stay nil
	req, err = buildRegisterRequest(RegisterDraft{
		Name: "Ana", Surname: "García", Email: "ana@example.com",
		Phone: "600111222", Password: "secret", ConfirmPassword: "secret",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"CLIENTE"}, req.Roles)
	require.Nil(t, req.Birthdate)
	require.Nil(t, req.PhotoPath)
}
