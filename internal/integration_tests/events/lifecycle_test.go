// Package events exercises the whole stack end to end over HTTP: real
// router, middleware, services, in-memory store and treasury.
package events

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showup/internal/confirmation"
	"showup/internal/event/store"
	jwttoken "showup/internal/jwt_token"
	"showup/internal/notifications"
	"showup/internal/registry"
	"showup/internal/rsvp"
	"showup/internal/settlement"
	httptransport "showup/internal/transport/http"
	"showup/internal/treasury"
	id "showup/pkg/domain"
)

type stack struct {
	router   http.Handler
	jwt      *jwttoken.Service
	treasury *treasury.InMemory
	notifier *notifications.Memory
}

func newStack(t *testing.T, gracePeriod time.Duration) *stack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eventStore := store.NewInMemory()
	funds := treasury.NewInMemory()
	notifier := notifications.NewMemory()
	registryID := id.RegistryID(uuid.New())

	registrySvc := registry.New(eventStore, registryID,
		registry.WithLogger(logger), registry.WithNotifier(notifier))
	rsvpSvc := rsvp.New(eventStore, funds,
		rsvp.WithLogger(logger), rsvp.WithNotifier(notifier))
	confirmationSvc := confirmation.New(eventStore, funds,
		confirmation.WithLogger(logger), confirmation.WithNotifier(notifier))
	settlementSvc := settlement.New(eventStore, funds,
		settlement.WithLogger(logger), settlement.WithNotifier(notifier),
		settlement.WithGracePeriod(gracePeriod))

	jwtService := jwttoken.New("integration-signing-key", "showup", "showup-api")
	handler := httptransport.NewHandler(logger, registrySvc, rsvpSvc, confirmationSvc, settlementSvc)
	router := httptransport.NewRouter(handler, jwttoken.NewAdapter(jwtService), nil, logger)

	return &stack{router: router, jwt: jwtService, treasury: funds, notifier: notifier}
}

func (st *stack) do(t *testing.T, method, path string, body any, as id.PrincipalID) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if !as.IsNil() {
		token, err := st.jwt.GenerateAccessToken(as, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	st.router.ServeHTTP(w, req)
	return w
}

// TestEventLifecycle walks the full protocol: create, three RSVPs, one
// confirmation, then a sweep of the two no-show deposits.
func TestEventLifecycle(t *testing.T) {
	const grace = 50 * time.Millisecond
	st := newStack(t, grace)

	organizer := id.PrincipalID(uuid.New())
	alice := id.PrincipalID(uuid.New())
	bob := id.PrincipalID(uuid.New())
	carol := id.PrincipalID(uuid.New())

	scheduledAt := time.Now().Add(100 * time.Millisecond)

	// Create.
	w := st.do(t, http.MethodPost, "/events", map[string]any{
		"scheduled_at": scheduledAt,
		"deposit":      100,
		"capacity":     10,
		"data_ref":     "ipfs://poster",
	}, organizer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	eventPath := "/events/" + created.ID

	// A replayed creation collides.
	w = st.do(t, http.MethodPost, "/events", map[string]any{
		"scheduled_at": scheduledAt,
		"deposit":      100,
		"capacity":     10,
	}, organizer)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Three attendees stake deposits.
	for _, attendee := range []id.PrincipalID{alice, bob, carol} {
		w = st.do(t, http.MethodPost, eventPath+"/rsvp", map[string]any{"payment": 100}, attendee)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	eventID, err := id.ParseEventID(created.ID)
	require.NoError(t, err)
	held, err := st.treasury.Held(t.Context(), eventID)
	require.NoError(t, err)
	assert.Equal(t, id.Amount(300), held)

	// Wrong stake is refused.
	w = st.do(t, http.MethodPost, eventPath+"/rsvp", map[string]any{"payment": 99}, id.PrincipalID(uuid.New()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Sweep before the grace period is refused.
	w = st.do(t, http.MethodPost, eventPath+"/settlement", nil, organizer)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Alice shows up; the organizer confirms her and she gets her deposit back.
	w = st.do(t, http.MethodPost, eventPath+"/attendees/"+alice.String()+"/confirm", nil, organizer)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Equal(t, id.Amount(100), st.treasury.PaidTo(eventID, alice))

	// Nobody but the organizer can confirm.
	w = st.do(t, http.MethodPost, eventPath+"/attendees/"+bob.String()+"/confirm", nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// After the grace period the organizer sweeps the two no-shows.
	time.Sleep(time.Until(scheduledAt.Add(grace)) + 20*time.Millisecond)

	w = st.do(t, http.MethodPost, eventPath+"/settlement", nil, organizer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var settled struct {
		Payout id.Amount `json:"payout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settled))
	assert.Equal(t, id.Amount(200), settled.Payout)
	assert.Equal(t, id.Amount(200), st.treasury.PaidTo(eventID, organizer))

	held, err = st.treasury.Held(t.Context(), eventID)
	require.NoError(t, err)
	assert.Equal(t, id.Amount(0), held, "escrow fully drained")

	// The sweep is terminal.
	w = st.do(t, http.MethodPost, eventPath+"/settlement", nil, organizer)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The record remains queryable, flagged paid out.
	w = st.do(t, http.MethodGet, eventPath, nil, id.PrincipalID{})
	require.Equal(t, http.StatusOK, w.Code)
	var final struct {
		PaidOut bool `json:"paid_out"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &final))
	assert.True(t, final.PaidOut)

	// One notification per successful state change.
	assert.Len(t, st.notifier.SentOf(notifications.KindEventCreated), 1)
	assert.Len(t, st.notifier.SentOf(notifications.KindRSVPRecorded), 3)
	assert.Len(t, st.notifier.SentOf(notifications.KindAttendeeConfirmed), 1)
	assert.Len(t, st.notifier.SentOf(notifications.KindDepositsSettled), 1)
}

// TestBatchConfirmation confirms a whole event in one call.
func TestBatchConfirmation(t *testing.T) {
	st := newStack(t, time.Hour)

	organizer := id.PrincipalID(uuid.New())
	attendees := []id.PrincipalID{
		id.PrincipalID(uuid.New()),
		id.PrincipalID(uuid.New()),
		id.PrincipalID(uuid.New()),
	}

	w := st.do(t, http.MethodPost, "/events", map[string]any{
		"scheduled_at": time.Now().Add(time.Hour),
		"deposit":      50,
		"capacity":     5,
	}, organizer)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	eventPath := "/events/" + created.ID

	for _, attendee := range attendees {
		w = st.do(t, http.MethodPost, eventPath+"/rsvp", map[string]any{"payment": 50}, attendee)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = st.do(t, http.MethodPost, eventPath+"/confirmations", nil, organizer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Confirmed []id.PrincipalID `json:"confirmed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.ElementsMatch(t, attendees, result.Confirmed)

	eventID, err := id.ParseEventID(created.ID)
	require.NoError(t, err)
	for _, attendee := range attendees {
		assert.Equal(t, id.Amount(50), st.treasury.PaidTo(eventID, attendee))
	}
	held, err := st.treasury.Held(t.Context(), eventID)
	require.NoError(t, err)
	assert.Equal(t, id.Amount(0), held)
}
