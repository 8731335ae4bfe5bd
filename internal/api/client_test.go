package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/tests/testutil"
)

func newClient(t *testing.T, backend *testutil.Backend, token string) *api.Client {
	t.Helper()
	return api.NewClient(backend.URL(), testutil.StaticToken(token), 5*time.Second, nil)
}

func TestClientAttachesBearerToken(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle("/rejimde/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		testutil.WriteSuccess(w, model.NotificationPage{})
	})

	_, err := newClient(t, backend, "secret-token").Notifications(context.Background())
	require.NoError(t, err)
	require.Len(t, backend.Requests(), 1)
}

func TestClientOmitsAuthHeaderWithoutToken(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle("/rejimde/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		testutil.WriteSuccess(w, model.NotificationPage{})
	})

	_, err := newClient(t, backend, "").Notifications(context.Background())
	require.NoError(t, err)
}

func TestClientDecodesEnvelope(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Respond("/rejimde/v1/notifications", model.NotificationPage{
		Notifications: []model.Notification{
			{ID: 1, Category: model.CategorySocial, Title: "Ayşe cheered you on"},
			{ID: 2, Category: model.CategoryLevel, Title: "Level 5 reached", Read: true},
		},
		UnreadCount: 1,
	})

	page, err := newClient(t, backend, "token").Notifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, 1, page.UnreadCount)
	assert.Equal(t, model.CategorySocial, page.Notifications[0].Category)
}

func TestClientRejectsNonSuccessStatus(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle("/rejimde/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "error", "data": nil})
	})

	_, err := newClient(t, backend, "token").Notifications(context.Background())
	assert.Error(t, err)
	assert.False(t, api.IsAuthError(err))
}

func TestClientUnauthorizedIsAuthError(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.RespondError("/rejimde/v1/me", http.StatusUnauthorized)

	_, err := newClient(t, backend, "expired").Me(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
}

func TestClientForbiddenIsAuthError(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.RespondError("/rejimde/v1/expert-notifications", http.StatusForbidden)

	_, err := newClient(t, backend, "token").ExpertNotifications(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
}

func TestClientRetriesRateLimit(t *testing.T) {
	backend := testutil.NewBackend(t)
	attempts := 0
	backend.Handle("/rejimde/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		testutil.WriteSuccess(w, model.NotificationPage{UnreadCount: 4})
	})

	page, err := newClient(t, backend, "token").Notifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 4, page.UnreadCount)
}

func TestMarkAllReadSendsAllFlag(t *testing.T) {
	backend := testutil.NewBackend(t)
	var body map[string]interface{}
	backend.Handle("/rejimde/v1/notifications/mark-read", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		testutil.WriteSuccess(w, nil)
	})

	err := newClient(t, backend, "token").MarkNotificationsRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, body["all"])
	assert.NotContains(t, body, "ids")
}

func TestMarkReadSendsIDs(t *testing.T) {
	backend := testutil.NewBackend(t)
	var body map[string]interface{}
	backend.Handle("/rejimde/v1/notifications/mark-read", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		testutil.WriteSuccess(w, nil)
	})

	err := newClient(t, backend, "token").MarkNotificationsRead(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{3.0, 5.0}, body["ids"])
	assert.NotContains(t, body, "all")
}

func TestMarkReadRejectsErrorEnvelope(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle("/rejimde/v1/notifications/mark-read", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","data":null}`))
	})

	// A 2xx response still fails when the envelope status says so, even
	// though mark-read discards the body.
	err := newClient(t, backend, "token").MarkNotificationsRead(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `backend status "error"`)
}

func TestClansDecodesDirectory(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Respond("/rejimde/v1/clans", []model.ClanSummary{
		{ID: 1, Name: "Morning Runners", MemberCount: 12, TotalPoints: 4200, Rank: 1},
		{ID: 2, Name: "Night Owls", MemberCount: 8, TotalPoints: 3100, Rank: 2},
	})

	clans, err := newClient(t, backend, "token").Clans(context.Background())
	require.NoError(t, err)
	require.Len(t, clans, 2)
	assert.Equal(t, "Morning Runners", clans[0].Name)
	assert.Equal(t, 2, clans[1].Rank)
}

func TestActivityQueryParameters(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle("/rejimde/v1/activity", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "40", q.Get("offset"))
		assert.Equal(t, "exercise_complete", q.Get("filter"))
		testutil.WriteSuccess(w, []model.ActivityItem{})
	})

	_, err := newClient(t, backend, "token").Activity(context.Background(), api.ActivityQuery{
		Limit:  20,
		Offset: 40,
		Filter: model.EventExerciseComplete,
	})
	require.NoError(t, err)
}
