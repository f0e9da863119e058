package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

func TestWebhookNotifierPostsEvent(t *testing.T) {
	var got CallbackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	n.now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }

	err := n.Notify(context.Background(), domain.CommissionEvent{
		Type:         domain.CommissionEventPaid,
		RecordIDs:    []string{"r1", "r2"},
		RowsAffected: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionEventPaid, got.Type)
	assert.Equal(t, []string{"r1", "r2"}, got.RecordIDs)
	assert.Equal(t, int64(2), got.RowsAffected)
	assert.True(t, got.SentAt.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWebhookNotifierNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL, time.Second).Notify(context.Background(), domain.CommissionEvent{Type: "x"})
	assert.ErrorContains(t, err, "502")
}

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) Notify(context.Context, domain.CommissionEvent) error {
	r.calls++
	return r.err
}

func TestFanoutNotifiesAll(t *testing.T) {
	boom := errors.New("broker down")
	a := &recordingNotifier{err: boom}
	b := &recordingNotifier{}

	err := Fanout{a, nil, b}.Notify(context.Background(), domain.CommissionEvent{Type: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}
