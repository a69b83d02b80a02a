package source

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Search(ctx context.Context, q Query) ([]domain.RawLeg, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawLeg), args.Error(1)
}

func TestPaced_SpacesQueries(t *testing.T) {
	mockSource := &MockSource{}
	mockSource.On("Search", mock.Anything, mock.Anything).Return([]domain.RawLeg{}, nil).Times(3)

	interval := 40 * time.Millisecond
	src := Paced(mockSource, interval, nil)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := src.Search(ctx, Query{Date: "2026-03-10", Origin: "SFO", Destination: "BOS"})
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 2*interval)
	mockSource.AssertExpectations(t)
}

// slowSource takes delay per query and records when each query ran.
type slowSource struct {
	delay  time.Duration
	err    error
	starts []time.Time
	ends   []time.Time
}

func (s *slowSource) Search(ctx context.Context, q Query) ([]domain.RawLeg, error) {
	s.starts = append(s.starts, time.Now())
	time.Sleep(s.delay)
	s.ends = append(s.ends, time.Now())
	return nil, s.err
}

func TestPaced_GapFollowsSlowQueries(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "successful queries"},
		{name: "failed queries", err: ErrTemporary},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slow := &slowSource{delay: 150 * time.Millisecond, err: tc.err}
			interval := 100 * time.Millisecond
			var logs bytes.Buffer
			src := Paced(slow, interval, slog.New(slog.NewTextHandler(&logs, nil)))

			for i := 0; i < 3; i++ {
				_, err := src.Search(context.Background(), Query{Date: "2026-03-10"})
				assert.ErrorIs(t, err, tc.err)
			}

			require.Len(t, slow.starts, 3)
			for i := 1; i < 3; i++ {
				assert.GreaterOrEqual(t, slow.starts[i].Sub(slow.ends[i-1]), interval)
			}
			assert.Contains(t, logs.String(), "waiting (rate limit)")
		})
	}
}

func TestPaced_ConcurrentCallersTakeTurns(t *testing.T) {
	slow := &slowSource{delay: 20 * time.Millisecond}
	interval := 30 * time.Millisecond
	src := Paced(slow, interval, nil)

	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		go func() {
			_, _ = src.Search(context.Background(), Query{})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 3; i++ {
		<-done
	}

	require.Len(t, slow.starts, 3)
	for i := 1; i < 3; i++ {
		assert.GreaterOrEqual(t, slow.starts[i].Sub(slow.ends[i-1]), interval)
	}
}

func TestPaced_ZeroIntervalDoesNotWait(t *testing.T) {
	mockSource := &MockSource{}
	mockSource.On("Search", mock.Anything, mock.Anything).Return([]domain.RawLeg{}, nil)

	src := Paced(mockSource, 0, nil)
	start := time.Now()
	for i := 0; i < 5; i++ {
		_, err := src.Search(context.Background(), Query{})
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestPaced_CancelledWhileWaiting(t *testing.T) {
	mockSource := &MockSource{}
	mockSource.On("Search", mock.Anything, mock.Anything).Return([]domain.RawLeg{}, nil).Once()

	src := Paced(mockSource, time.Hour, nil)
	_, err := src.Search(context.Background(), Query{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = src.Search(ctx, Query{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	mockSource.AssertExpectations(t)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.yaml")
	fixture := `flights:
  SFO-BOS-2026-03-10:
    - airline: Alaska
      departure: "8:00 AM on Tue, Mar 10"
      arrival: "4:35 PM on Tue, Mar 10"
      duration: "5 hr 35 min"
      stops: 0
      price: "$200"
    - airline: Delta
      departure: "6:00 AM on Tue, Mar 10"
      arrival: "6:10 PM on Tue, Mar 10"
      duration: "9 hr 10 min"
      stops: 1
      price: "$150"
`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	src, err := LoadFile(path)
	require.NoError(t, err)

	legs, err := src.Search(context.Background(), Query{Date: "2026-03-10", Origin: "sfo", Destination: "bos"})
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "Alaska", legs[0].Airline)
	assert.Equal(t, 1, legs[1].Stops)
	assert.Equal(t, "$150", legs[1].Price)

	legs, err = src.Search(context.Background(), Query{Date: "2026-03-11", Origin: "SFO", Destination: "BOS"})
	require.NoError(t, err)
	assert.Empty(t, legs)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flights: [unterminated"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights", r.URL.Path)
		assert.Equal(t, "SFO", r.URL.Query().Get("from"))
		assert.Equal(t, "BOS", r.URL.Query().Get("to"))
		assert.Equal(t, "2026-03-10", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"flights":[{"airline":"Alaska","departure":"8:00 AM on Tue, Mar 10","arrival":"4:35 PM on Tue, Mar 10","duration":"5 hr 35 min","stops":0,"price":"$200"}]}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", time.Second)
	legs, err := src.Search(context.Background(), Query{Date: "2026-03-10", Origin: "SFO", Destination: "BOS"})

	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "$200", legs[0].Price)
}

func TestHTTPSource_StatusMapping(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		temporary bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, temporary: true},
		{name: "server error", status: http.StatusBadGateway, temporary: true},
		{name: "bad request", status: http.StatusBadRequest, temporary: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, time.Second).Search(context.Background(), Query{})
			require.Error(t, err)
			assert.Equal(t, tc.temporary, errors.Is(err, ErrTemporary))
		})
	}
}
