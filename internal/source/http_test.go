package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

func TestHTTP_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fmsca-records.csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,legal_name\n1,ACME\n2,BETA\n"))
	}))
	defer srv.Close()

	src := NewHTTP(srv.URL+"/fmsca-records.csv", srv.Client(), ParseOptions{})
	records, _, err := src.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "BETA", records[1].Get(core.FieldLegalName))
}

func TestHTTP_NonSuccessIsUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", status)
			}))
			defer srv.Close()

			_, _, err := NewHTTP(srv.URL, srv.Client(), ParseOptions{}).Load(context.Background())

			require.ErrorIs(t, err, core.ErrSourceUnavailable)
			assert.Contains(t, err.Error(), http.StatusText(status))
		})
	}
}

func TestHTTP_ConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := NewHTTP(url, nil, ParseOptions{}).Load(context.Background())

	require.ErrorIs(t, err, core.ErrSourceUnavailable)
}

func TestHTTP_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := NewHTTP(srv.URL, srv.Client(), ParseOptions{}).Load(ctx)

	require.ErrorIs(t, err, core.ErrSourceUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
