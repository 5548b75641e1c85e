package responsewriter_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedora/github-connect/internal/middleware/responsewriter"
)

func TestRecorder(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name:       "nothing written",
			handler:    func(http.ResponseWriter, *http.Request) {},
			wantStatus: http.StatusOK,
		},
		{
			name: "body without header",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "first status wins",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.WriteHeader(http.StatusOK)
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			w := responsewriter.Wrap(rec)

			tt.handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Status())
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("does not double wrap", func(t *testing.T) {
		w := responsewriter.Wrap(httptest.NewRecorder())
		assert.Same(t, w, responsewriter.Wrap(w))
	})

	t.Run("unwraps to the original writer", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := responsewriter.Wrap(rec)

		require.Implements(t, (*interface{ Unwrap() http.ResponseWriter })(nil), w)
		assert.Same(t, rec, w.Unwrap())
	})
}
