package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
)

func TestBookRequest_Validate(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name    string
		req     model.BookRequest
		wantErr error
	}{
		{
			name: "ok",
			req:  model.BookRequest{Title: " L'Étranger ", Author: "Albert Camus", Year: 1942, Isbn: "978-2-07-036002-4"},
		},
		{
			name:    "err. year in future",
			req:     model.BookRequest{Title: "Demain", Author: "Quelqu'un", Year: time.Now().Year() + 1, Isbn: "978-0-00-000000-1"},
			wantErr: errs.ErrYearInFuture,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "L'Étranger", tt.req.Title)
		})
	}
}

func TestReaderRequest_Validate(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name      string
		req       model.ReaderRequest
		wantEmail string
		wantErr   error
	}{
		{
			name:      "normalizes email",
			req:       model.ReaderRequest{Name: "Aria Dupont", Email: "  Aria.DUPONT@Example.COM "},
			wantEmail: "aria.dupont@example.com",
		},
		{
			name:    "err. all digit name",
			req:     model.ReaderRequest{Name: "12345", Email: "x@example.com"},
			wantErr: errs.ErrNameAllDigits,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantEmail, tt.req.Email)
		})
	}
}
