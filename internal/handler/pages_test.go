package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/handler"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/auth"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/validate"

	service_mocks "github.com/Lank-karim/test-gestion-Biblioth-que/internal/handler/mocks"
)

func newPageRouter(t *testing.T, register func(e *echo.Echo, h *handler.Handler)) (*echo.Echo, *service_mocks.MockLibraryService) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	svc := service_mocks.NewMockLibraryService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, auth.Config{}, log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	renderer, err := handler.NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer
	register(e, h)
	return e, svc
}

func TestHandler_CancelReservation(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		id           string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			id:   "10",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnReservation(context.Background(), 10).
					Return(model.Reservation{ID: 10, Status: model.StatusReturned}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"reservation cancelled","status":"success"}`,
			},
		},
		{
			name: "already returned. verdict, not an http error",
			id:   "10",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnReservation(context.Background(), 10).
					Return(model.Reservation{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"reservation already returned","status":"error"}`,
			},
		},
		{
			name: "err. not found",
			id:   "777",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnReservation(context.Background(), 777).
					Return(model.Reservation{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newPageRouter(t, func(e *echo.Echo, h *handler.Handler) {
				e.POST("/reservations/:id/cancel", h.CancelReservation)
			})

			r := httptest.NewRequest(http.MethodPost, "/reservations/"+tt.id+"/cancel", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_QuickReserve(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		id           string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			id:   "1",
			body: `{"reader_id":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{BookID: 1, ReaderID: 2}).
					Return(model.Reservation{ID: 10, BookID: 1, ReaderID: 2, Status: model.StatusActive, ReaderName: "Aria Dupont"}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"book reserved for Aria Dupont","reservation_id":10,"status":"success"}`,
			},
		},
		{
			name: "book reserved. verdict, not an http error",
			id:   "1",
			body: `{"reader_id":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{BookID: 1, ReaderID: 2}).
					Return(model.Reservation{}, errs.ErrBookReserved)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"book already has an active reservation","status":"error"}`,
			},
		},
		{
			name: "reader busy. verdict, not an http error",
			id:   "1",
			body: `{"reader_id":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{BookID: 1, ReaderID: 2}).
					Return(model.Reservation{}, errs.ErrReaderHasActive)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"reader already has an active reservation","status":"error"}`,
			},
		},
		{
			name: "err. book not found",
			id:   "77",
			body: `{"reader_id":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{BookID: 77, ReaderID: 2}).
					Return(model.Reservation{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "err. reader_id required",
			id:           "1",
			body:         `{}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'QuickReserveRequest.ReaderID' Error:Field validation for 'ReaderID' failed on the 'required' tag"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newPageRouter(t, func(e *echo.Echo, h *handler.Handler) {
				e.POST("/books/:id/reserve", h.QuickReserve)
			})

			r := httptest.NewRequest(http.MethodPost, "/books/"+tt.id+"/reserve", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_AddReaderPage(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		bodyContains string
		location     string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		form         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "created",
			form: "name=Aria+Dupont&email=aria%40example.com",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReader(context.Background(), model.ReaderRequest{Name: "Aria Dupont", Email: "aria@example.com"}).
					Return(model.Reader{ID: 1, Name: "Aria Dupont", Email: "aria@example.com"}, nil)
			},
			response: response{
				expectedCode: http.StatusSeeOther,
				location:     "/readers",
			},
		},
		{
			name: "duplicate email re-renders the form",
			form: "name=Aria+Dupont&email=aria%40example.com",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReader(context.Background(), model.ReaderRequest{Name: "Aria Dupont", Email: "aria@example.com"}).
					Return(model.Reader{}, errs.ErrEmailTaken)
			},
			response: response{
				expectedCode: http.StatusOK,
				bodyContains: "email is already used by another reader",
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newPageRouter(t, func(e *echo.Echo, h *handler.Handler) {
				e.POST("/readers/add", h.AddReaderPage)
			})

			r := httptest.NewRequest(http.MethodPost, "/readers/add", strings.NewReader(tt.form))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.location != "" {
				require.Equal(t, tt.response.location, w.Header().Get(echo.HeaderLocation))
			}
			if tt.response.bodyContains != "" {
				require.Contains(t, w.Body.String(), tt.response.bodyContains)
			}
		})
	}
}

func TestHandler_AddBookPage(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		bodyContains string
		location     string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		form         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "created",
			form: "title=1984&author=George+Orwell&year=1949&isbn=978-0-452-28423-4",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(context.Background(), model.BookRequest{Title: "1984", Author: "George Orwell", Year: 1949, Isbn: "978-0-452-28423-4"}).
					Return(model.Book{ID: 1, Title: "1984", Author: "George Orwell", Year: 1949, Isbn: "978-0-452-28423-4", Available: true}, nil)
			},
			response: response{
				expectedCode: http.StatusSeeOther,
				location:     "/books",
			},
		},
		{
			name: "duplicate isbn re-renders the form",
			form: "title=1984&author=George+Orwell&year=1949&isbn=978-0-452-28423-4",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(context.Background(), model.BookRequest{Title: "1984", Author: "George Orwell", Year: 1949, Isbn: "978-0-452-28423-4"}).
					Return(model.Book{}, errs.ErrIsbnTaken)
			},
			response: response{
				expectedCode: http.StatusOK,
				bodyContains: "isbn is already used by another book",
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newPageRouter(t, func(e *echo.Echo, h *handler.Handler) {
				e.POST("/books/add", h.AddBookPage)
			})

			r := httptest.NewRequest(http.MethodPost, "/books/add", strings.NewReader(tt.form))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.location != "" {
				require.Equal(t, tt.response.location, w.Header().Get(echo.HeaderLocation))
			}
			if tt.response.bodyContains != "" {
				require.Contains(t, w.Body.String(), tt.response.bodyContains)
			}
		})
	}
}
