package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/handler"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/auth"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/validate"

	service_mocks "github.com/Lank-karim/test-gestion-Biblioth-que/internal/handler/mocks"
)

func newTestRouter(t *testing.T, register func(e *echo.Echo, h *handler.Handler)) (*echo.Echo, *service_mocks.MockLibraryService) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	svc := service_mocks.NewMockLibraryService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, auth.Config{}, log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	register(e, h)
	return e, svc
}

func TestHandler_ListBooksAPI(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ListBooks(context.Background(), model.BookFilter{SortBy: "title"}).
					Return(model.ListBooks{
						Paging: model.Paging{TotalElements: 1},
						Items: []model.Book{
							{
								ID:        1,
								Title:     "Vingt mille lieues sous les mers",
								Author:    "Jules Verne",
								Year:      1870,
								Isbn:      "978-2-253-00632-4",
								Available: true,
							},
						},
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"id":1,"title":"Vingt mille lieues sous les mers","author":"Jules Verne","year":1870,"isbn":"978-2-253-00632-4","available":true,"created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"}]`,
			},
		},
		{
			name: "ok. empty",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ListBooks(context.Background(), model.BookFilter{SortBy: "title"}).
					Return(model.ListBooks{Items: []model.Book{}}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[]`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ListBooks(context.Background(), model.BookFilter{SortBy: "title"}).
					Return(model.ListBooks{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newTestRouter(t, func(e *echo.Echo, h *handler.Handler) {
				e.GET("/api/books/", h.ListBooksAPI)
			})

			r := httptest.NewRequest(http.MethodGet, "/api/books/", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateReservationAPI(t *testing.T) {
	t.Parallel()
	createdAt := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "created",
			body: `{"book_id":1,"reader_id":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{BookID: 1, ReaderID: 2}).
					Return(model.Reservation{
						ID:             10,
						ReservationUid: "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
						BookID:         1,
						ReaderID:       2,
						Status:         model.StatusActive,
						CreatedAt:      createdAt,
						BookTitle:      "Vingt mille lieues sous les mers",
						ReaderName:     "Aria Dupont",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":10,"reservation_uid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","book_id":1,"reader_id":2,"status":"ACTIVE","notes":"","created_at":"2026-05-10T12:00:00Z","returned_at":null,"book_title":"Vingt mille lieues sous les mers","reader_name":"Aria Dupont"}`,
			},
		},
		{
			name: "err. book already reserved",
			body: `{"book_id":1,"reader_id":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{BookID: 1, ReaderID: 2}).
					Return(model.Reservation{}, errs.ErrBookReserved)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book already has an active reservation"}`,
			},
		},
		{
			name: "err. reader busy",
			body: `{"book_id":1,"reader_id":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{BookID: 1, ReaderID: 2}).
					Return(model.Reservation{}, errs.ErrReaderHasActive)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"reader already has an active reservation"}`,
			},
		},
		{
			name: "err. book not found",
			body: `{"book_id":77,"reader_id":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{BookID: 77, ReaderID: 2}).
					Return(model.Reservation{}, errors.Wrap(errs.ErrNotFound, "book 77"))
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"book 77: not found"}`,
			},
		},
		{
			name:         "err. reader_id required",
			body:         `{"book_id":1}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'CreateReservationRequest.ReaderID' Error:Field validation for 'ReaderID' failed on the 'required' tag"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newTestRouter(t, func(e *echo.Echo, h *handler.Handler) {
				e.POST("/api/reservations/", h.CreateReservationAPI)
			})

			r := httptest.NewRequest(http.MethodPost, "/api/reservations/", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReturnReservationAPI(t *testing.T) {
	t.Parallel()
	createdAt := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	returnedAt := time.Date(2026, time.May, 24, 9, 30, 0, 0, time.UTC)
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
					Return(model.Reservation{
						ID:             10,
						ReservationUid: "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
						BookID:         1,
						ReaderID:       2,
						Status:         model.StatusReturned,
						CreatedAt:      createdAt,
						ReturnedAt:     &returnedAt,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":10,"reservation_uid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","book_id":1,"reader_id":2,"status":"RETURNED","notes":"","created_at":"2026-05-10T12:00:00Z","returned_at":"2026-05-24T09:30:00Z"}`,
			},
		},
		{
			name: "err. already returned",
			id:   "10",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ReturnReservation(context.Background(), 10).
					Return(model.Reservation{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"reservation already returned"}`,
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
		{
			name:         "err. bad id",
			id:           "abc",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newTestRouter(t, func(e *echo.Echo, h *handler.Handler) {
				e.POST("/api/reservations/:id/return", h.ReturnReservationAPI)
			})

			r := httptest.NewRequest(http.MethodPost, "/api/reservations/"+tt.id+"/return", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"email":"admin@library.fr","password":"s3cret"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					Login(context.Background(), model.LoginRequest{Email: "admin@library.fr", Password: "s3cret"}).
					Return("jwt-token", nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"token":"jwt-token"}`,
			},
		},
		{
			name: "err. bad credentials",
			body: `{"email":"admin@library.fr","password":"wrong"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					Login(context.Background(), model.LoginRequest{Email: "admin@library.fr", Password: "wrong"}).
					Return("", errs.ErrBadCredentials)
			},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"invalid email or password"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc := newTestRouter(t, func(e *echo.Echo, h *handler.Handler) {
				e.POST("/api/auth/login", h.Login)
			})

			r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
