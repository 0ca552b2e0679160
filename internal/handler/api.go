package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
)

// httpError maps domain sentinels onto HTTP statuses: absent entities are
// 404, state conflicts and uniqueness violations are 409, field-level
// rejections are 400, everything unexpected is 500.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrBookReserved),
		errors.Is(err, errs.ErrReaderHasActive),
		errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrEmailTaken),
		errors.Is(err, errs.ErrIsbnTaken),
		errors.Is(err, errs.ErrHasActiveReservations):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrYearInFuture),
		errors.Is(err, errs.ErrNameAllDigits):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

// ListBooksAPI godoc
//
//	@Summary	List all books ordered by title
//	@Tags		books
//	@Produce	json
//	@Success	200	{array}	model.Book
//	@Router		/api/books/ [get]
func (h *Handler) ListBooksAPI(c echo.Context) error {
	books, err := h.librarySvc.ListBooks(c.Request().Context(), model.BookFilter{SortBy: "title"})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books.Items)
}

// CreateReservationAPI godoc
//
//	@Summary	Reserve a book for a reader
//	@Tags		reservations
//	@Accept		json
//	@Produce	json
//	@Param		reservation	body		model.CreateReservationRequest	true	"reservation"
//	@Success	201			{object}	model.Reservation
//	@Failure	404			{object}	echo.HTTPError	"book or reader not found"
//	@Failure	409			{object}	echo.HTTPError	"book unavailable or reader busy"
//	@Router		/api/reservations/ [post]
func (h *Handler) CreateReservationAPI(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	rsv, err := h.librarySvc.CreateReservation(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rsv)
}

// GetReservationAPI godoc
//
//	@Summary	Get a reservation
//	@Tags		reservations
//	@Produce	json
//	@Param		id	path		int	true	"reservation id"
//	@Success	200	{object}	model.Reservation
//	@Failure	404	{object}	echo.HTTPError
//	@Router		/api/reservations/{id} [get]
func (h *Handler) GetReservationAPI(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rsv, err := h.librarySvc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rsv)
}

// ReturnReservationAPI godoc
//
//	@Summary	Return a reserved book
//	@Tags		reservations
//	@Produce	json
//	@Param		id	path		int	true	"reservation id"
//	@Success	200	{object}	model.Reservation
//	@Failure	404	{object}	echo.HTTPError
//	@Failure	409	{object}	echo.HTTPError	"already returned"
//	@Router		/api/reservations/{id}/return [post]
func (h *Handler) ReturnReservationAPI(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rsv, err := h.librarySvc.ReturnReservation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rsv)
}

// Login godoc
//
//	@Summary	Admin login, returns a bearer token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		credentials	body		model.LoginRequest	true	"credentials"
//	@Success	200			{object}	map[string]string
//	@Failure	401			{object}	echo.HTTPError
//	@Router		/api/auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	token, err := h.librarySvc.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// DeleteBookAPI godoc
//
//	@Summary	Delete a book (admin)
//	@Tags		books
//	@Security	BearerAuth
//	@Param		id	path	int	true	"book id"
//	@Success	204
//	@Failure	409	{object}	echo.HTTPError	"active reservations exist"
//	@Router		/api/books/{id} [delete]
func (h *Handler) DeleteBookAPI(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.librarySvc.DeleteBook(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteReaderAPI godoc
//
//	@Summary	Delete a reader (admin)
//	@Tags		readers
//	@Security	BearerAuth
//	@Param		id	path	int	true	"reader id"
//	@Success	204
//	@Failure	409	{object}	echo.HTTPError	"active reservations exist"
//	@Router		/api/readers/{id} [delete]
func (h *Handler) DeleteReaderAPI(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.librarySvc.DeleteReader(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
