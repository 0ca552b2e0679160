package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
)

const (
	bookPageSize        = 10
	readerPageSize      = 15
	reservationPageSize = 20
)

func queryInt(c echo.Context, name string) int {
	v, _ := strconv.Atoi(c.QueryParam(name)) //nolint:errcheck
	return v
}

func errMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprintf("%v", he.Message)
	}
	return err.Error()
}

// pageNav is the slice of paging state the templates need for prev/next links.
type pageNav struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

func newPageNav(page, size, total int) pageNav {
	if page < 1 {
		page = 1
	}
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	return pageNav{
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
}

func (h *Handler) HomePage(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.librarySvc.Stats(ctx)
	if err != nil {
		return httpError(err)
	}
	recent, err := h.librarySvc.RecentReservations(ctx, 5)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, "home.html", echo.Map{
		"Stats":  stats,
		"Recent": recent,
	})
}

func (h *Handler) BookListPage(c echo.Context) error {
	ctx := c.Request().Context()

	filter := model.BookFilter{
		Search: c.QueryParam("search"),
		Year:   queryInt(c, "year"),
		SortBy: c.QueryParam("sort"),
		Page:   queryInt(c, "page"),
		Size:   bookPageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	switch c.QueryParam("available") {
	case "true":
		v := true
		filter.Available = &v
	case "false":
		v := false
		filter.Available = &v
	}

	books, err := h.librarySvc.ListBooks(ctx, filter)
	if err != nil {
		return httpError(err)
	}
	years, err := h.librarySvc.BookYears(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.Render(http.StatusOK, "book_list.html", echo.Map{
		"Books":     books.Items,
		"Years":     years,
		"Search":    filter.Search,
		"Year":      filter.Year,
		"Available": c.QueryParam("available"),
		"Sort":      filter.SortBy,
		"Nav":       newPageNav(filter.Page, filter.Size, books.TotalElements),
		"Total":     books.TotalElements,
	})
}

func (h *Handler) BookDetailPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	book, err := h.librarySvc.GetBook(ctx, id)
	if err != nil {
		return httpError(err)
	}
	history, err := h.librarySvc.BookReservations(ctx, id)
	if err != nil {
		return httpError(err)
	}
	var current *model.Reservation
	for i := range history {
		if history[i].Status == model.StatusActive {
			current = &history[i]
			break
		}
	}

	return c.Render(http.StatusOK, "book_detail.html", echo.Map{
		"Book":    book,
		"History": history,
		"Current": current,
	})
}

func (h *Handler) AddBookPage(c echo.Context) error {
	if c.Request().Method == http.MethodGet {
		return c.Render(http.StatusOK, "book_form.html", echo.Map{"Title": "Add book"})
	}

	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return c.Render(http.StatusOK, "book_form.html", echo.Map{
			"Title": "Add book", "Form": req, "Error": errMessage(err),
		})
	}
	if _, err := h.librarySvc.CreateBook(c.Request().Context(), req); err != nil {
		if herr := httpError(err); herr.Code == http.StatusInternalServerError {
			return herr
		}
		return c.Render(http.StatusOK, "book_form.html", echo.Map{
			"Title": "Add book", "Form": req, "Error": errMessage(err),
		})
	}
	return c.Redirect(http.StatusSeeOther, "/books")
}

func (h *Handler) EditBookPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if c.Request().Method == http.MethodGet {
		book, err := h.librarySvc.GetBook(ctx, id)
		if err != nil {
			return httpError(err)
		}
		form := model.BookRequest{Title: book.Title, Author: book.Author, Year: book.Year, Isbn: book.Isbn}
		return c.Render(http.StatusOK, "book_form.html", echo.Map{
			"Title": "Edit book", "Form": form, "BookID": id,
		})
	}

	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return c.Render(http.StatusOK, "book_form.html", echo.Map{
			"Title": "Edit book", "Form": req, "BookID": id, "Error": errMessage(err),
		})
	}
	if _, err := h.librarySvc.UpdateBook(ctx, id, req); err != nil {
		if herr := httpError(err); herr.Code == http.StatusInternalServerError || herr.Code == http.StatusNotFound {
			return herr
		}
		return c.Render(http.StatusOK, "book_form.html", echo.Map{
			"Title": "Edit book", "Form": req, "BookID": id, "Error": errMessage(err),
		})
	}
	return c.Redirect(http.StatusSeeOther, "/books")
}

func (h *Handler) DeleteBookPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	book, err := h.librarySvc.GetBook(ctx, id)
	if err != nil {
		return httpError(err)
	}

	if c.Request().Method == http.MethodGet {
		return c.Render(http.StatusOK, "book_delete.html", echo.Map{"Book": book})
	}
	if err := h.librarySvc.DeleteBook(ctx, id); err != nil {
		return c.Render(http.StatusOK, "book_delete.html", echo.Map{
			"Book": book, "Error": errMessage(err),
		})
	}
	return c.Redirect(http.StatusSeeOther, "/books")
}

func (h *Handler) ReaderListPage(c echo.Context) error {
	filter := model.ReaderFilter{
		Search: c.QueryParam("search"),
		SortBy: c.QueryParam("sort"),
		Page:   queryInt(c, "page"),
		Size:   readerPageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	readers, err := h.librarySvc.ListReaders(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, "reader_list.html", echo.Map{
		"Readers": readers.Items,
		"Search":  filter.Search,
		"Sort":    filter.SortBy,
		"Nav":     newPageNav(filter.Page, filter.Size, readers.TotalElements),
		"Total":   readers.TotalElements,
	})
}

func (h *Handler) ReaderDetailPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	reader, err := h.librarySvc.GetReader(ctx, id)
	if err != nil {
		return httpError(err)
	}
	history, err := h.librarySvc.ReaderReservations(ctx, id)
	if err != nil {
		return httpError(err)
	}
	active := make([]model.Reservation, 0)
	past := make([]model.Reservation, 0)
	for _, rsv := range history {
		if rsv.Status == model.StatusActive {
			active = append(active, rsv)
		} else {
			past = append(past, rsv)
		}
	}

	return c.Render(http.StatusOK, "reader_detail.html", echo.Map{
		"Reader": reader,
		"Active": active,
		"Past":   past,
		"Total":  len(history),
	})
}

func (h *Handler) AddReaderPage(c echo.Context) error {
	if c.Request().Method == http.MethodGet {
		return c.Render(http.StatusOK, "reader_form.html", echo.Map{"Title": "Add reader"})
	}

	var req model.ReaderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return c.Render(http.StatusOK, "reader_form.html", echo.Map{
			"Title": "Add reader", "Form": req, "Error": errMessage(err),
		})
	}
	if _, err := h.librarySvc.CreateReader(c.Request().Context(), req); err != nil {
		if herr := httpError(err); herr.Code == http.StatusInternalServerError {
			return herr
		}
		return c.Render(http.StatusOK, "reader_form.html", echo.Map{
			"Title": "Add reader", "Form": req, "Error": errMessage(err),
		})
	}
	return c.Redirect(http.StatusSeeOther, "/readers")
}

func (h *Handler) EditReaderPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if c.Request().Method == http.MethodGet {
		reader, err := h.librarySvc.GetReader(ctx, id)
		if err != nil {
			return httpError(err)
		}
		form := model.ReaderRequest{Name: reader.Name, Email: reader.Email}
		return c.Render(http.StatusOK, "reader_form.html", echo.Map{
			"Title": "Edit reader", "Form": form, "ReaderID": id,
		})
	}

	var req model.ReaderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return c.Render(http.StatusOK, "reader_form.html", echo.Map{
			"Title": "Edit reader", "Form": req, "ReaderID": id, "Error": errMessage(err),
		})
	}
	if _, err := h.librarySvc.UpdateReader(ctx, id, req); err != nil {
		if herr := httpError(err); herr.Code == http.StatusInternalServerError || herr.Code == http.StatusNotFound {
			return herr
		}
		return c.Render(http.StatusOK, "reader_form.html", echo.Map{
			"Title": "Edit reader", "Form": req, "ReaderID": id, "Error": errMessage(err),
		})
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/readers/%d", id))
}

func (h *Handler) DeleteReaderPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	reader, err := h.librarySvc.GetReader(ctx, id)
	if err != nil {
		return httpError(err)
	}

	if c.Request().Method == http.MethodGet {
		return c.Render(http.StatusOK, "reader_delete.html", echo.Map{"Reader": reader})
	}
	if err := h.librarySvc.DeleteReader(ctx, id); err != nil {
		return c.Render(http.StatusOK, "reader_delete.html", echo.Map{
			"Reader": reader, "Error": errMessage(err),
		})
	}
	return c.Redirect(http.StatusSeeOther, "/readers")
}

func (h *Handler) ReservationListPage(c echo.Context) error {
	filter := model.ReservationFilter{
		Search: c.QueryParam("search"),
		SortBy: c.QueryParam("sort"),
		Page:   queryInt(c, "page"),
		Size:   reservationPageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	switch c.QueryParam("status") {
	case "active":
		filter.Status = model.StatusActive
	case "returned":
		filter.Status = model.StatusReturned
	}

	reservations, err := h.librarySvc.ListReservations(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, "reservation_list.html", echo.Map{
		"Reservations": reservations.Items,
		"Search":       filter.Search,
		"Status":       c.QueryParam("status"),
		"Sort":         filter.SortBy,
		"Nav":          newPageNav(filter.Page, filter.Size, reservations.TotalElements),
		"Total":        reservations.TotalElements,
	})
}

func (h *Handler) ReservationDetailPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rsv, err := h.librarySvc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, "reservation_detail.html", echo.Map{"Reservation": rsv})
}

func (h *Handler) CreateReservationPage(c echo.Context) error {
	ctx := c.Request().Context()

	renderForm := func(form model.CreateReservationRequest, errMsg string) error {
		available := true
		books, err := h.librarySvc.ListBooks(ctx, model.BookFilter{Available: &available, SortBy: "title"})
		if err != nil {
			return httpError(err)
		}
		readers, err := h.librarySvc.ListReaders(ctx, model.ReaderFilter{SortBy: "name"})
		if err != nil {
			return httpError(err)
		}
		return c.Render(http.StatusOK, "reservation_form.html", echo.Map{
			"Books":   books.Items,
			"Readers": readers.Items,
			"Form":    form,
			"Error":   errMsg,
		})
	}

	if c.Request().Method == http.MethodGet {
		return renderForm(model.CreateReservationRequest{}, "")
	}

	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return renderForm(req, errMessage(err))
	}
	if _, err := h.librarySvc.CreateReservation(ctx, req); err != nil {
		if herr := httpError(err); herr.Code == http.StatusInternalServerError {
			return herr
		}
		return renderForm(req, errMessage(err))
	}
	return c.Redirect(http.StatusSeeOther, "/reservations")
}

// QuickReserve is the one-click reserve action on the book list page.
// Same contract as CancelReservation: business rejections come back as a
// JSON verdict at 200, only absent entities and storage failures are
// HTTP errors.
func (h *Handler) QuickReserve(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.QuickReserveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	rsv, err := h.librarySvc.CreateReservation(c.Request().Context(),
		model.CreateReservationRequest{BookID: id, ReaderID: req.ReaderID})
	if err != nil {
		if herr := httpError(err); herr.Code == http.StatusInternalServerError || herr.Code == http.StatusNotFound {
			return herr
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "error", "message": errMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":         "success",
		"message":        fmt.Sprintf("book reserved for %s", rsv.ReaderName),
		"reservation_id": rsv.ID,
	})
}

// CancelReservation mirrors the quick-cancel endpoint used by the list
// page: always a JSON verdict, business failures are not HTTP errors.
func (h *Handler) CancelReservation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.librarySvc.ReturnReservation(c.Request().Context(), id); err != nil {
		if herr := httpError(err); herr.Code == http.StatusInternalServerError || herr.Code == http.StatusNotFound {
			return herr
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "error", "message": errMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "reservation cancelled"})
}

func (h *Handler) StatisticsPage(c echo.Context) error {
	stats, err := h.librarySvc.Statistics(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, "statistics.html", echo.Map{"S": stats})
}
