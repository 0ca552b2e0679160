package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/auth"
	md "github.com/Lank-karim/test-gestion-Biblioth-que/pkg/middleware"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/validate"
	_ "github.com/Lank-karim/test-gestion-Biblioth-que/swagger"
)

type Handler struct {
	librarySvc LibraryService
	authCfg    auth.Config
	log        *zap.Logger
}

func New(librarySrv LibraryService, authCfg auth.Config, log *zap.Logger) *Handler {
	h := &Handler{
		librarySvc: librarySrv,
		authCfg:    authCfg,
		log:        log,
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.JSONSerializer = NewSerializer()
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	renderer, err := NewRenderer()
	if err != nil {
		h.log.Fatal("templates", zap.Error(err))
	}
	e.Renderer = renderer

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/books/", h.ListBooksAPI)
	api.GET("/books", h.ListBooksAPI)
	api.POST("/reservations/", h.CreateReservationAPI)
	api.POST("/reservations", h.CreateReservationAPI)
	api.GET("/reservations/:id", h.GetReservationAPI)
	api.POST("/reservations/:id/return", h.ReturnReservationAPI)
	api.POST("/auth/login", h.Login)

	admin := api.Group("", md.JwtAuthentication(h.authCfg))
	admin.DELETE("/books/:id", h.DeleteBookAPI)
	admin.DELETE("/readers/:id", h.DeleteReaderAPI)

	pages := e.Group("",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		md.NewRateLimiter(apiRPS),
	)
	pages.GET("/", h.HomePage)
	pages.GET("/statistics", h.StatisticsPage)

	pages.GET("/books", h.BookListPage)
	pages.GET("/books/:id", h.BookDetailPage)
	pages.GET("/books/add", h.AddBookPage)
	pages.POST("/books/add", h.AddBookPage)
	pages.GET("/books/:id/edit", h.EditBookPage)
	pages.POST("/books/:id/edit", h.EditBookPage)
	pages.GET("/books/:id/delete", h.DeleteBookPage)
	pages.POST("/books/:id/delete", h.DeleteBookPage)
	pages.POST("/books/:id/reserve", h.QuickReserve)

	pages.GET("/readers", h.ReaderListPage)
	pages.GET("/readers/:id", h.ReaderDetailPage)
	pages.GET("/readers/add", h.AddReaderPage)
	pages.POST("/readers/add", h.AddReaderPage)
	pages.GET("/readers/:id/edit", h.EditReaderPage)
	pages.POST("/readers/:id/edit", h.EditReaderPage)
	pages.GET("/readers/:id/delete", h.DeleteReaderPage)
	pages.POST("/readers/:id/delete", h.DeleteReaderPage)

	pages.GET("/reservations", h.ReservationListPage)
	pages.GET("/reservations/:id", h.ReservationDetailPage)
	pages.GET("/reservations/create", h.CreateReservationPage)
	pages.POST("/reservations/create", h.CreateReservationPage)
	pages.POST("/reservations/:id/cancel", h.CancelReservation)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
