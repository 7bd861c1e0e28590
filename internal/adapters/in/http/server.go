// Package http exposes the locker order operations over echo. Callers are
// authenticated upstream; the acting user arrives in the X-User-ID header.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/application/usecases/queries"
	"lockers/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const HeaderUserID = "X-User-ID"

type getOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
}

type listActiveLockersHandler interface {
	Handle(ctx context.Context, query queries.ListActiveLockersQuery) ([]queries.ListActiveLockersQueryResponse, error)
}

// Server maps HTTP requests onto command and query handlers.
type Server struct {
	// Command handlers
	createOrderHandler        commands.CreateOrderCommandHandler
	processPaymentHandler     commands.ProcessPaymentCommandHandler
	setPickupTimeHandler      commands.SetPickupTimeCommandHandler
	confirmRiderPickupHandler commands.ConfirmRiderPickupCommandHandler
	verifyPinHandler          commands.VerifyPinCommandHandler
	cancelOrderHandler        commands.CancelOrderCommandHandler

	// Query handlers
	getOrderHandler          getOrderHandler
	listActiveLockersHandler listActiveLockersHandler

	logger *slog.Logger
}

func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	processPaymentHandler commands.ProcessPaymentCommandHandler,
	setPickupTimeHandler commands.SetPickupTimeCommandHandler,
	confirmRiderPickupHandler commands.ConfirmRiderPickupCommandHandler,
	verifyPinHandler commands.VerifyPinCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler getOrderHandler,
	listActiveLockersHandler listActiveLockersHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		processPaymentHandler:     processPaymentHandler,
		setPickupTimeHandler:      setPickupTimeHandler,
		confirmRiderPickupHandler: confirmRiderPickupHandler,
		verifyPinHandler:          verifyPinHandler,
		cancelOrderHandler:        cancelOrderHandler,
		getOrderHandler:           getOrderHandler,
		listActiveLockersHandler:  listActiveLockersHandler,
		logger:                    logger.With("component", "http"),
	}
}

// Register mounts every route on e. Requests under /api/v1 are validated
// against the embedded OpenAPI document, which is also served at /swagger/.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	router, err := newRouter(doc)
	if err != nil {
		return err
	}
	if err = registerSwagger(doc); err != nil {
		return err
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", requestValidator(router))
	api.GET("/lockers", s.ListLockers)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/pay", s.ProcessPayment)
	api.POST("/orders/:id/pickup-time", s.SetPickupTime)
	api.POST("/orders/:id/rider-pickup", s.ConfirmRiderPickup)
	api.POST("/orders/:id/verify-pin", s.VerifyPin)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	return nil
}

// ListLockers handles GET /api/v1/lockers.
func (s *Server) ListLockers(c echo.Context) error {
	lockers, err := s.listActiveLockersHandler.Handle(c.Request().Context(), queries.NewListActiveLockersQuery())
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Locker, len(lockers))
	for i, l := range lockers {
		response[i] = toLocker(l)
	}
	return c.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	userID, err := userIDFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req CreateOrderRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c, "Invalid request body")
	}
	listingID, err := kernel.UUIDFromString(req.ListingID)
	if err != nil {
		return s.fail(c, err)
	}
	lockerID, err := kernel.UUIDFromString(req.LockerID)
	if err != nil {
		return s.fail(c, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, listingID, lockerID, userID)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.createOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return s.respondWithOrder(c, http.StatusCreated, orderID, userID)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	userID, orderID, err := s.identify(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respondWithOrder(c, http.StatusOK, orderID, userID)
}

// ProcessPayment handles POST /api/v1/orders/:id/pay.
func (s *Server) ProcessPayment(c echo.Context) error {
	userID, orderID, err := s.identify(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewProcessPaymentCommand(orderID, userID)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.processPaymentHandler.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return s.respondWithOrder(c, http.StatusOK, orderID, userID)
}

// SetPickupTime handles POST /api/v1/orders/:id/pickup-time.
func (s *Server) SetPickupTime(c echo.Context) error {
	userID, orderID, err := s.identify(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req SetPickupTimeRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewSetPickupTimeCommand(orderID, userID, req.PickupTime)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.setPickupTimeHandler.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return s.respondWithOrder(c, http.StatusOK, orderID, userID)
}

// ConfirmRiderPickup handles POST /api/v1/orders/:id/rider-pickup.
func (s *Server) ConfirmRiderPickup(c echo.Context) error {
	userID, orderID, err := s.identify(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewConfirmRiderPickupCommand(orderID, userID)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.confirmRiderPickupHandler.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return s.respondWithOrder(c, http.StatusOK, orderID, userID)
}

// VerifyPin handles POST /api/v1/orders/:id/verify-pin.
func (s *Server) VerifyPin(c echo.Context) error {
	userID, orderID, err := s.identify(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req VerifyPinRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewVerifyPinCommand(orderID, userID, req.Pin)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.verifyPinHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.order(c, orderID, userID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, VerifyPinResponse{
		Success:            true,
		Order:              view,
		PointsAwarded:      result.PointsAwarded,
		BuyerPointsAwarded: result.BuyerPointsAwarded,
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	userID, orderID, err := s.identify(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req CancelOrderRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, userID, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.cancelOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return s.respondWithOrder(c, http.StatusOK, orderID, userID)
}

func (s *Server) identify(c echo.Context) (kernel.UUID, kernel.UUID, error) {
	userID, err := userIDFrom(c)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	orderID, err := bindUUID("id", c.Param("id"), runtime.ParamLocationPath)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return userID, orderID, nil
}

func (s *Server) order(c echo.Context, orderID, userID kernel.UUID) (Order, error) {
	query, err := queries.NewGetOrderQuery(orderID, userID)
	if err != nil {
		return Order{}, err
	}
	view, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return Order{}, err
	}
	return toOrder(view), nil
}

func (s *Server) respondWithOrder(c echo.Context, code int, orderID, userID kernel.UUID) error {
	view, err := s.order(c, orderID, userID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(code, OrderResponse{Success: true, Order: view})
}

func (s *Server) badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: msg})
}

func userIDFrom(c echo.Context) (kernel.UUID, error) {
	raw := c.Request().Header.Get(HeaderUserID)
	if raw == "" {
		return kernel.UUID{}, errMissingUserID
	}
	return bindUUID(HeaderUserID, raw, runtime.ParamLocationHeader)
}
