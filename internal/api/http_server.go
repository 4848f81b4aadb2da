package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"lendit/internal/apperr"
	"lendit/internal/config"
	"lendit/internal/metrics"
	"lendit/internal/models"
	"lendit/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// sharerHeader carries the identity of the calling user on every route
// that needs one.
const sharerHeader = "X-Sharer-User-Id"

// HTTPServer exposes the lending engine over REST.
type HTTPServer struct {
	cfg      config.HTTPConfig
	users    *service.UserService
	items    *service.ItemService
	bookings *service.BookingService
	requests *service.RequestService
	validate *validator.Validate
	limiter  *Limiter
	server   *http.Server
	log      zerolog.Logger
}

func NewHTTPServer(
	cfg config.HTTPConfig,
	users *service.UserService,
	items *service.ItemService,
	bookings *service.BookingService,
	requests *service.RequestService,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		validate: validator.New(),
		limiter:  NewLimiter(cfg.RateLimit),
		log:      logger.With().Str("component", "http").Logger(),
	}

	router := httprouter.New()

	router.POST("/users", srv.createUser)
	router.PATCH("/users/:userId", srv.patchUser)
	router.GET("/users/:userId", srv.getUser)
	router.GET("/users", srv.listUsers)
	router.DELETE("/users/:userId", srv.deleteUser)

	router.POST("/items", srv.createItem)
	router.PATCH("/items/:itemId", srv.patchItem)
	// GET /items/search shares the segment with :itemId; getItem dispatches.
	router.GET("/items/:itemId", srv.getItem)
	router.GET("/items", srv.listItems)
	router.POST("/items/:itemId/comment", srv.createComment)

	router.POST("/bookings", srv.createBooking)
	router.PATCH("/bookings/:bookingId", srv.approveBooking)
	// GET /bookings/owner shares the segment with :bookingId; getBooking dispatches.
	router.GET("/bookings/:bookingId", srv.getBooking)
	router.GET("/bookings", srv.listBookerBookings)

	router.POST("/requests", srv.createRequest)
	// GET /requests/all shares the segment with :requestId; getRequest dispatches.
	router.GET("/requests/:requestId", srv.getRequest)
	router.GET("/requests", srv.listOwnRequests)

	router.GET("/health", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.limiter.Wrap(router))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the configured handler chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sharerID extracts the calling user's id from the identity header.
func sharerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(sharerHeader)
	if raw == "" {
		return 0, apperr.Validationf("%s header is required", sharerHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validationf("%s header must be an integer", sharerHeader)
	}
	return id, nil
}

func pathID(ps httprouter.Params, name string) (int64, error) {
	id, err := strconv.ParseInt(ps.ByName(name), 10, 64)
	if err != nil {
		return 0, apperr.Validationf("%s must be an integer", name)
	}
	return id, nil
}

// pageParams reads from/size query parameters with defaults.
func pageParams(r *http.Request) (from, size int, err error) {
	from, size = 0, models.DefaultPageSize
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperr.Validationf("from must be an integer")
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperr.Validationf("size must be an integer")
		}
	}
	return from, size, nil
}

// decodeBody parses and validates a JSON request body.
func (s *HTTPServer) decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperr.Validationf("invalid JSON body")
	}
	if err := s.validate.Struct(dst); err != nil {
		return apperr.Validationf("invalid request: %v", err)
	}
	return nil
}

// writeServiceError maps engine error kinds onto HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, apperr.Message(err))
	case apperr.IsValidation(err):
		writeError(w, http.StatusBadRequest, apperr.Message(err))
	case apperr.IsConflict(err):
		writeError(w, http.StatusConflict, apperr.Message(err))
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func clientKey(r *http.Request) string {
	if id := r.Header.Get(sharerHeader); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
