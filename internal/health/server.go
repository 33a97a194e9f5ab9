package health

import (
	"net/http"

	"github.com/labstack/echo/v4"

	pkghealth "trafficaqi/pkg/health"
)

// Server exposes /healthz (liveness) and /readyz (readiness) over echo,
// grounded on the panel's echo-based operational surface.
type Server struct {
	Liveness  *pkghealth.Aggregator
	Readiness *pkghealth.Aggregator
}

// NewServer wires Liveness and Readiness aggregators onto a fresh echo
// instance and returns it so the caller controls Start/Shutdown.
func NewServer(liveness, readiness *pkghealth.Aggregator) *echo.Echo {
	s := &Server{Liveness: liveness, Readiness: readiness}
	e := echo.New()
	e.HideBanner = true
	e.GET("/healthz", s.handleLiveness)
	e.GET("/readyz", s.handleReadiness)
	return e
}

func (s *Server) handleLiveness(c echo.Context) error {
	status := s.Liveness.Check(c.Request().Context())
	code := http.StatusOK
	if status.Status != pkghealth.StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}

func (s *Server) handleReadiness(c echo.Context) error {
	status := s.Readiness.Check(c.Request().Context())
	code := http.StatusOK
	if status.Status != pkghealth.StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}
