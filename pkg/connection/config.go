package connection

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Config carries what an HTTPConnection needs. Zero values are usable:
// no timeout override, a no-op logger and unregistered metrics.
type Config struct {
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zerolog.Logger
	Registerer prometheus.Registerer
}
