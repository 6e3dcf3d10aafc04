package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"tagcly-telemetry-backend/config"
	"tagcly-telemetry-backend/internal/generator"
	"tagcly-telemetry-backend/internal/store"
	"tagcly-telemetry-backend/internal/telemetry"
	"tagcly-telemetry-backend/internal/trend"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	store     store.Store
	ingestor  telemetry.Ingestor
	activity  *trend.ActivityAnalyzer
	sleep     *trend.SleepAnalyzer
	generator *generator.Service
	webpush   *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(
	cfg *config.Config,
	s store.Store,
	ingestor telemetry.Ingestor,
	activity *trend.ActivityAnalyzer,
	sleep *trend.SleepAnalyzer,
	gen *generator.Service,
	webpushOptions *webpush.Options,
) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     s,
		ingestor:  ingestor,
		activity:  activity,
		sleep:     sleep,
		generator: gen,
		webpush:   webpushOptions,
	}
}
