package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/imagegen"
	"github.com/baharkarakas/imagify-backend/internal/metrics"
)

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (imagegen.Image, error)
}

type ImageService struct {
	ledger *LedgerService
	gen    ImageGenerator
	log    *slog.Logger
}

func NewImageService(ledger *LedgerService, gen ImageGenerator, log *slog.Logger) *ImageService {
	return &ImageService{ledger: ledger, gen: gen, log: log}
}

type Generated struct {
	Image   imagegen.Image
	Balance int64
}

// Generate charges one credit per successful image. A failed upstream call
// costs nothing.
func (s *ImageService) Generate(ctx context.Context, userID, prompt string) (Generated, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Generated{}, apperr.ErrMissingFields
	}

	bal, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return Generated{}, err
	}
	if bal <= 0 {
		metrics.Generations.WithLabelValues("no_credit").Inc()
		return Generated{Balance: bal}, &apperr.InsufficientCreditError{Balance: bal}
	}

	start := time.Now()
	img, err := s.gen.Generate(ctx, prompt)
	metrics.UpstreamLatency.WithLabelValues("clipdrop").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Generations.WithLabelValues("upstream_error").Inc()
		s.log.Error("image generation failed", "user_id", userID, "err", err)
		return Generated{Balance: bal}, apperr.ErrUpstream.Wrap(err)
	}

	bal, err = s.ledger.Debit(ctx, userID, 1)
	if err != nil {
		// a concurrent request spent the last credit first
		metrics.Generations.WithLabelValues("no_credit").Inc()
		return Generated{Balance: bal}, err
	}
	metrics.Generations.WithLabelValues("ok").Inc()
	return Generated{Image: img, Balance: bal}, nil
}
