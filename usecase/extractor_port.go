package usecase

import (
	"context"
	"time"

	"github.com/smarttask/backend/domain"
)

// Extractor abstracts the natural-language extraction oracle so use cases and
// tests never depend on the concrete upstream client. The reference instant is
// always supplied by the caller; implementations must never substitute their
// own notion of "now".
type Extractor interface {
	Extract(ctx context.Context, text string, reference time.Time) (domain.Candidate, error)
}
