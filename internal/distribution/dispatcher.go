// Package distribution publishes a synthesized issue through an ordered
// chain of delivery channels. Precedence is data, not control flow: the
// dispatcher iterates the configured channel list and the first success is
// authoritative for the whole run.
package distribution

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/africagold/goldintel/internal/models"
)

// ErrUnavailable marks a channel that cannot run at all (missing
// credentials, absent session). The dispatcher treats it like any other
// failure and falls through.
var ErrUnavailable = errors.New("channel unavailable")

// Channel is one delivery strategy. Publish returns the authoritative
// result on success; a partial success (published but no locator) must
// still return a result with an empty PostURL rather than an error.
type Channel interface {
	Name() string
	Publish(issue *models.Issue, live bool) (*models.DeliveryResult, error)
}

// Dispatcher tries channels strictly in order until one succeeds.
type Dispatcher struct {
	channels []Channel
	logger   *zap.Logger
}

func NewDispatcher(channels []Channel, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{channels: channels, logger: logger}
}

// Publish attempts each channel in priority order. Channels after the
// first success are never invoked. If every channel fails the content must
// not be dropped silently, so the error carries every attempt's reason.
func (d *Dispatcher) Publish(issue *models.Issue, live bool) (*models.DeliveryResult, []models.DistributionAttempt, error) {
	var attempts []models.DistributionAttempt

	for _, ch := range d.channels {
		result, err := ch.Publish(issue, live)
		if err != nil {
			attempts = append(attempts, models.DistributionAttempt{
				Channel: ch.Name(),
				Err:     err.Error(),
			})
			d.logger.Warn("distribution channel failed, falling through",
				zap.String("channel", ch.Name()),
				zap.Error(err),
			)
			continue
		}

		attempts = append(attempts, models.DistributionAttempt{Channel: ch.Name()})
		result.Channel = ch.Name()
		d.logger.Info("issue delivered",
			zap.String("channel", ch.Name()),
			zap.String("post_id", result.PostID),
			zap.String("post_url", result.PostURL),
		)
		return result, attempts, nil
	}

	return nil, attempts, fmt.Errorf("all %d distribution channels exhausted", len(d.channels))
}
