package notify

import (
	"context"
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/metrics"
	"github.com/rs/zerolog"
)

// RecipientSource lists the notification targets of a run.
type RecipientSource interface {
	ListRecipients(ctx context.Context) ([]string, error)
}

// DeliveryResult reports which recipients received the whole message.
type DeliveryResult struct {
	Delivered []string
	Failed    map[string]error
}

type Broadcaster struct {
	recipients RecipientSource
	sender     Sender
	chunkSize  int
	metrics    *metrics.Recorder
}

func NewBroadcaster(recipients RecipientSource, sender Sender, chunkSize int, recorder *metrics.Recorder) *Broadcaster {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Broadcaster{
		recipients: recipients,
		sender:     sender,
		chunkSize:  chunkSize,
		metrics:    recorder,
	}
}

// Broadcast sends text to every recipient, chunked. A failing recipient does not stop
// delivery to the others; only a failure to list recipients is returned as an error.
func (b *Broadcaster) Broadcast(ctx context.Context, text string) (DeliveryResult, error) {
	logger := zerolog.Ctx(ctx)
	result := DeliveryResult{Failed: map[string]error{}}

	recipients, err := b.recipients.ListRecipients(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load recipients: %w", err)
	}
	if len(recipients) == 0 {
		logger.Warn().Msg("no recipients, report not sent")
		return result, nil
	}

	chunks := SplitMessage(text, b.chunkSize)
	for _, r := range recipients {
		if err := b.deliver(ctx, r, chunks); err != nil {
			logger.Error().Err(err).Str("recipient", r).Msg("report delivery failed")
			result.Failed[r] = err
			b.metrics.Notification(metrics.ResultFailed)
			continue
		}
		result.Delivered = append(result.Delivered, r)
		b.metrics.Notification(metrics.ResultDelivered)
	}

	logger.Info().
		Int("delivered", len(result.Delivered)).
		Int("failed", len(result.Failed)).
		Int("chunks", len(chunks)).
		Msg("report broadcast finished")
	return result, nil
}

func (b *Broadcaster) deliver(ctx context.Context, recipient string, chunks []string) error {
	for i, c := range chunks {
		if err := b.sender.Send(ctx, recipient, c); err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}
