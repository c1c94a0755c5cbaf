package dispatcher

import (
	"context"
	"time"

	"github.com/jmehdipour/notify-relay/internal/credentials"
	"github.com/jmehdipour/notify-relay/internal/metrics"
	"github.com/jmehdipour/notify-relay/internal/model"
)

// Dispatcher turns a validated notification into a push for the caller's
// upstream identity. It performs exactly one upstream call per Dispatch.
type Dispatcher struct {
	pusher Pusher
}

func NewDispatcher(p Pusher) *Dispatcher {
	return &Dispatcher{pusher: p}
}

// BuildPayload assembles the push: text (with the record's prefix) first, then
// the image and sticker units when their fields came in pairs.
func BuildPayload(rec credentials.Record, req model.NotificationRequest) model.PushPayload {
	msgs := make([]model.Message, 0, 3)
	msgs = append(msgs, model.TextMessage{Text: rec.MessagePrefix + req.Text})

	if req.HasImage() {
		msgs = append(msgs, model.ImageMessage{
			OriginalContentURL: req.ImageFullsizeURL,
			PreviewImageURL:    req.ImageThumbnailURL,
		})
	}

	if req.HasSticker() {
		msgs = append(msgs, model.StickerMessage{
			PackageID: req.StickerPackageID,
			StickerID: req.StickerID,
		})
	}

	return model.PushPayload{
		To:                   rec.To,
		Messages:             msgs,
		NotificationDisabled: req.NotificationDisabled,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, rec credentials.Record, req model.NotificationRequest) error {
	payload := BuildPayload(rec, req)

	start := time.Now()
	err := d.pusher.Push(ctx, rec.ChannelAccessToken, payload)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	return err
}
