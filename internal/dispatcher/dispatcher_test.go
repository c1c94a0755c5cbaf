package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/notify-relay/internal/credentials"
	"github.com/jmehdipour/notify-relay/internal/model"
)

type fakePusher struct {
	token   string
	payload model.PushPayload
	calls   int
	err     error
}

func (f *fakePusher) Push(_ context.Context, token string, p model.PushPayload) error {
	f.calls++
	f.token = token
	f.payload = p
	return f.err
}

var testRecord = credentials.Record{ChannelAccessToken: "chan", To: "U123", MessagePrefix: "TEST APP: "}

func TestBuildPayload_TextOnly(t *testing.T) {
	p := BuildPayload(testRecord, model.NotificationRequest{Text: "hi"})

	assert.Equal(t, "U123", p.To)
	require.Len(t, p.Messages, 1)
	assert.Equal(t, model.TextMessage{Text: "TEST APP: hi"}, p.Messages[0])
	assert.False(t, p.NotificationDisabled)
}

func TestBuildPayload_NoPrefix(t *testing.T) {
	p := BuildPayload(credentials.Record{ChannelAccessToken: "c", To: "U"}, model.NotificationRequest{Text: "hi"})
	assert.Equal(t, model.TextMessage{Text: "hi"}, p.Messages[0])
}

func TestBuildPayload_TextThenImage(t *testing.T) {
	p := BuildPayload(testRecord, model.NotificationRequest{
		Text:              "hi",
		ImageThumbnailURL: "https://x/t.png",
		ImageFullsizeURL:  "https://x/f.png",
	})

	require.Len(t, p.Messages, 2)
	assert.Equal(t, model.MessageTypeText, p.Messages[0].Type())
	assert.Equal(t, model.ImageMessage{OriginalContentURL: "https://x/f.png", PreviewImageURL: "https://x/t.png"}, p.Messages[1])
}

func TestBuildPayload_PartialPairsIgnored(t *testing.T) {
	p := BuildPayload(testRecord, model.NotificationRequest{
		Text:              "hi",
		ImageThumbnailURL: "https://x/t.png",
		StickerID:         "1992",
	})
	assert.Len(t, p.Messages, 1)
}

func TestBuildPayload_FixedOrder(t *testing.T) {
	p := BuildPayload(testRecord, model.NotificationRequest{
		Text:              "hi",
		StickerPackageID:  "446",
		StickerID:         "1992",
		ImageThumbnailURL: "t",
		ImageFullsizeURL:  "f",
	})

	require.Len(t, p.Messages, 3)
	assert.Equal(t, model.MessageTypeText, p.Messages[0].Type())
	assert.Equal(t, model.MessageTypeImage, p.Messages[1].Type())
	assert.Equal(t, model.StickerMessage{PackageID: "446", StickerID: "1992"}, p.Messages[2])
}

func TestBuildPayload_NotificationDisabled(t *testing.T) {
	p := BuildPayload(testRecord, model.NotificationRequest{Text: "hi", NotificationDisabled: true})
	assert.True(t, p.NotificationDisabled)
}

func TestDispatcher_Dispatch(t *testing.T) {
	fp := &fakePusher{}
	d := NewDispatcher(fp)

	require.NoError(t, d.Dispatch(context.Background(), testRecord, model.NotificationRequest{Text: "test-123"}))

	assert.Equal(t, 1, fp.calls)
	assert.Equal(t, "chan", fp.token)
	assert.Equal(t, model.TextMessage{Text: "TEST APP: test-123"}, fp.payload.Messages[0])
}

func TestDispatcher_PropagatesError(t *testing.T) {
	upstream := &UpstreamError{StatusCode: 429, Body: "slow down"}
	fp := &fakePusher{err: upstream}

	err := NewDispatcher(fp).Dispatch(context.Background(), testRecord, model.NotificationRequest{Text: "x"})

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 429, ue.StatusCode)
	assert.Equal(t, 1, fp.calls)
}
