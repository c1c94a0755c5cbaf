package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jmehdipour/notify-relay/internal/dispatcher"
	"github.com/jmehdipour/notify-relay/internal/http/middleware"
	"github.com/jmehdipour/notify-relay/internal/metrics"
	"github.com/jmehdipour/notify-relay/internal/model"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// form fields of POST /api/notify
const (
	fieldMessage              = "message"
	fieldImageThumbnail       = "imageThumbnail"
	fieldImageFullsize        = "imageFullsize"
	fieldImageFile            = "imageFile"
	fieldStickerPackageID     = "stickerPackageId"
	fieldStickerID            = "stickerId"
	fieldNotificationDisabled = "notificationDisabled"
)

var errInvalidForm = errors.New("invalid form body")

func notifyHandler(disp *dispatcher.Dispatcher, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		// auth (set by Bearer)
		rec, ok := middleware.RecordFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, middleware.InvalidToken)
		}

		req, err := parseNotifyForm(c)
		switch {
		case errors.Is(err, model.ErrMessageRequired):
			return respond(c, metrics.OutcomeBadRequest, http.StatusBadRequest, "Message is required")
		case errors.Is(err, model.ErrImageUpload):
			return respond(c, metrics.OutcomeUnsupported, http.StatusInternalServerError, "Image upload has not been implemented yet")
		case err != nil:
			logger.Debug("bad notify form", zap.Error(err))
			return respond(c, metrics.OutcomeBadRequest, http.StatusBadRequest, "Invalid form body")
		}

		if err := disp.Dispatch(c.Request().Context(), rec, req); err != nil {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			var ue *dispatcher.UpstreamError
			if errors.As(err, &ue) {
				logger.Error("unable to send message",
					zap.Int("status", ue.StatusCode),
					zap.String("body", ue.Body),
					zap.String("request_id", reqID),
				)
			} else {
				logger.Error("unable to send message", zap.Error(err), zap.String("request_id", reqID))
			}
			return respond(c, metrics.OutcomeUpstreamFailed, http.StatusInternalServerError, "Failed to send message")
		}

		setRateLimitHeaders(c.Response().Header(), time.Now())
		return respond(c, metrics.OutcomeOK, http.StatusOK, "ok")
	}
}

func respond(c echo.Context, outcome string, code int, msg string) error {
	metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	return c.JSON(code, model.Status{Status: code, Message: msg})
}

// parseNotifyForm validates the submission in order: body, message, image upload.
func parseNotifyForm(c echo.Context) (model.NotificationRequest, error) {
	if _, err := c.FormParams(); err != nil {
		return model.NotificationRequest{}, fmt.Errorf("%w: %v", errInvalidForm, err)
	}
	form := bodyValues(c.Request())

	text := form.Get(fieldMessage)
	if text == "" {
		return model.NotificationRequest{}, model.ErrMessageRequired
	}

	if hasImageFile(c.Request()) || form.Get(fieldImageFile) != "" {
		return model.NotificationRequest{}, model.ErrImageUpload
	}

	return model.NotificationRequest{
		Text:                 text,
		ImageFullsizeURL:     form.Get(fieldImageFullsize),
		ImageThumbnailURL:    form.Get(fieldImageThumbnail),
		StickerPackageID:     form.Get(fieldStickerPackageID),
		StickerID:            form.Get(fieldStickerID),
		NotificationDisabled: form.Get(fieldNotificationDisabled) == "true",
	}, nil
}

// bodyValues returns the submitted body fields only; the query string is ignored.
func bodyValues(r *http.Request) url.Values {
	if r.MultipartForm != nil {
		return url.Values(r.MultipartForm.Value)
	}
	return r.PostForm
}

func hasImageFile(r *http.Request) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[fieldImageFile]) > 0
}
