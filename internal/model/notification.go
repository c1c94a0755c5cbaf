package model

import "errors"

var (
	ErrMessageRequired = errors.New("message is required")
	ErrImageUpload     = errors.New("image upload is not implemented")
)

// NotificationRequest is the validated view of one /api/notify form submission.
// Empty strings mean "not submitted".
type NotificationRequest struct {
	Text                 string
	ImageFullsizeURL     string
	ImageThumbnailURL    string
	StickerPackageID     string
	StickerID            string
	NotificationDisabled bool
}

// HasImage reports whether both image URLs were submitted. A lone URL is ignored.
func (r NotificationRequest) HasImage() bool {
	return r.ImageFullsizeURL != "" && r.ImageThumbnailURL != ""
}

// HasSticker reports whether both sticker ids were submitted.
func (r NotificationRequest) HasSticker() bool {
	return r.StickerPackageID != "" && r.StickerID != ""
}

// Status is the JSON body of every /api/notify response.
type Status struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
