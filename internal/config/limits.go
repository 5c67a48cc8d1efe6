package config

import "time"

const (
	// MaxPhotoUploadBytes caps a single person-photo upload.
	MaxPhotoUploadBytes = 10 << 20

	// MaxPackageUploadBytes caps an uploaded .famtree package. Packages embed
	// every image of a tree as base64, so the ceiling is much higher than for
	// a single photo.
	MaxPackageUploadBytes = 100 << 20

	// MaxJSONBodyBytes caps plain JSON/YAML request bodies. Tree and forest
	// export documents can carry base64 images inline.
	MaxJSONBodyBytes = 50 << 20

	// MaxNameLength is the maximum length for tenant, forest, and tree names.
	MaxNameLength = 255

	// MinNameLength matches the original validation: short names are almost
	// always accidental submissions.
	MinNameLength = 2

	// MinPasswordLength for registration and login payloads.
	MinPasswordLength = 8

	// ThumbnailSize is the square edge of derived thumbnails, sized for the
	// canvas node display.
	ThumbnailSize = 120

	// OriginalJPEGQuality and ThumbnailJPEGQuality are the re-encode
	// qualities for uploaded photos and their derived thumbnails.
	OriginalJPEGQuality  = 90
	ThumbnailJPEGQuality = 85

	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL = 12 * time.Hour

	// ActiveUserWindow is how recently a user must have been seen to count
	// as active.
	ActiveUserWindow = 5 * time.Minute
)
