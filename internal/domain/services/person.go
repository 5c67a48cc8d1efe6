package services

import (
	"context"

	"famtree/internal/domain/models"
)

// CreatePersonRequest represents a request to add a person to a tree
type CreatePersonRequest struct {
	TreeID     string   `json:"treeId"`
	FirstName  string   `json:"firstName"`
	MiddleName *string  `json:"middleName"`
	LastName   *string  `json:"lastName"`
	MaidenName *string  `json:"maidenName"`
	Gender     *string  `json:"gender"`
	BirthDate  *string  `json:"birthDate"`
	BirthPlace *string  `json:"birthPlace"`
	DeathDate  *string  `json:"deathDate"`
	DeathPlace *string  `json:"deathPlace"`
	Biography  *string  `json:"biography"`
	PhotoURL   *string  `json:"photoUrl"`
	PositionX  *float64 `json:"positionX"`
	PositionY  *float64 `json:"positionY"`
}

// UpdatePersonRequest carries a partial update; absent fields stay untouched.
type UpdatePersonRequest struct {
	FirstName  *string  `json:"firstName"`
	MiddleName *string  `json:"middleName"`
	LastName   *string  `json:"lastName"`
	MaidenName *string  `json:"maidenName"`
	Gender     *string  `json:"gender"`
	BirthDate  *string  `json:"birthDate"`
	BirthPlace *string  `json:"birthPlace"`
	DeathDate  *string  `json:"deathDate"`
	DeathPlace *string  `json:"deathPlace"`
	Biography  *string  `json:"biography"`
	PhotoURL   *string  `json:"photoUrl"`
	PositionX  *float64 `json:"positionX"`
	PositionY  *float64 `json:"positionY"`
}

// PhotoUploadResult reports a stored upload.
type PhotoUploadResult struct {
	PhotoURL    string `json:"photo_url"`
	OriginalURL string `json:"original_url"`
	ImageID     string `json:"image_id"`
	IsPrimary   bool   `json:"is_primary"`
}

// PersonService defines business logic operations for people and their
// photos. The photo operations maintain two invariants: at most one image
// per person is primary, and the person's denormalized photo_url always
// points at the current primary's thumbnail (or is null with no images).
type PersonService interface {
	ListPeople(ctx context.Context, actor *models.AuthUser, treeID string) ([]models.Person, error)
	CreatePerson(ctx context.Context, actor *models.AuthUser, req *CreatePersonRequest) (*models.Person, error)
	UpdatePerson(ctx context.Context, actor *models.AuthUser, id string, req *UpdatePersonRequest) (*models.Person, error)

	// DeletePerson removes the person and every relationship touching them.
	DeletePerson(ctx context.Context, actor *models.AuthUser, id string) error

	// UploadPhoto re-encodes the upload as JPEG, derives a square thumbnail,
	// and records the image. A person's first image becomes primary.
	UploadPhoto(ctx context.Context, actor *models.AuthUser, personID string, data []byte) (*PhotoUploadResult, error)

	ListImages(ctx context.Context, actor *models.AuthUser, personID string) ([]models.PersonImage, error)

	// SetPrimaryImage makes one image primary, unsetting all others first.
	// Returns the person's new photo_url.
	SetPrimaryImage(ctx context.Context, actor *models.AuthUser, personID, imageID string) (string, error)

	// DeleteImage removes one image and its files. Deleting the primary
	// promotes the newest remaining image, or clears photo_url.
	DeleteImage(ctx context.Context, actor *models.AuthUser, personID, imageID string) error

	// DeleteAllPhotos removes every image of a person.
	DeleteAllPhotos(ctx context.Context, actor *models.AuthUser, personID string) error
}
