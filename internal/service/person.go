package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"famtree/internal/config"
	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/imaging"
)

// personService implements the PersonService interface
type personService struct {
	personRepo repositories.PersonRepository
	imageRepo  repositories.PersonImageRepository
	relRepo    repositories.RelationshipRepository
	eventRepo  repositories.LifeEventRepository
	storyRepo  repositories.StoryRepository
	treeRepo   repositories.TreeRepository
	txManager  repositories.TransactionManager
	store      imaging.Store
	logger     *slog.Logger
}

// NewPersonService creates a new person service
func NewPersonService(
	personRepo repositories.PersonRepository,
	imageRepo repositories.PersonImageRepository,
	relRepo repositories.RelationshipRepository,
	eventRepo repositories.LifeEventRepository,
	storyRepo repositories.StoryRepository,
	treeRepo repositories.TreeRepository,
	txManager repositories.TransactionManager,
	store imaging.Store,
	logger *slog.Logger,
) services.PersonService {
	return &personService{
		personRepo: personRepo,
		imageRepo:  imageRepo,
		relRepo:    relRepo,
		eventRepo:  eventRepo,
		storyRepo:  storyRepo,
		treeRepo:   treeRepo,
		txManager:  txManager,
		store:      store,
		logger:     logger,
	}
}

// ListPeople returns every person of a tree
func (s *personService) ListPeople(ctx context.Context, actor *models.AuthUser, treeID string) ([]models.Person, error) {
	return s.personRepo.ListByTree(ctx, treeID)
}

// CreatePerson adds a person to a tree
func (s *personService) CreatePerson(ctx context.Context, actor *models.AuthUser, req *services.CreatePersonRequest) (*models.Person, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.treeRepo.GetByID(ctx, req.TreeID); err != nil {
		return nil, err
	}

	person := &models.Person{
		ID:         uuid.NewString(),
		TreeID:     req.TreeID,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		MaidenName: req.MaidenName,
		Gender:     req.Gender,
		BirthDate:  req.BirthDate,
		BirthPlace: req.BirthPlace,
		DeathDate:  req.DeathDate,
		DeathPlace: req.DeathPlace,
		Biography:  req.Biography,
		PhotoURL:   req.PhotoURL,
	}
	if req.PositionX != nil {
		person.PositionX = *req.PositionX
	}
	if req.PositionY != nil {
		person.PositionY = *req.PositionY
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}

	s.logger.Info("person created", "person_id", person.ID, "tree_id", person.TreeID)

	return person, nil
}

// UpdatePerson applies a partial update and returns the updated record
func (s *personService) UpdatePerson(ctx context.Context, actor *models.AuthUser, id string, req *services.UpdatePersonRequest) (*models.Person, error) {
	update := &models.PersonUpdate{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		MaidenName: req.MaidenName,
		Gender:     req.Gender,
		BirthDate:  req.BirthDate,
		BirthPlace: req.BirthPlace,
		DeathDate:  req.DeathDate,
		DeathPlace: req.DeathPlace,
		Biography:  req.Biography,
		PhotoURL:   req.PhotoURL,
		PositionX:  req.PositionX,
		PositionY:  req.PositionY,
	}

	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	if update.FirstName != nil && *update.FirstName == "" {
		return nil, fmt.Errorf("%w: first name cannot be empty", domain.ErrValidation)
	}

	if err := s.personRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	return s.personRepo.GetByID(ctx, id)
}

// DeletePerson removes a person with their relationships, life events, and
// stories in one transaction
func (s *personService) DeletePerson(ctx context.Context, actor *models.AuthUser, id string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.eventRepo.DeleteByPerson(txCtx, id); err != nil {
			return err
		}
		if err := s.storyRepo.DeleteByPerson(txCtx, id); err != nil {
			return err
		}
		if err := s.relRepo.DeleteByPerson(txCtx, id); err != nil {
			return err
		}
		return s.personRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("person deleted", "person_id", id)

	return nil
}

// UploadPhoto stores a photo in both variants and records it. The first
// image a person gets becomes primary and sets photo_url to its thumbnail.
func (s *personService) UploadPhoto(ctx context.Context, actor *models.AuthUser, personID string, data []byte) (*services.PhotoUploadResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no photo file provided", domain.ErrValidation)
	}

	if _, err := s.personRepo.GetByID(ctx, personID); err != nil {
		return nil, err
	}

	original, err := imaging.ReencodeJPEG(data, config.OriginalJPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	thumbnail, err := imaging.Thumbnail(data, config.ThumbnailSize, config.ThumbnailJPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	filename := imaging.UploadFilename(personID)
	if err := s.store.WriteOriginal(filename, original); err != nil {
		return nil, err
	}
	if err := s.store.WriteThumbnail(filename, thumbnail); err != nil {
		return nil, err
	}

	image := &models.PersonImage{
		ID:         uuid.NewString(),
		PersonID:   personID,
		ImageURL:   imaging.OriginalURL(filename),
		UploadedAt: time.Now(),
	}
	thumbURL := imaging.ThumbnailURL(filename)

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		count, err := s.imageRepo.CountByPerson(txCtx, personID)
		if err != nil {
			return err
		}
		image.IsPrimary = count == 0

		if err := s.imageRepo.Create(txCtx, image); err != nil {
			return err
		}
		if image.IsPrimary {
			return s.personRepo.SetPhotoURL(txCtx, personID, &thumbURL)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("photo uploaded", "person_id", personID, "image_id", image.ID, "primary", image.IsPrimary)

	return &services.PhotoUploadResult{
		PhotoURL:    thumbURL,
		OriginalURL: image.ImageURL,
		ImageID:     image.ID,
		IsPrimary:   image.IsPrimary,
	}, nil
}

// ListImages returns a person's images, primary first
func (s *personService) ListImages(ctx context.Context, actor *models.AuthUser, personID string) ([]models.PersonImage, error) {
	return s.imageRepo.ListByPerson(ctx, personID)
}

// SetPrimaryImage makes one image primary. The previous primary is unset
// inside the same transaction so the one-primary invariant holds at commit.
func (s *personService) SetPrimaryImage(ctx context.Context, actor *models.AuthUser, personID, imageID string) (string, error) {
	var photoURL string

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		image, err := s.imageRepo.Get(txCtx, imageID, personID)
		if err != nil {
			return err
		}

		if err := s.imageRepo.ClearPrimary(txCtx, personID); err != nil {
			return err
		}
		if err := s.imageRepo.SetPrimary(txCtx, imageID); err != nil {
			return err
		}

		photoURL = imaging.ThumbnailURL(imaging.FilenameFromURL(image.ImageURL))
		return s.personRepo.SetPhotoURL(txCtx, personID, &photoURL)
	})
	if err != nil {
		return "", err
	}

	return photoURL, nil
}

// DeleteImage removes one image. Deleting the primary promotes the newest
// remaining image; the last image clears photo_url. Files are removed only
// after the database commit so a failed delete never loses bytes.
func (s *personService) DeleteImage(ctx context.Context, actor *models.AuthUser, personID, imageID string) error {
	image, err := s.imageRepo.Get(ctx, imageID, personID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.imageRepo.Delete(txCtx, imageID); err != nil {
			return err
		}

		if !image.IsPrimary {
			return nil
		}

		next, err := s.imageRepo.NewestByPerson(txCtx, personID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return s.personRepo.SetPhotoURL(txCtx, personID, nil)
			}
			return err
		}

		if err := s.imageRepo.SetPrimary(txCtx, next.ID); err != nil {
			return err
		}
		photoURL := imaging.ThumbnailURL(imaging.FilenameFromURL(next.ImageURL))
		return s.personRepo.SetPhotoURL(txCtx, personID, &photoURL)
	})
	if err != nil {
		return err
	}

	filename := imaging.FilenameFromURL(image.ImageURL)
	if err := s.store.RemoveOriginal(filename); err != nil {
		s.logger.Warn("failed to remove original", "filename", filename, "error", err)
	}
	if err := s.store.RemoveThumbnail(filename); err != nil {
		s.logger.Warn("failed to remove thumbnail", "filename", filename, "error", err)
	}

	return nil
}

// DeleteAllPhotos removes every image of a person
func (s *personService) DeleteAllPhotos(ctx context.Context, actor *models.AuthUser, personID string) error {
	images, err := s.imageRepo.ListByPerson(ctx, personID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.imageRepo.DeleteByPerson(txCtx, personID); err != nil {
			return err
		}
		return s.personRepo.SetPhotoURL(txCtx, personID, nil)
	})
	if err != nil {
		return err
	}

	for _, image := range images {
		filename := imaging.FilenameFromURL(image.ImageURL)
		if err := s.store.RemoveOriginal(filename); err != nil {
			s.logger.Warn("failed to remove original", "filename", filename, "error", err)
		}
		if err := s.store.RemoveThumbnail(filename); err != nil {
			s.logger.Warn("failed to remove thumbnail", "filename", filename, "error", err)
		}
	}

	return nil
}

func (s *personService) validateCreateRequest(req *services.CreatePersonRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.TreeID, validation.Required),
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, config.MaxNameLength)),
	)
}
