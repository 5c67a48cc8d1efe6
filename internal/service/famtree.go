package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"famtree/internal/config"
	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/imaging"
	"famtree/internal/rbac"
)

const (
	ImportModeAppend    = "append"
	ImportModeOverwrite = "overwrite"
)

// packageService implements the PackageService interface for the versioned
// .famtree interchange format.
type packageService struct {
	forestRepo     repositories.ForestRepository
	treeRepo       repositories.TreeRepository
	treeMemberRepo repositories.TreeMemberRepository
	personRepo     repositories.PersonRepository
	relRepo        repositories.RelationshipRepository
	imageRepo      repositories.PersonImageRepository
	eventRepo      repositories.LifeEventRepository
	storyRepo      repositories.StoryRepository
	txManager      repositories.TransactionManager
	store          imaging.Store
	logger         *slog.Logger
}

// NewPackageService creates a new package service
func NewPackageService(
	forestRepo repositories.ForestRepository,
	treeRepo repositories.TreeRepository,
	treeMemberRepo repositories.TreeMemberRepository,
	personRepo repositories.PersonRepository,
	relRepo repositories.RelationshipRepository,
	imageRepo repositories.PersonImageRepository,
	eventRepo repositories.LifeEventRepository,
	storyRepo repositories.StoryRepository,
	txManager repositories.TransactionManager,
	store imaging.Store,
	logger *slog.Logger,
) services.PackageService {
	return &packageService{
		forestRepo:     forestRepo,
		treeRepo:       treeRepo,
		treeMemberRepo: treeMemberRepo,
		personRepo:     personRepo,
		relRepo:        relRepo,
		imageRepo:      imageRepo,
		eventRepo:      eventRepo,
		storyRepo:      storyRepo,
		txManager:      txManager,
		store:          store,
		logger:         logger,
	}
}

// ExportPackage serializes one tree with every stored image embedded. Image
// rows whose original file is gone are skipped rather than failing the export.
func (s *packageService) ExportPackage(ctx context.Context, actor *models.AuthUser, treeID string) (*models.FamTreePackage, string, error) {
	if actor.TenantID == nil {
		return nil, "", fmt.Errorf("tree %s: %w", treeID, domain.ErrNotFound)
	}
	tree, err := s.treeRepo.GetInTenant(ctx, treeID, *actor.TenantID)
	if err != nil {
		return nil, "", err
	}

	people, err := s.personRepo.ListByTree(ctx, treeID)
	if err != nil {
		return nil, "", err
	}
	relationships, err := s.relRepo.ListByTree(ctx, treeID)
	if err != nil {
		return nil, "", err
	}
	images, err := s.imageRepo.ListByTree(ctx, treeID)
	if err != nil {
		return nil, "", err
	}

	doc := &models.FamTreePackage{
		Version:       models.FamTreePackageVersion,
		ExportedAt:    time.Now(),
		Tree:          models.TreeMeta{Name: tree.Name, CreatedAt: tree.CreatedAt},
		People:        people,
		Relationships: relationships,
		Images:        []models.ImageEnvelope{},
	}

	for _, image := range images {
		filename := imaging.FilenameFromURL(image.ImageURL)
		data, err := s.store.ReadOriginal(filename)
		if err != nil {
			s.logger.Warn("skipping image on package export", "image_id", image.ID, "filename", filename, "error", err)
			continue
		}
		uploadedAt := image.UploadedAt
		doc.Images = append(doc.Images, models.ImageEnvelope{
			PersonID:   image.PersonID,
			IsPrimary:  image.IsPrimary,
			UploadedAt: &uploadedAt,
			Data:       base64.StdEncoding.EncodeToString(data),
			Filename:   filename,
		})
	}

	name := strings.TrimSpace(tree.Name)
	if name == "" {
		name = "tree"
	}

	return doc, name + ".famtree", nil
}

// ImportIntoTree imports a package into an existing tree. The version gate
// and all image decoding run before the first write, so a bad package leaves
// the tree untouched.
func (s *packageService) ImportIntoTree(ctx context.Context, actor *models.AuthUser, treeID, mode string, doc *models.FamTreePackage) (*services.PackageImportResult, error) {
	if err := checkPackageVersion(doc); err != nil {
		return nil, err
	}

	if mode == "" {
		mode = ImportModeAppend
	}
	if mode != ImportModeAppend && mode != ImportModeOverwrite {
		return nil, fmt.Errorf("%w: unknown import mode %q", domain.ErrValidation, mode)
	}

	if actor.TenantID == nil {
		return nil, fmt.Errorf("tree %s: %w", treeID, domain.ErrNotFound)
	}
	tree, err := s.treeRepo.GetInTenant(ctx, treeID, *actor.TenantID)
	if err != nil {
		return nil, err
	}
	if !rbac.HasRole(actor.Role, rbac.RoleArborist) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}

	decoded, err := decodeEnvelopes(doc.Images)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if mode == ImportModeOverwrite {
			if err := s.clearTree(txCtx, tree.ID); err != nil {
				return err
			}
			if name := strings.TrimSpace(doc.Tree.Name); name != "" && name != tree.Name {
				if err := s.treeRepo.Rename(txCtx, tree.ID, name); err != nil {
					return err
				}
			}
		}
		return s.importPackageTx(txCtx, tree.ID, doc, decoded)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("package imported", "tree_id", tree.ID, "mode", mode, "people", len(doc.People), "images", len(doc.Images))

	return &services.PackageImportResult{
		Success: true,
		Mode:    mode,
		Imported: models.ImportCounts{
			People:        len(doc.People),
			Relationships: len(doc.Relationships),
			Images:        len(doc.Images),
		},
	}, nil
}

// ImportAsNewTree creates a fresh tree in the forest from the package
func (s *packageService) ImportAsNewTree(ctx context.Context, actor *models.AuthUser, forestID string, doc *models.FamTreePackage) (*services.NewTreeImportResult, error) {
	if err := checkPackageVersion(doc); err != nil {
		return nil, err
	}

	if !rbac.HasRole(actor.Role, rbac.RoleArborist) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}
	if actor.TenantID == nil {
		return nil, fmt.Errorf("forest %s: %w", forestID, domain.ErrNotFound)
	}
	if _, err := s.forestRepo.GetByID(ctx, forestID, *actor.TenantID); err != nil {
		return nil, err
	}

	decoded, err := decodeEnvelopes(doc.Images)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(doc.Tree.Name)
	if name == "" {
		name = "Imported Tree"
	}

	tree := &models.Tree{
		ID:        uuid.NewString(),
		ForestID:  forestID,
		Name:      name,
		Theme:     "modern",
		Layout:    "vertical",
		CreatedBy: actor.ID,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.treeRepo.Create(txCtx, tree); err != nil {
			return err
		}
		member := &models.TreeMember{
			ID:     uuid.NewString(),
			TreeID: tree.ID,
			UserID: actor.ID,
			Role:   rbac.RoleArborist,
		}
		if err := s.treeMemberRepo.Create(txCtx, member); err != nil {
			return err
		}
		return s.importPackageTx(txCtx, tree.ID, doc, decoded)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("package imported as new tree", "tree_id", tree.ID, "people", len(doc.People), "images", len(doc.Images))

	return &services.NewTreeImportResult{
		Success:  true,
		TreeID:   tree.ID,
		TreeName: tree.Name,
		Imported: models.ImportCounts{
			People:        len(doc.People),
			Relationships: len(doc.Relationships),
			Images:        len(doc.Images),
		},
	}, nil
}

// clearTree deletes everything hanging off the tree's people, then the
// people themselves
func (s *packageService) clearTree(ctx context.Context, treeID string) error {
	if err := s.eventRepo.DeleteByTree(ctx, treeID); err != nil {
		return err
	}
	if err := s.storyRepo.DeleteByTree(ctx, treeID); err != nil {
		return err
	}
	if err := s.imageRepo.DeleteByTree(ctx, treeID); err != nil {
		return err
	}
	if err := s.relRepo.DeleteByTree(ctx, treeID); err != nil {
		return err
	}
	return s.personRepo.DeleteByTree(ctx, treeID)
}

// importPackageTx writes people, relationships, and images into the tree
// inside an open transaction. People come in without a photo_url; the primary
// image envelope restores it once its files are on disk.
func (s *packageService) importPackageTx(ctx context.Context, treeID string, doc *models.FamTreePackage, decoded []decodedEnvelope) error {
	idmap := newIdentityMap()
	for i := range doc.People {
		src := &doc.People[i]
		person := *src
		person.ID = idmap.Register(src.ID)
		person.TreeID = treeID
		person.PhotoURL = nil
		if err := s.personRepo.Create(ctx, &person); err != nil {
			return err
		}
	}

	for i := range doc.Relationships {
		src := &doc.Relationships[i]
		p1, ok1 := idmap.Lookup(src.Person1ID)
		p2, ok2 := idmap.Lookup(src.Person2ID)
		if !ok1 || !ok2 {
			s.logger.Warn("dropping dangling relationship", "relationship_id", src.ID, "tree_id", treeID)
			continue
		}
		rel := &models.Relationship{
			ID:        uuid.NewString(),
			TreeID:    treeID,
			Person1ID: p1,
			Person2ID: p2,
			Type:      src.Type,
			StartDate: src.StartDate,
			EndDate:   src.EndDate,
		}
		if err := s.relRepo.Create(ctx, rel); err != nil {
			return err
		}
	}

	for i := range decoded {
		env := decoded[i].envelope
		personID, ok := idmap.Lookup(env.PersonID)
		if !ok {
			s.logger.Warn("dropping image for unknown person", "person_id", env.PersonID, "tree_id", treeID)
			continue
		}

		filename := imaging.ImportFilename(path.Ext(env.Filename))
		if err := s.store.WriteOriginal(filename, decoded[i].original); err != nil {
			return err
		}
		if err := s.store.WriteThumbnail(filename, decoded[i].thumbnail); err != nil {
			return err
		}

		uploadedAt := time.Now()
		if env.UploadedAt != nil {
			uploadedAt = *env.UploadedAt
		}
		image := &models.PersonImage{
			ID:         uuid.NewString(),
			PersonID:   personID,
			ImageURL:   imaging.OriginalURL(filename),
			IsPrimary:  env.IsPrimary,
			UploadedAt: uploadedAt,
		}
		if err := s.imageRepo.Create(ctx, image); err != nil {
			return err
		}

		if image.IsPrimary {
			thumbURL := imaging.ThumbnailURL(filename)
			if err := s.personRepo.SetPhotoURL(ctx, personID, &thumbURL); err != nil {
				return err
			}
		}
	}

	return nil
}

type decodedEnvelope struct {
	envelope  *models.ImageEnvelope
	original  []byte
	thumbnail []byte
}

// decodeEnvelopes decodes every embedded image and derives its thumbnail up
// front, before any database write.
func decodeEnvelopes(envelopes []models.ImageEnvelope) ([]decodedEnvelope, error) {
	decoded := make([]decodedEnvelope, 0, len(envelopes))
	for i := range envelopes {
		env := &envelopes[i]
		original, err := base64.StdEncoding.DecodeString(env.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: image %s: %v", domain.ErrValidation, env.Filename, err)
		}
		thumbnail, err := imaging.Thumbnail(original, config.ThumbnailSize, config.ThumbnailJPEGQuality)
		if err != nil {
			return nil, fmt.Errorf("%w: image %s: %v", domain.ErrValidation, env.Filename, err)
		}
		decoded = append(decoded, decodedEnvelope{envelope: env, original: original, thumbnail: thumbnail})
	}
	return decoded, nil
}

func checkPackageVersion(doc *models.FamTreePackage) error {
	if doc == nil {
		return fmt.Errorf("%w: empty package", domain.ErrValidation)
	}
	if doc.Version != models.FamTreePackageVersion {
		return fmt.Errorf("version %q: %w", doc.Version, domain.ErrUnsupportedVersion)
	}
	return nil
}
