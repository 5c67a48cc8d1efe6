package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/imaging"
)

// exportService implements the ExportService interface
type exportService struct {
	forestRepo repositories.ForestRepository
	treeRepo   repositories.TreeRepository
	personRepo repositories.PersonRepository
	relRepo    repositories.RelationshipRepository
	store      imaging.Store
	logger     *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(
	forestRepo repositories.ForestRepository,
	treeRepo repositories.TreeRepository,
	personRepo repositories.PersonRepository,
	relRepo repositories.RelationshipRepository,
	store imaging.Store,
	logger *slog.Logger,
) services.ExportService {
	return &exportService{
		forestRepo: forestRepo,
		treeRepo:   treeRepo,
		personRepo: personRepo,
		relRepo:    relRepo,
		store:      store,
		logger:     logger,
	}
}

// ExportTree serializes one tree from the actor's tenant
func (s *exportService) ExportTree(ctx context.Context, actor *models.AuthUser, treeID string, includeImages bool) (*models.TreeExport, error) {
	if actor.TenantID == nil {
		return nil, fmt.Errorf("tree %s: %w", treeID, domain.ErrNotFound)
	}
	tree, err := s.treeRepo.GetInTenant(ctx, treeID, *actor.TenantID)
	if err != nil {
		return nil, err
	}

	doc, err := s.exportTree(ctx, tree)
	if err != nil {
		return nil, err
	}

	if includeImages {
		doc.Images = map[string]models.ImagePair{}
		s.collectImages(doc.People, doc.Images)
	}

	return doc, nil
}

// ExportForest serializes a forest with all its trees. The image map lives at
// the top level, deduplicated by filename, so a photo shared between trees is
// read and embedded once.
func (s *exportService) ExportForest(ctx context.Context, actor *models.AuthUser, forestID string, includeImages bool) (*models.ForestExport, error) {
	if actor.TenantID == nil {
		return nil, fmt.Errorf("forest %s: %w", forestID, domain.ErrNotFound)
	}
	forest, err := s.forestRepo.GetByID(ctx, forestID, *actor.TenantID)
	if err != nil {
		return nil, err
	}

	trees, err := s.treeRepo.ListByForest(ctx, forest.ID)
	if err != nil {
		return nil, err
	}

	doc := &models.ForestExport{
		Forest: models.ForestMeta{ID: forest.ID, Name: forest.Name, CreatedAt: forest.CreatedAt},
		Trees:  []models.TreeExport{},
	}
	if includeImages {
		doc.Images = map[string]models.ImagePair{}
	}

	for i := range trees {
		treeDoc, err := s.exportTree(ctx, &trees[i])
		if err != nil {
			return nil, err
		}
		doc.Trees = append(doc.Trees, *treeDoc)

		if includeImages {
			s.collectImages(treeDoc.People, doc.Images)
		}
	}

	return doc, nil
}

func (s *exportService) exportTree(ctx context.Context, tree *models.Tree) (*models.TreeExport, error) {
	people, err := s.personRepo.ListByTree(ctx, tree.ID)
	if err != nil {
		return nil, err
	}
	relationships, err := s.relRepo.ListByTree(ctx, tree.ID)
	if err != nil {
		return nil, err
	}

	return &models.TreeExport{
		Tree:          models.TreeMeta{ID: tree.ID, Name: tree.Name, CreatedAt: tree.CreatedAt},
		People:        people,
		Relationships: relationships,
	}, nil
}

// collectImages embeds the photo of each person that has one. An image is
// included only when both stored variants exist; filenames already present in
// the map are not read again.
func (s *exportService) collectImages(people []models.Person, images map[string]models.ImagePair) {
	for _, person := range people {
		if person.PhotoURL == nil {
			continue
		}
		filename := imaging.FilenameFromURL(*person.PhotoURL)
		if _, ok := images[filename]; ok {
			continue
		}

		original, err := s.store.ReadOriginal(filename)
		if err != nil {
			s.logger.Warn("skipping image on export", "filename", filename, "error", err)
			continue
		}
		thumbnail, err := s.store.ReadThumbnail(filename)
		if err != nil {
			s.logger.Warn("skipping image on export", "filename", filename, "error", err)
			continue
		}

		images[filename] = models.ImagePair{
			Original:  base64.StdEncoding.EncodeToString(original),
			Thumbnail: base64.StdEncoding.EncodeToString(thumbnail),
		}
	}
}
