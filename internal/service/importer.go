package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/imaging"
	"famtree/internal/rbac"
)

// importService implements the ImportService interface
type importService struct {
	forestRepo       repositories.ForestRepository
	forestMemberRepo repositories.ForestMemberRepository
	treeRepo         repositories.TreeRepository
	treeMemberRepo   repositories.TreeMemberRepository
	personRepo       repositories.PersonRepository
	relRepo          repositories.RelationshipRepository
	txManager        repositories.TransactionManager
	store            imaging.Store
	logger           *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(
	forestRepo repositories.ForestRepository,
	forestMemberRepo repositories.ForestMemberRepository,
	treeRepo repositories.TreeRepository,
	treeMemberRepo repositories.TreeMemberRepository,
	personRepo repositories.PersonRepository,
	relRepo repositories.RelationshipRepository,
	txManager repositories.TransactionManager,
	store imaging.Store,
	logger *slog.Logger,
) services.ImportService {
	return &importService{
		forestRepo:       forestRepo,
		forestMemberRepo: forestMemberRepo,
		treeRepo:         treeRepo,
		treeMemberRepo:   treeMemberRepo,
		personRepo:       personRepo,
		relRepo:          relRepo,
		txManager:        txManager,
		store:            store,
		logger:           logger,
	}
}

// ImportTree recreates a tree document as a new tree in the forest. Every
// record gets a fresh identifier; the document's ids only serve to stitch
// relationships back together.
func (s *importService) ImportTree(ctx context.Context, actor *models.AuthUser, forestID string, doc *models.TreeExport) (*models.Tree, error) {
	if !rbac.HasRole(actor.Role, rbac.RoleArborist) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}
	if actor.TenantID == nil {
		return nil, fmt.Errorf("forest %s: %w", forestID, domain.ErrNotFound)
	}
	if _, err := s.forestRepo.GetByID(ctx, forestID, *actor.TenantID); err != nil {
		return nil, err
	}
	if doc == nil || strings.TrimSpace(doc.Tree.Name) == "" {
		return nil, fmt.Errorf("%w: tree name is required", domain.ErrValidation)
	}

	if err := s.writeImages(doc.Images); err != nil {
		return nil, err
	}

	var tree *models.Tree
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		tree, err = s.importTreeTx(txCtx, actor, forestID, doc)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tree imported", "tree_id", tree.ID, "people", len(doc.People), "user_id", actor.ID)

	return tree, nil
}

// ImportForest recreates a forest document as a new forest with new trees
func (s *importService) ImportForest(ctx context.Context, actor *models.AuthUser, doc *models.ForestExport) (*models.Forest, error) {
	if !rbac.HasRole(actor.Role, rbac.RoleRanger) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}
	if actor.TenantID == nil {
		return nil, fmt.Errorf("%w: missing tenant context", domain.ErrValidation)
	}
	if doc == nil || strings.TrimSpace(doc.Forest.Name) == "" {
		return nil, fmt.Errorf("%w: forest name is required", domain.ErrValidation)
	}

	if err := s.writeImages(doc.Images); err != nil {
		return nil, err
	}
	for _, treeDoc := range doc.Trees {
		if err := s.writeImages(treeDoc.Images); err != nil {
			return nil, err
		}
	}

	forest := &models.Forest{
		ID:        uuid.NewString(),
		TenantID:  *actor.TenantID,
		Name:      strings.TrimSpace(doc.Forest.Name),
		CreatedBy: actor.ID,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.forestRepo.Create(txCtx, forest); err != nil {
			return err
		}
		member := &models.ForestMember{
			ID:       uuid.NewString(),
			ForestID: forest.ID,
			UserID:   actor.ID,
			Role:     rbac.RoleRanger,
		}
		if err := s.forestMemberRepo.Create(txCtx, member); err != nil {
			return err
		}

		for i := range doc.Trees {
			if _, err := s.importTreeTx(txCtx, actor, forest.ID, &doc.Trees[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("forest imported", "forest_id", forest.ID, "trees", len(doc.Trees), "user_id", actor.ID)

	return forest, nil
}

// importTreeTx creates the tree, its people, and its relationships inside an
// open transaction. Each tree gets its own identity map, so the same document
// imported twice never collides.
func (s *importService) importTreeTx(ctx context.Context, actor *models.AuthUser, forestID string, doc *models.TreeExport) (*models.Tree, error) {
	tree := &models.Tree{
		ID:        uuid.NewString(),
		ForestID:  forestID,
		Name:      strings.TrimSpace(doc.Tree.Name),
		Theme:     "modern",
		Layout:    "vertical",
		CreatedBy: actor.ID,
	}
	if err := s.treeRepo.Create(ctx, tree); err != nil {
		return nil, err
	}
	member := &models.TreeMember{
		ID:     uuid.NewString(),
		TreeID: tree.ID,
		UserID: actor.ID,
		Role:   rbac.RoleArborist,
	}
	if err := s.treeMemberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	idmap := newIdentityMap()
	for i := range doc.People {
		src := &doc.People[i]
		person := *src
		person.ID = idmap.Register(src.ID)
		person.TreeID = tree.ID
		if err := s.personRepo.Create(ctx, &person); err != nil {
			return nil, err
		}
	}

	for i := range doc.Relationships {
		src := &doc.Relationships[i]
		p1, ok1 := idmap.Lookup(src.Person1ID)
		p2, ok2 := idmap.Lookup(src.Person2ID)
		if !ok1 || !ok2 {
			s.logger.Warn("dropping dangling relationship", "relationship_id", src.ID, "tree_id", tree.ID)
			continue
		}
		rel := &models.Relationship{
			ID:        uuid.NewString(),
			TreeID:    tree.ID,
			Person1ID: p1,
			Person2ID: p2,
			Type:      src.Type,
			StartDate: src.StartDate,
			EndDate:   src.EndDate,
		}
		if err := s.relRepo.Create(ctx, rel); err != nil {
			return nil, err
		}
	}

	return tree, nil
}

// writeImages restores embedded image pairs. Files already on disk are left
// untouched, which keeps repeated imports of the same document idempotent.
func (s *importService) writeImages(images map[string]models.ImagePair) error {
	for filename, pair := range images {
		original, err := base64.StdEncoding.DecodeString(pair.Original)
		if err != nil {
			return fmt.Errorf("%w: image %s: %v", domain.ErrValidation, filename, err)
		}
		thumbnail, err := base64.StdEncoding.DecodeString(pair.Thumbnail)
		if err != nil {
			return fmt.Errorf("%w: image %s: %v", domain.ErrValidation, filename, err)
		}

		if _, err := s.store.WriteOriginalIfAbsent(filename, original); err != nil {
			return err
		}
		if _, err := s.store.WriteThumbnailIfAbsent(filename, thumbnail); err != nil {
			return err
		}
	}
	return nil
}
