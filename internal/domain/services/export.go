package services

import (
	"context"

	"famtree/internal/domain/models"
)

// ExportService serializes trees and forests into plain interchange
// documents. Read-only; image bytes are included only on request and only
// when both stored variants exist.
type ExportService interface {
	ExportTree(ctx context.Context, actor *models.AuthUser, treeID string, includeImages bool) (*models.TreeExport, error)
	ExportForest(ctx context.Context, actor *models.AuthUser, forestID string, includeImages bool) (*models.ForestExport, error)
}

// ImportService recreates trees and forests from plain interchange
// documents. Imports always create new records with fresh identifiers;
// relationships referencing people absent from the document are dropped.
type ImportService interface {
	ImportTree(ctx context.Context, actor *models.AuthUser, forestID string, doc *models.TreeExport) (*models.Tree, error)
	ImportForest(ctx context.Context, actor *models.AuthUser, doc *models.ForestExport) (*models.Forest, error)
}

// PackageImportResult summarizes a .famtree import into an existing tree.
type PackageImportResult struct {
	Success  bool                `json:"success"`
	Mode     string              `json:"mode"`
	Imported models.ImportCounts `json:"imported"`
}

// NewTreeImportResult summarizes a .famtree import that created a tree.
type NewTreeImportResult struct {
	Success  bool                `json:"success"`
	TreeID   string              `json:"treeId"`
	TreeName string              `json:"treeName"`
	Imported models.ImportCounts `json:"imported"`
}

// PackageService reads and writes the versioned .famtree package format:
// one tree with every image embedded as a flat envelope list.
type PackageService interface {
	// ExportPackage returns the package plus the download filename.
	ExportPackage(ctx context.Context, actor *models.AuthUser, treeID string) (*models.FamTreePackage, string, error)

	// ImportIntoTree imports into an existing tree. Mode "overwrite" clears
	// the tree's current contents first; "append" is additive. Any version
	// other than "1.0" is rejected before touching storage.
	ImportIntoTree(ctx context.Context, actor *models.AuthUser, treeID, mode string, doc *models.FamTreePackage) (*PackageImportResult, error)

	// ImportAsNewTree creates a fresh tree in the forest from the package.
	ImportAsNewTree(ctx context.Context, actor *models.AuthUser, forestID string, doc *models.FamTreePackage) (*NewTreeImportResult, error)
}
