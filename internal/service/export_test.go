package service

import (
	"context"
	"encoding/base64"
	"testing"

	"famtree/internal/domain/models"
	"famtree/internal/domain/services"
)

func newExportFixture(t *testing.T) (services.ExportService, *testEnv, *models.AuthUser, *models.Forest) {
	t.Helper()
	env := newTestEnv()
	actor := env.seedActor()
	forest := env.seedForest(actor)
	svc := NewExportService(env.forests, env.trees, env.people, env.rels, env.store, env.logger)
	return svc, env, actor, forest
}

func TestExportTreeWithoutImages(t *testing.T) {
	svc, env, actor, forest := newExportFixture(t)
	ctx := context.Background()

	tree := env.seedTree(actor, forest.ID)
	env.people.Create(ctx, &models.Person{ID: "p1", TreeID: tree.ID, FirstName: "Edith"})
	env.rels.Create(ctx, &models.Relationship{ID: "r1", TreeID: tree.ID, Person1ID: "p1", Person2ID: "p1", Type: "self"})

	doc, err := svc.ExportTree(ctx, actor, tree.ID, false)
	if err != nil {
		t.Fatalf("ExportTree: %v", err)
	}

	if doc.Tree.ID != tree.ID || doc.Tree.Name != tree.Name {
		t.Errorf("tree meta = %+v", doc.Tree)
	}
	if len(doc.People) != 1 || len(doc.Relationships) != 1 {
		t.Errorf("people = %d, relationships = %d", len(doc.People), len(doc.Relationships))
	}
	if doc.Images != nil {
		t.Error("images included without includeImages")
	}
}

func TestExportTreeIncludesOnlyCompleteImagePairs(t *testing.T) {
	svc, env, actor, forest := newExportFixture(t)
	ctx := context.Background()

	tree := env.seedTree(actor, forest.ID)
	env.people.Create(ctx, &models.Person{
		ID: "p1", TreeID: tree.ID, FirstName: "Complete",
		PhotoURL: strptr("/uploads/thumbnails/good.jpg"),
	})
	env.people.Create(ctx, &models.Person{
		ID: "p2", TreeID: tree.ID, FirstName: "HalfMissing",
		PhotoURL: strptr("/uploads/thumbnails/orphan.jpg"),
	})

	env.store.WriteOriginal("good.jpg", []byte("orig"))
	env.store.WriteThumbnail("good.jpg", []byte("thumb"))
	// orphan.jpg has an original but no thumbnail.
	env.store.WriteOriginal("orphan.jpg", []byte("orig"))

	doc, err := svc.ExportTree(ctx, actor, tree.ID, true)
	if err != nil {
		t.Fatalf("ExportTree: %v", err)
	}

	if len(doc.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(doc.Images))
	}
	pair, ok := doc.Images["good.jpg"]
	if !ok {
		t.Fatal("complete pair missing from export")
	}
	if pair.Original != base64.StdEncoding.EncodeToString([]byte("orig")) {
		t.Error("original bytes mangled")
	}
	if pair.Thumbnail != base64.StdEncoding.EncodeToString([]byte("thumb")) {
		t.Error("thumbnail bytes mangled")
	}
}

func TestExportForestDeduplicatesImages(t *testing.T) {
	svc, env, actor, forest := newExportFixture(t)
	ctx := context.Background()

	// Two trees whose people share one photo file.
	tree1 := env.seedTree(actor, forest.ID)
	tree2 := env.seedTree(actor, forest.ID)
	shared := strptr("/uploads/thumbnails/shared.jpg")
	env.people.Create(ctx, &models.Person{ID: "p1", TreeID: tree1.ID, FirstName: "A", PhotoURL: shared})
	env.people.Create(ctx, &models.Person{ID: "p2", TreeID: tree2.ID, FirstName: "B", PhotoURL: shared})

	env.store.WriteOriginal("shared.jpg", []byte("orig"))
	env.store.WriteThumbnail("shared.jpg", []byte("thumb"))
	env.store.reads = map[string]int{}

	doc, err := svc.ExportForest(ctx, actor, forest.ID, true)
	if err != nil {
		t.Fatalf("ExportForest: %v", err)
	}

	if len(doc.Trees) != 2 {
		t.Fatalf("trees = %d, want 2", len(doc.Trees))
	}
	if len(doc.Images) != 1 {
		t.Errorf("images = %d, want 1 deduplicated entry", len(doc.Images))
	}
	for _, treeDoc := range doc.Trees {
		if treeDoc.Images != nil {
			t.Error("per-tree image map set in forest export")
		}
	}

	// The shared file was read exactly once.
	if got := env.store.reads["shared.jpg"]; got != 1 {
		t.Errorf("shared.jpg read %d times, want 1", got)
	}
}

func TestExportScopedToTenant(t *testing.T) {
	svc, env, actor, _ := newExportFixture(t)
	ctx := context.Background()

	foreign := &models.Forest{ID: "foreign", TenantID: "other-tenant", Name: "Foreign"}
	env.forests.Create(ctx, foreign)
	foreignTree := &models.Tree{ID: "ft", ForestID: foreign.ID, Name: "Hidden"}
	env.trees.Create(ctx, foreignTree)

	if _, err := svc.ExportTree(ctx, actor, foreignTree.ID, false); err == nil {
		t.Error("exported a tree from another tenant")
	}
	if _, err := svc.ExportForest(ctx, actor, foreign.ID, false); err == nil {
		t.Error("exported a forest from another tenant")
	}
}
