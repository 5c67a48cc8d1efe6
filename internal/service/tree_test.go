package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/services"
	"famtree/internal/rbac"
)

func newTreeFixture(t *testing.T) (services.TreeService, *testEnv, *models.AuthUser, *models.Forest) {
	t.Helper()
	env := newTestEnv()
	actor := env.seedActor()
	forest := env.seedForest(actor)
	svc := NewTreeService(env.trees, env.treeMembers, env.forests, env.people, env.rels, env.images, env.events, env.stories, env.tx, env.logger)
	return svc, env, actor, forest
}

func TestCreateTreeEnrollsCreator(t *testing.T) {
	svc, env, actor, forest := newTreeFixture(t)
	ctx := context.Background()

	tree, err := svc.CreateTree(ctx, actor, &services.CreateTreeRequest{ForestID: forest.ID, Name: "Family"})
	if err != nil {
		t.Fatalf("CreateTree: %v", err)
	}

	if tree.Theme != "modern" || tree.Layout != "vertical" {
		t.Errorf("defaults = %q/%q, want modern/vertical", tree.Theme, tree.Layout)
	}

	role, err := env.treeMembers.GetRole(ctx, tree.ID, actor.ID)
	if err != nil {
		t.Fatalf("creator not enrolled: %v", err)
	}
	if role != rbac.RoleArborist {
		t.Errorf("creator role = %q, want Arborist", role)
	}
}

func TestCreateTreeRequiresArborist(t *testing.T) {
	svc, _, actor, forest := newTreeFixture(t)
	actor.Role = rbac.RoleVisitor

	_, err := svc.CreateTree(context.Background(), actor, &services.CreateTreeRequest{ForestID: forest.ID, Name: "Family"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("CreateTree as Visitor error = %v, want ErrForbidden", err)
	}
}

func TestCreateTreeForeignForest(t *testing.T) {
	svc, env, actor, _ := newTreeFixture(t)
	ctx := context.Background()

	foreign := &models.Forest{ID: "foreign", TenantID: "other-tenant", Name: "Foreign"}
	env.forests.Create(ctx, foreign)

	_, err := svc.CreateTree(ctx, actor, &services.CreateTreeRequest{ForestID: foreign.ID, Name: "Family"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign forest error = %v, want ErrNotFound", err)
	}
}

func TestDeleteTreeCascades(t *testing.T) {
	svc, env, actor, forest := newTreeFixture(t)
	ctx := context.Background()

	tree, err := svc.CreateTree(ctx, actor, &services.CreateTreeRequest{ForestID: forest.ID, Name: "Family"})
	if err != nil {
		t.Fatalf("CreateTree: %v", err)
	}

	env.people.Create(ctx, &models.Person{ID: "p1", TreeID: tree.ID, FirstName: "A"})
	env.rels.Create(ctx, &models.Relationship{ID: "r1", TreeID: tree.ID, Person1ID: "p1", Person2ID: "p1", Type: "self"})
	env.images.Create(ctx, &models.PersonImage{ID: "i1", PersonID: "p1"})

	if err := svc.DeleteTree(ctx, actor, tree.ID); err != nil {
		t.Fatalf("DeleteTree: %v", err)
	}

	if len(env.people.people) != 0 {
		t.Error("people survived tree delete")
	}
	if len(env.rels.rels) != 0 {
		t.Error("relationships survived tree delete")
	}
	if len(env.images.images) != 0 {
		t.Error("images survived tree delete")
	}
	if _, err := env.trees.GetByID(ctx, tree.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("tree row survived delete")
	}
	if _, err := env.treeMembers.GetRole(ctx, tree.ID, actor.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("membership survived delete")
	}
}

func TestDeleteTreeRemovesLifeEventsAndStories(t *testing.T) {
	svc, env, actor, forest := newTreeFixture(t)
	ctx := context.Background()

	tree, err := svc.CreateTree(ctx, actor, &services.CreateTreeRequest{ForestID: forest.ID, Name: "Family"})
	if err != nil {
		t.Fatalf("CreateTree: %v", err)
	}

	env.people.Create(ctx, &models.Person{ID: "p1", TreeID: tree.ID, FirstName: "A"})
	env.events.Create(ctx, &models.LifeEvent{ID: "e1", PersonID: "p1", Type: "birth", Title: "Born"})
	env.stories.Create(ctx, &models.Story{ID: "s1", PersonID: "p1", TreeID: tree.ID, Title: "Story", Content: "Once", AuthorID: actor.ID})

	// The fake person repo rejects deletes while events or stories still
	// reference the person, so this only succeeds if the service clears
	// them first.
	if err := svc.DeleteTree(ctx, actor, tree.ID); err != nil {
		t.Fatalf("DeleteTree with dependent records: %v", err)
	}

	if len(env.events.events) != 0 {
		t.Error("life events survived tree delete")
	}
	if len(env.stories.stories) != 0 {
		t.Error("stories survived tree delete")
	}
	if len(env.people.people) != 0 {
		t.Error("people survived tree delete")
	}
}

func TestDeleteTreeRequiresMembership(t *testing.T) {
	svc, env, actor, forest := newTreeFixture(t)
	ctx := context.Background()

	tree, err := svc.CreateTree(ctx, actor, &services.CreateTreeRequest{ForestID: forest.ID, Name: "Family"})
	if err != nil {
		t.Fatalf("CreateTree: %v", err)
	}

	// Non-members get not found, never forbidden: membership is not leaked.
	stranger := &models.AuthUser{ID: uuid.NewString(), Role: rbac.RoleAdmin, TenantID: actor.TenantID}
	if err := svc.DeleteTree(ctx, stranger, tree.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("stranger delete error = %v, want ErrNotFound", err)
	}

	// A Visitor member is refused.
	visitor := &models.AuthUser{ID: uuid.NewString(), Role: rbac.RoleVisitor, TenantID: actor.TenantID}
	env.treeMembers.Create(ctx, &models.TreeMember{ID: uuid.NewString(), TreeID: tree.ID, UserID: visitor.ID, Role: rbac.RoleVisitor})
	if err := svc.DeleteTree(ctx, visitor, tree.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("visitor delete error = %v, want ErrForbidden", err)
	}
}

func TestRenameTreeValidatesName(t *testing.T) {
	svc, _, actor, forest := newTreeFixture(t)
	ctx := context.Background()

	tree, err := svc.CreateTree(ctx, actor, &services.CreateTreeRequest{ForestID: forest.ID, Name: "Family"})
	if err != nil {
		t.Fatalf("CreateTree: %v", err)
	}

	if _, err := svc.RenameTree(ctx, actor, tree.ID, "x"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("one-char rename error = %v, want ErrValidation", err)
	}

	renamed, err := svc.RenameTree(ctx, actor, tree.ID, "  New Name  ")
	if err != nil {
		t.Fatalf("RenameTree: %v", err)
	}
	if renamed.Name != "New Name" {
		t.Errorf("renamed to %q, want trimmed New Name", renamed.Name)
	}
}
