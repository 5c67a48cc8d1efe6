package service

import (
	"context"
	"errors"
	"testing"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/services"
	"famtree/internal/rbac"
)

func TestCreateForestEnrollsCreator(t *testing.T) {
	env := newTestEnv()
	actor := env.seedActor()
	svc := NewForestService(env.forests, env.forestMembers, env.tx, env.logger)
	ctx := context.Background()

	forest, err := svc.CreateForest(ctx, actor, &services.CreateForestRequest{Name: "  Hensley Woods  "})
	if err != nil {
		t.Fatalf("CreateForest: %v", err)
	}
	if forest.Name != "Hensley Woods" {
		t.Errorf("name = %q, want trimmed", forest.Name)
	}
	if forest.TenantID != *actor.TenantID {
		t.Errorf("tenant = %q, want actor's", forest.TenantID)
	}

	if len(env.forestMembers.members) != 1 {
		t.Fatalf("members = %d, want 1", len(env.forestMembers.members))
	}
	m := env.forestMembers.members[0]
	if m.UserID != actor.ID || m.Role != rbac.RoleRanger {
		t.Errorf("member = %+v, want creator as Ranger", m)
	}
}

func TestCreateForestRequiresRanger(t *testing.T) {
	env := newTestEnv()
	actor := env.seedActor()
	actor.Role = rbac.RoleArborist
	svc := NewForestService(env.forests, env.forestMembers, env.tx, env.logger)

	_, err := svc.CreateForest(context.Background(), actor, &services.CreateForestRequest{Name: "Woods"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Arborist create error = %v, want ErrForbidden", err)
	}
}

func TestForestTenantScoping(t *testing.T) {
	env := newTestEnv()
	actor := env.seedActor()
	svc := NewForestService(env.forests, env.forestMembers, env.tx, env.logger)
	ctx := context.Background()

	mine := env.seedForest(actor)
	env.forests.Create(ctx, &models.Forest{ID: "foreign", TenantID: "other-tenant", Name: "Foreign"})

	forests, err := svc.ListForests(ctx, actor)
	if err != nil {
		t.Fatalf("ListForests: %v", err)
	}
	if len(forests) != 1 || forests[0].ID != mine.ID {
		t.Errorf("forests = %+v, want only own tenant's", forests)
	}

	if _, err := svc.GetForest(ctx, actor, "foreign"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign get error = %v, want ErrNotFound", err)
	}
	if _, err := svc.RenameForest(ctx, actor, "foreign", "Stolen"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign rename error = %v, want ErrNotFound", err)
	}
}

func TestListForestsTenantless(t *testing.T) {
	env := newTestEnv()
	svc := NewForestService(env.forests, env.forestMembers, env.tx, env.logger)

	visitor := &models.AuthUser{ID: "u1", Role: rbac.RoleVisitor}
	forests, err := svc.ListForests(context.Background(), visitor)
	if err != nil {
		t.Fatalf("ListForests: %v", err)
	}
	if forests == nil || len(forests) != 0 {
		t.Errorf("forests = %#v, want empty non-nil slice", forests)
	}
}
