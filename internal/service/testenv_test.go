package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"famtree/internal/domain/models"
	"famtree/internal/rbac"
)

// testEnv wires every in-memory fake together the way main wires the real
// repositories.
type testEnv struct {
	tenants       *memTenantRepo
	users         *memUserRepo
	forests       *memForestRepo
	forestMembers *memForestMemberRepo
	trees         *memTreeRepo
	treeMembers   *memTreeMemberRepo
	people        *memPersonRepo
	rels          *memRelRepo
	images        *memImageRepo
	events        *memEventRepo
	stories       *memStoryRepo
	store         *memStore
	tx            memTxManager
	logger        *slog.Logger
}

func newTestEnv() *testEnv {
	forests := newMemForestRepo()
	people := newMemPersonRepo()
	rels := newMemRelRepo()
	images := newMemImageRepo(people)
	events := &memEventRepo{people: people}
	stories := &memStoryRepo{people: people}

	// Back-references let the person fake enforce the same foreign keys the
	// real schema declares.
	people.events = events
	people.stories = stories
	people.rels = rels
	people.images = images

	return &testEnv{
		tenants:       newMemTenantRepo(),
		users:         newMemUserRepo(),
		forests:       forests,
		forestMembers: &memForestMemberRepo{},
		trees:         newMemTreeRepo(forests),
		treeMembers:   &memTreeMemberRepo{},
		people:        people,
		rels:          rels,
		images:        images,
		events:        events,
		stories:       stories,
		store:         newMemStore(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// seedActor creates a tenant and an admin principal in it.
func (e *testEnv) seedActor() *models.AuthUser {
	tenantID := uuid.NewString()
	e.tenants.Create(context.Background(), &models.Tenant{ID: tenantID, Name: "Test Tenant"})
	return &models.AuthUser{
		ID:       uuid.NewString(),
		Email:    "admin@example.com",
		Role:     rbac.RoleAdmin,
		TenantID: &tenantID,
	}
}

// seedForest creates a forest in the actor's tenant.
func (e *testEnv) seedForest(actor *models.AuthUser) *models.Forest {
	forest := &models.Forest{
		ID:        uuid.NewString(),
		TenantID:  *actor.TenantID,
		Name:      "Test Forest",
		CreatedBy: actor.ID,
	}
	e.forests.Create(context.Background(), forest)
	return forest
}

// seedTree creates a tree in the forest and enrolls the actor as Arborist.
func (e *testEnv) seedTree(actor *models.AuthUser, forestID string) *models.Tree {
	tree := &models.Tree{
		ID:        uuid.NewString(),
		ForestID:  forestID,
		Name:      "Test Tree",
		Theme:     "modern",
		Layout:    "vertical",
		CreatedBy: actor.ID,
	}
	e.trees.Create(context.Background(), tree)
	e.treeMembers.Create(context.Background(), &models.TreeMember{
		ID:     uuid.NewString(),
		TreeID: tree.ID,
		UserID: actor.ID,
		Role:   rbac.RoleArborist,
	})
	return tree
}

// makeJPEG encodes a solid-color image for upload tests.
func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func strptr(s string) *string { return &s }
