package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/services"
	"famtree/internal/imaging"
)

func newPersonFixture(t *testing.T) (services.PersonService, *testEnv, *models.AuthUser, *models.Tree) {
	t.Helper()
	env := newTestEnv()
	actor := env.seedActor()
	forest := env.seedForest(actor)
	tree := env.seedTree(actor, forest.ID)
	svc := NewPersonService(env.people, env.images, env.rels, env.events, env.stories, env.trees, env.tx, env.store, env.logger)
	return svc, env, actor, tree
}

func TestCreatePersonValidation(t *testing.T) {
	svc, _, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	if _, err := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing first name error = %v, want ErrValidation", err)
	}
	if _, err := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{FirstName: "Ada"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing tree error = %v, want ErrValidation", err)
	}
}

func TestUpdatePersonRequiresFields(t *testing.T) {
	svc, _, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	person, err := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "Ada"})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	if _, err := svc.UpdatePerson(ctx, actor, person.ID, &services.UpdatePersonRequest{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty update error = %v, want ErrValidation", err)
	}

	updated, err := svc.UpdatePerson(ctx, actor, person.ID, &services.UpdatePersonRequest{
		LastName:  strptr("Lovelace"),
		BirthDate: strptr("1815-12-10"),
	})
	if err != nil {
		t.Fatalf("UpdatePerson: %v", err)
	}
	if updated.LastName == nil || *updated.LastName != "Lovelace" {
		t.Errorf("last name not updated: %+v", updated.LastName)
	}
	if updated.FirstName != "Ada" {
		t.Errorf("untouched field changed: first name = %q", updated.FirstName)
	}
}

func TestDeletePersonRemovesRelationships(t *testing.T) {
	svc, env, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	a, _ := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "A"})
	b, _ := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "B"})

	relSvc := NewRelationshipService(env.rels, env.people, env.logger)
	if _, err := relSvc.CreateRelationship(ctx, actor, &services.CreateRelationshipRequest{
		TreeID: tree.ID, Person1ID: a.ID, Person2ID: b.ID, Type: "parent",
	}); err != nil {
		t.Fatalf("CreateRelationship: %v", err)
	}

	if err := svc.DeletePerson(ctx, actor, a.ID); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}

	rels, _ := env.rels.ListByTree(ctx, tree.ID)
	if len(rels) != 0 {
		t.Errorf("relationships left after person delete: %d", len(rels))
	}
}

func TestDeletePersonRemovesLifeEventsAndStories(t *testing.T) {
	svc, env, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	a, _ := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "A"})
	b, _ := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "B"})

	env.events.Create(ctx, &models.LifeEvent{ID: "e1", PersonID: a.ID, Type: "birth", Title: "Born"})
	env.stories.Create(ctx, &models.Story{ID: "s1", PersonID: a.ID, TreeID: tree.ID, Title: "Story", Content: "Once", AuthorID: actor.ID})
	env.rels.Create(ctx, &models.Relationship{ID: "r1", TreeID: tree.ID, Person1ID: a.ID, Person2ID: b.ID, Type: "parent"})

	// The fake person repo rejects deletes while events, stories, or
	// relationships still reference the person, so this only succeeds if the
	// service clears them first.
	if err := svc.DeletePerson(ctx, actor, a.ID); err != nil {
		t.Fatalf("DeletePerson with dependent records: %v", err)
	}

	if events, _ := env.events.ListByPerson(ctx, a.ID); len(events) != 0 {
		t.Errorf("life events left after person delete: %d", len(events))
	}
	if stories, _ := env.stories.ListByPerson(ctx, a.ID); len(stories) != 0 {
		t.Errorf("stories left after person delete: %d", len(stories))
	}
	if rels, _ := env.rels.ListByTree(ctx, tree.ID); len(rels) != 0 {
		t.Errorf("relationships left after person delete: %d", len(rels))
	}

	// The other person is untouched.
	if _, err := env.people.GetByID(ctx, b.ID); err != nil {
		t.Errorf("unrelated person gone: %v", err)
	}
}

func TestUploadPhotoPrimaryInvariant(t *testing.T) {
	svc, env, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	person, err := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "Ada"})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	photo := makeJPEG(t, 300, 200)

	first, err := svc.UploadPhoto(ctx, actor, person.ID, photo)
	if err != nil {
		t.Fatalf("first UploadPhoto: %v", err)
	}
	if !first.IsPrimary {
		t.Error("first upload is not primary")
	}
	if !strings.HasPrefix(first.PhotoURL, "/uploads/thumbnails/") {
		t.Errorf("photo_url = %q, want a thumbnail URL", first.PhotoURL)
	}
	if !strings.HasPrefix(first.OriginalURL, "/uploads/originals/") {
		t.Errorf("original_url = %q, want an originals URL", first.OriginalURL)
	}

	got, _ := env.people.GetByID(ctx, person.ID)
	if got.PhotoURL == nil || *got.PhotoURL != first.PhotoURL {
		t.Errorf("person photo_url = %v, want %q", got.PhotoURL, first.PhotoURL)
	}

	// A later upload does not steal primary.
	time.Sleep(2 * time.Millisecond)
	second, err := svc.UploadPhoto(ctx, actor, person.ID, photo)
	if err != nil {
		t.Fatalf("second UploadPhoto: %v", err)
	}
	if second.IsPrimary {
		t.Error("second upload became primary")
	}

	images, _ := svc.ListImages(ctx, actor, person.ID)
	primaries := 0
	for _, img := range images {
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Errorf("primary count = %d, want 1", primaries)
	}
	if !images[0].IsPrimary {
		t.Error("ListImages did not order primary first")
	}
}

func TestSetPrimaryImage(t *testing.T) {
	svc, env, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	person, _ := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "Ada"})
	photo := makeJPEG(t, 200, 200)

	first, _ := svc.UploadPhoto(ctx, actor, person.ID, photo)
	time.Sleep(2 * time.Millisecond)
	second, _ := svc.UploadPhoto(ctx, actor, person.ID, photo)

	photoURL, err := svc.SetPrimaryImage(ctx, actor, person.ID, second.ImageID)
	if err != nil {
		t.Fatalf("SetPrimaryImage: %v", err)
	}

	wantThumb := imaging.ThumbnailURL(imaging.FilenameFromURL(second.OriginalURL))
	if photoURL != wantThumb {
		t.Errorf("photo_url = %q, want %q", photoURL, wantThumb)
	}

	oldPrimary, _ := env.images.Get(ctx, first.ImageID, person.ID)
	if oldPrimary.IsPrimary {
		t.Error("previous primary was not unset")
	}

	got, _ := env.people.GetByID(ctx, person.ID)
	if got.PhotoURL == nil || *got.PhotoURL != wantThumb {
		t.Errorf("person photo_url = %v, want %q", got.PhotoURL, wantThumb)
	}
}

func TestDeletePrimaryImagePromotesNewest(t *testing.T) {
	svc, env, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	person, _ := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "Ada"})
	photo := makeJPEG(t, 200, 200)

	first, _ := svc.UploadPhoto(ctx, actor, person.ID, photo)
	time.Sleep(2 * time.Millisecond)
	second, _ := svc.UploadPhoto(ctx, actor, person.ID, photo)

	if err := svc.DeleteImage(ctx, actor, person.ID, first.ImageID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}

	promoted, _ := env.images.Get(ctx, second.ImageID, person.ID)
	if !promoted.IsPrimary {
		t.Error("remaining image was not promoted to primary")
	}

	wantThumb := imaging.ThumbnailURL(imaging.FilenameFromURL(second.OriginalURL))
	got, _ := env.people.GetByID(ctx, person.ID)
	if got.PhotoURL == nil || *got.PhotoURL != wantThumb {
		t.Errorf("person photo_url = %v, want %q", got.PhotoURL, wantThumb)
	}

	// Deleting the last image clears photo_url.
	if err := svc.DeleteImage(ctx, actor, person.ID, second.ImageID); err != nil {
		t.Fatalf("DeleteImage last: %v", err)
	}
	got, _ = env.people.GetByID(ctx, person.ID)
	if got.PhotoURL != nil {
		t.Errorf("photo_url = %q after last delete, want nil", *got.PhotoURL)
	}
}

func TestDeleteAllPhotos(t *testing.T) {
	svc, env, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	person, _ := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "Ada"})
	photo := makeJPEG(t, 200, 200)
	svc.UploadPhoto(ctx, actor, person.ID, photo)
	svc.UploadPhoto(ctx, actor, person.ID, photo)

	if err := svc.DeleteAllPhotos(ctx, actor, person.ID); err != nil {
		t.Fatalf("DeleteAllPhotos: %v", err)
	}

	count, _ := env.images.CountByPerson(ctx, person.ID)
	if count != 0 {
		t.Errorf("image rows left: %d", count)
	}
	got, _ := env.people.GetByID(ctx, person.ID)
	if got.PhotoURL != nil {
		t.Error("photo_url not cleared")
	}
	if len(env.store.originals) != 0 {
		t.Errorf("original files left: %d", len(env.store.originals))
	}
}

func TestUploadPhotoRejectsGarbage(t *testing.T) {
	svc, _, actor, tree := newPersonFixture(t)
	ctx := context.Background()

	person, _ := svc.CreatePerson(ctx, actor, &services.CreatePersonRequest{TreeID: tree.ID, FirstName: "Ada"})

	if _, err := svc.UploadPhoto(ctx, actor, person.ID, nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty upload error = %v, want ErrValidation", err)
	}
	if _, err := svc.UploadPhoto(ctx, actor, person.ID, []byte("not an image")); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("garbage upload error = %v, want ErrValidation", err)
	}
}
