package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/rbac"
)

// In-memory repository fakes shared by the service tests. They mirror the
// Postgres repositories' contracts, including tenant-scoped lookups and the
// sentinel errors services match on.

type memTxManager struct{}

func (memTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type memTenantRepo struct {
	tenants map[string]*models.Tenant
}

func newMemTenantRepo() *memTenantRepo {
	return &memTenantRepo{tenants: map[string]*models.Tenant{}}
}

func (r *memTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	tenant.CreatedAt = time.Now()
	cp := *tenant
	r.tenants[tenant.ID] = &cp
	return nil
}

func (r *memTenantRepo) Count(ctx context.Context) (int, error) {
	return len(r.tenants), nil
}

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("email %s already registered: %w", user.Email, domain.ErrConflict)
		}
	}
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

type memActivityRepo struct {
	active int
}

func (r memActivityRepo) Touch(ctx context.Context, userID string, seen time.Time) error {
	return nil
}

func (r memActivityRepo) CountActiveSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	return r.active, nil
}

type memForestRepo struct {
	forests map[string]*models.Forest
}

func newMemForestRepo() *memForestRepo {
	return &memForestRepo{forests: map[string]*models.Forest{}}
}

func (r *memForestRepo) Create(ctx context.Context, forest *models.Forest) error {
	forest.CreatedAt = time.Now()
	cp := *forest
	r.forests[forest.ID] = &cp
	return nil
}

func (r *memForestRepo) GetByID(ctx context.Context, id, tenantID string) (*models.Forest, error) {
	f, ok := r.forests[id]
	if !ok || f.TenantID != tenantID {
		return nil, fmt.Errorf("forest %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *memForestRepo) ListByTenant(ctx context.Context, tenantID string) ([]models.Forest, error) {
	out := []models.Forest{}
	for _, f := range r.forests {
		if f.TenantID == tenantID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memForestRepo) Rename(ctx context.Context, id, name string) error {
	f, ok := r.forests[id]
	if !ok {
		return fmt.Errorf("forest %s: %w", id, domain.ErrNotFound)
	}
	f.Name = name
	return nil
}

type memForestMemberRepo struct {
	members []models.ForestMember
}

func (r *memForestMemberRepo) Create(ctx context.Context, member *models.ForestMember) error {
	r.members = append(r.members, *member)
	return nil
}

type memTreeRepo struct {
	trees   map[string]*models.Tree
	forests *memForestRepo
}

func newMemTreeRepo(forests *memForestRepo) *memTreeRepo {
	return &memTreeRepo{trees: map[string]*models.Tree{}, forests: forests}
}

func (r *memTreeRepo) Create(ctx context.Context, tree *models.Tree) error {
	tree.CreatedAt = time.Now()
	cp := *tree
	r.trees[tree.ID] = &cp
	return nil
}

func (r *memTreeRepo) GetByID(ctx context.Context, id string) (*models.Tree, error) {
	t, ok := r.trees[id]
	if !ok {
		return nil, fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (r *memTreeRepo) GetInTenant(ctx context.Context, id, tenantID string) (*models.Tree, error) {
	t, ok := r.trees[id]
	if !ok {
		return nil, fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}
	f, ok := r.forests.forests[t.ForestID]
	if !ok || f.TenantID != tenantID {
		return nil, fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (r *memTreeRepo) ListByForest(ctx context.Context, forestID string) ([]models.Tree, error) {
	out := []models.Tree{}
	for _, t := range r.trees {
		if t.ForestID == forestID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTreeRepo) Rename(ctx context.Context, id, name string) error {
	t, ok := r.trees[id]
	if !ok {
		return fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}
	t.Name = name
	return nil
}

func (r *memTreeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.trees[id]; !ok {
		return fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}
	delete(r.trees, id)
	return nil
}

type memTreeMemberRepo struct {
	members []models.TreeMember
}

func (r *memTreeMemberRepo) Create(ctx context.Context, member *models.TreeMember) error {
	r.members = append(r.members, *member)
	return nil
}

func (r *memTreeMemberRepo) GetRole(ctx context.Context, treeID, userID string) (rbac.Role, error) {
	for _, m := range r.members {
		if m.TreeID == treeID && m.UserID == userID {
			return m.Role, nil
		}
	}
	return "", fmt.Errorf("tree member: %w", domain.ErrNotFound)
}

func (r *memTreeMemberRepo) DeleteByTree(ctx context.Context, treeID string) error {
	kept := r.members[:0]
	for _, m := range r.members {
		if m.TreeID != treeID {
			kept = append(kept, m)
		}
	}
	r.members = kept
	return nil
}

// memPersonRepo mirrors the schema's foreign keys: deletes fail while life
// events, stories, or relationships still reference the person, and the
// person's images cascade away with them.
type memPersonRepo struct {
	people  map[string]*models.Person
	events  *memEventRepo
	stories *memStoryRepo
	rels    *memRelRepo
	images  *memImageRepo
}

func newMemPersonRepo() *memPersonRepo {
	return &memPersonRepo{people: map[string]*models.Person{}}
}

func (r *memPersonRepo) referenced(personID string) bool {
	if r.events != nil {
		for _, e := range r.events.events {
			if e.PersonID == personID {
				return true
			}
		}
	}
	if r.stories != nil {
		for _, s := range r.stories.stories {
			if s.PersonID == personID {
				return true
			}
		}
	}
	if r.rels != nil {
		for _, rel := range r.rels.rels {
			if rel.Person1ID == personID || rel.Person2ID == personID {
				return true
			}
		}
	}
	return false
}

func (r *memPersonRepo) deleteRow(id string) error {
	if r.referenced(id) {
		return fmt.Errorf("delete person %s: violates foreign key constraint", id)
	}
	if r.images != nil {
		for imageID, img := range r.images.images {
			if img.PersonID == id {
				delete(r.images.images, imageID)
			}
		}
	}
	delete(r.people, id)
	return nil
}

func (r *memPersonRepo) Create(ctx context.Context, person *models.Person) error {
	person.CreatedAt = time.Now()
	cp := *person
	r.people[person.ID] = &cp
	return nil
}

func (r *memPersonRepo) GetByID(ctx context.Context, id string) (*models.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *memPersonRepo) ListByTree(ctx context.Context, treeID string) ([]models.Person, error) {
	out := []models.Person{}
	for _, p := range r.people {
		if p.TreeID == treeID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPersonRepo) Update(ctx context.Context, id string, update *models.PersonUpdate) error {
	p, ok := r.people[id]
	if !ok {
		return fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}
	if update.FirstName != nil {
		p.FirstName = *update.FirstName
	}
	if update.MiddleName != nil {
		p.MiddleName = update.MiddleName
	}
	if update.LastName != nil {
		p.LastName = update.LastName
	}
	if update.MaidenName != nil {
		p.MaidenName = update.MaidenName
	}
	if update.Gender != nil {
		p.Gender = update.Gender
	}
	if update.BirthDate != nil {
		p.BirthDate = update.BirthDate
	}
	if update.BirthPlace != nil {
		p.BirthPlace = update.BirthPlace
	}
	if update.DeathDate != nil {
		p.DeathDate = update.DeathDate
	}
	if update.DeathPlace != nil {
		p.DeathPlace = update.DeathPlace
	}
	if update.Biography != nil {
		p.Biography = update.Biography
	}
	if update.PhotoURL != nil {
		p.PhotoURL = update.PhotoURL
	}
	if update.PositionX != nil {
		p.PositionX = *update.PositionX
	}
	if update.PositionY != nil {
		p.PositionY = *update.PositionY
	}
	return nil
}

func (r *memPersonRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.people[id]; !ok {
		return fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}
	return r.deleteRow(id)
}

func (r *memPersonRepo) DeleteByTree(ctx context.Context, treeID string) error {
	for id, p := range r.people {
		if p.TreeID == treeID {
			if err := r.deleteRow(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *memPersonRepo) SetPhotoURL(ctx context.Context, id string, url *string) error {
	p, ok := r.people[id]
	if !ok {
		return fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}
	p.PhotoURL = url
	return nil
}

type memRelRepo struct {
	rels map[string]*models.Relationship
}

func newMemRelRepo() *memRelRepo {
	return &memRelRepo{rels: map[string]*models.Relationship{}}
}

func (r *memRelRepo) Create(ctx context.Context, rel *models.Relationship) error {
	rel.CreatedAt = time.Now()
	cp := *rel
	r.rels[rel.ID] = &cp
	return nil
}

func (r *memRelRepo) ListByTree(ctx context.Context, treeID string) ([]models.Relationship, error) {
	out := []models.Relationship{}
	for _, rel := range r.rels {
		if rel.TreeID == treeID {
			out = append(out, *rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRelRepo) UpdateType(ctx context.Context, id, relType string) error {
	rel, ok := r.rels[id]
	if !ok {
		return fmt.Errorf("relationship %s: %w", id, domain.ErrNotFound)
	}
	rel.Type = relType
	return nil
}

func (r *memRelRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.rels[id]; !ok {
		return fmt.Errorf("relationship %s: %w", id, domain.ErrNotFound)
	}
	delete(r.rels, id)
	return nil
}

func (r *memRelRepo) DeleteByPerson(ctx context.Context, personID string) error {
	for id, rel := range r.rels {
		if rel.Person1ID == personID || rel.Person2ID == personID {
			delete(r.rels, id)
		}
	}
	return nil
}

func (r *memRelRepo) DeleteByTree(ctx context.Context, treeID string) error {
	for id, rel := range r.rels {
		if rel.TreeID == treeID {
			delete(r.rels, id)
		}
	}
	return nil
}

type memEventRepo struct {
	events []models.LifeEvent
	people *memPersonRepo
}

func (r *memEventRepo) Create(ctx context.Context, event *models.LifeEvent) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *memEventRepo) ListByPerson(ctx context.Context, personID string) ([]models.LifeEvent, error) {
	out := []models.LifeEvent{}
	for _, e := range r.events {
		if e.PersonID == personID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) DeleteByPerson(ctx context.Context, personID string) error {
	kept := r.events[:0]
	for _, e := range r.events {
		if e.PersonID != personID {
			kept = append(kept, e)
		}
	}
	r.events = kept
	return nil
}

func (r *memEventRepo) DeleteByTree(ctx context.Context, treeID string) error {
	kept := r.events[:0]
	for _, e := range r.events {
		p, ok := r.people.people[e.PersonID]
		if !ok || p.TreeID != treeID {
			kept = append(kept, e)
		}
	}
	r.events = kept
	return nil
}

type memStoryRepo struct {
	stories []models.Story
	people  *memPersonRepo
}

func (r *memStoryRepo) Create(ctx context.Context, story *models.Story) error {
	r.stories = append(r.stories, *story)
	return nil
}

func (r *memStoryRepo) ListByPerson(ctx context.Context, personID string) ([]models.Story, error) {
	out := []models.Story{}
	for _, s := range r.stories {
		if s.PersonID == personID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStoryRepo) ListByTree(ctx context.Context, treeID string) ([]models.Story, error) {
	out := []models.Story{}
	for _, s := range r.stories {
		if s.TreeID == treeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStoryRepo) DeleteByPerson(ctx context.Context, personID string) error {
	kept := r.stories[:0]
	for _, s := range r.stories {
		if s.PersonID != personID {
			kept = append(kept, s)
		}
	}
	r.stories = kept
	return nil
}

func (r *memStoryRepo) DeleteByTree(ctx context.Context, treeID string) error {
	kept := r.stories[:0]
	for _, s := range r.stories {
		if s.TreeID == treeID {
			continue
		}
		if p, ok := r.people.people[s.PersonID]; ok && p.TreeID == treeID {
			continue
		}
		kept = append(kept, s)
	}
	r.stories = kept
	return nil
}

type memImageRepo struct {
	images map[string]*models.PersonImage
	people *memPersonRepo
}

func newMemImageRepo(people *memPersonRepo) *memImageRepo {
	return &memImageRepo{images: map[string]*models.PersonImage{}, people: people}
}

func (r *memImageRepo) Create(ctx context.Context, image *models.PersonImage) error {
	cp := *image
	r.images[image.ID] = &cp
	return nil
}

func (r *memImageRepo) Get(ctx context.Context, imageID, personID string) (*models.PersonImage, error) {
	img, ok := r.images[imageID]
	if !ok || img.PersonID != personID {
		return nil, fmt.Errorf("image %s: %w", imageID, domain.ErrNotFound)
	}
	cp := *img
	return &cp, nil
}

func (r *memImageRepo) ListByPerson(ctx context.Context, personID string) ([]models.PersonImage, error) {
	out := []models.PersonImage{}
	for _, img := range r.images {
		if img.PersonID == personID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (r *memImageRepo) ListByTree(ctx context.Context, treeID string) ([]models.PersonImage, error) {
	out := []models.PersonImage{}
	for _, img := range r.images {
		p, ok := r.people.people[img.PersonID]
		if ok && p.TreeID == treeID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memImageRepo) CountByPerson(ctx context.Context, personID string) (int, error) {
	count := 0
	for _, img := range r.images {
		if img.PersonID == personID {
			count++
		}
	}
	return count, nil
}

func (r *memImageRepo) NewestByPerson(ctx context.Context, personID string) (*models.PersonImage, error) {
	var newest *models.PersonImage
	for _, img := range r.images {
		if img.PersonID != personID {
			continue
		}
		if newest == nil || img.UploadedAt.After(newest.UploadedAt) {
			newest = img
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("images of person %s: %w", personID, domain.ErrNotFound)
	}
	cp := *newest
	return &cp, nil
}

func (r *memImageRepo) ClearPrimary(ctx context.Context, personID string) error {
	for _, img := range r.images {
		if img.PersonID == personID {
			img.IsPrimary = false
		}
	}
	return nil
}

func (r *memImageRepo) SetPrimary(ctx context.Context, imageID string) error {
	img, ok := r.images[imageID]
	if !ok {
		return fmt.Errorf("image %s: %w", imageID, domain.ErrNotFound)
	}
	img.IsPrimary = true
	return nil
}

func (r *memImageRepo) Delete(ctx context.Context, imageID string) error {
	if _, ok := r.images[imageID]; !ok {
		return fmt.Errorf("image %s: %w", imageID, domain.ErrNotFound)
	}
	delete(r.images, imageID)
	return nil
}

func (r *memImageRepo) DeleteByPerson(ctx context.Context, personID string) error {
	for id, img := range r.images {
		if img.PersonID == personID {
			delete(r.images, id)
		}
	}
	return nil
}

func (r *memImageRepo) DeleteByTree(ctx context.Context, treeID string) error {
	for id, img := range r.images {
		p, ok := r.people.people[img.PersonID]
		if ok && p.TreeID == treeID {
			delete(r.images, id)
		}
	}
	return nil
}

// memStore keeps both image variants in maps and counts reads and writes, so
// tests can assert deduplication and idempotency.
type memStore struct {
	originals  map[string][]byte
	thumbnails map[string][]byte
	reads      map[string]int
	writes     map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		originals:  map[string][]byte{},
		thumbnails: map[string][]byte{},
		reads:      map[string]int{},
		writes:     map[string]int{},
	}
}

func (s *memStore) WriteOriginal(filename string, data []byte) error {
	s.writes[filename]++
	s.originals[filename] = data
	return nil
}

func (s *memStore) WriteThumbnail(filename string, data []byte) error {
	s.thumbnails[filename] = data
	return nil
}

func (s *memStore) WriteOriginalIfAbsent(filename string, data []byte) (bool, error) {
	if _, ok := s.originals[filename]; ok {
		return false, nil
	}
	s.writes[filename]++
	s.originals[filename] = data
	return true, nil
}

func (s *memStore) WriteThumbnailIfAbsent(filename string, data []byte) (bool, error) {
	if _, ok := s.thumbnails[filename]; ok {
		return false, nil
	}
	s.thumbnails[filename] = data
	return true, nil
}

func (s *memStore) ReadOriginal(filename string) ([]byte, error) {
	s.reads[filename]++
	data, ok := s.originals[filename]
	if !ok {
		return nil, fmt.Errorf("read image: missing %s", filename)
	}
	return data, nil
}

func (s *memStore) ReadThumbnail(filename string) ([]byte, error) {
	data, ok := s.thumbnails[filename]
	if !ok {
		return nil, fmt.Errorf("read image: missing %s", filename)
	}
	return data, nil
}

func (s *memStore) RemoveOriginal(filename string) error {
	delete(s.originals, filename)
	return nil
}

func (s *memStore) RemoveThumbnail(filename string) error {
	delete(s.thumbnails, filename)
	return nil
}

func (s *memStore) OriginalSize(filename string) int64 {
	return int64(len(s.originals[filename]))
}

func (s *memStore) ThumbnailSize(filename string) int64 {
	return int64(len(s.thumbnails[filename]))
}
