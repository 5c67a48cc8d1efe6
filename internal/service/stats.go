package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"famtree/internal/config"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/imaging"
)

const metricsDays = 30

// statsService implements the StatsService interface. It composes the entity
// repositories rather than owning aggregate SQL, so the numbers always agree
// with what the list endpoints return.
type statsService struct {
	forestRepo   repositories.ForestRepository
	treeRepo     repositories.TreeRepository
	personRepo   repositories.PersonRepository
	relRepo      repositories.RelationshipRepository
	activityRepo repositories.UserActivityRepository
	store        imaging.Store
	logger       *slog.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	forestRepo repositories.ForestRepository,
	treeRepo repositories.TreeRepository,
	personRepo repositories.PersonRepository,
	relRepo repositories.RelationshipRepository,
	activityRepo repositories.UserActivityRepository,
	store imaging.Store,
	logger *slog.Logger,
) services.StatsService {
	return &statsService{
		forestRepo:   forestRepo,
		treeRepo:     treeRepo,
		personRepo:   personRepo,
		relRepo:      relRepo,
		activityRepo: activityRepo,
		store:        store,
		logger:       logger,
	}
}

// Metrics returns a 30-day series, oldest day first. Counts are not
// historized, so every point carries the current totals.
func (s *statsService) Metrics(ctx context.Context, actor *models.AuthUser) ([]services.MetricPoint, error) {
	points := make([]services.MetricPoint, 0, metricsDays)
	if actor.TenantID == nil {
		return points, nil
	}

	forests, err := s.forestRepo.ListByTenant(ctx, *actor.TenantID)
	if err != nil {
		return nil, err
	}

	var trees, people, images int
	for _, forest := range forests {
		forestTrees, err := s.treeRepo.ListByForest(ctx, forest.ID)
		if err != nil {
			return nil, err
		}
		trees += len(forestTrees)
		for _, tree := range forestTrees {
			treePeople, err := s.personRepo.ListByTree(ctx, tree.ID)
			if err != nil {
				return nil, err
			}
			people += len(treePeople)
			for _, person := range treePeople {
				if person.PhotoURL != nil {
					images++
				}
			}
		}
	}

	now := time.Now()
	for i := metricsDays - 1; i >= 0; i-- {
		points = append(points, services.MetricPoint{
			Date:    now.AddDate(0, 0, -i).Format("2006-01-02"),
			Forests: len(forests),
			Trees:   trees,
			People:  people,
			Images:  images,
		})
	}

	return points, nil
}

// Statistics builds the per-forest and per-tree breakdown
func (s *statsService) Statistics(ctx context.Context, actor *models.AuthUser) (*services.Statistics, error) {
	stats := &services.Statistics{Forests: []services.ForestStats{}}
	if actor.TenantID == nil {
		stats.Totals.DiskSpaceMB = formatMB(0)
		return stats, nil
	}

	forests, err := s.forestRepo.ListByTenant(ctx, *actor.TenantID)
	if err != nil {
		return nil, err
	}

	totals := &stats.Totals
	totals.Forests = len(forests)

	for _, forest := range forests {
		forestStats, err := s.forestStatistics(ctx, &forest)
		if err != nil {
			return nil, err
		}
		stats.Forests = append(stats.Forests, *forestStats)

		totals.Trees += forestStats.Summary.TotalTrees
		totals.People += forestStats.Summary.TotalPeople
		totals.Males += forestStats.Summary.TotalMales
		totals.Females += forestStats.Summary.TotalFemales
		totals.Relationships += forestStats.Summary.TotalRelationships
		totals.Images += forestStats.Summary.TotalImages
		totals.DiskSpaceByte += forestStats.Summary.TotalDiskSpaceByte
	}
	totals.DiskSpaceMB = formatMB(totals.DiskSpaceByte)

	active, err := s.ActiveUsers(ctx, actor)
	if err != nil {
		return nil, err
	}
	totals.ActiveUsers = active

	return stats, nil
}

func (s *statsService) forestStatistics(ctx context.Context, forest *models.Forest) (*services.ForestStats, error) {
	trees, err := s.treeRepo.ListByForest(ctx, forest.ID)
	if err != nil {
		return nil, err
	}

	forestStats := &services.ForestStats{
		ID:    forest.ID,
		Name:  forest.Name,
		Trees: []services.TreeStats{},
	}
	summary := &forestStats.Summary
	summary.TotalTrees = len(trees)

	for _, tree := range trees {
		treeStats, err := s.treeStatistics(ctx, &tree)
		if err != nil {
			return nil, err
		}
		forestStats.Trees = append(forestStats.Trees, *treeStats)

		summary.TotalPeople += treeStats.People
		summary.TotalMales += treeStats.Males
		summary.TotalFemales += treeStats.Females
		summary.TotalRelationships += treeStats.Relationships
		summary.TotalImages += treeStats.Images
		summary.TotalDiskSpaceByte += treeStats.DiskSpaceByte

		ref := &services.TreeRef{Name: treeStats.Name, People: treeStats.People}
		if summary.LargestTree == nil || treeStats.People > summary.LargestTree.People {
			summary.LargestTree = ref
		}
		if summary.SmallestTree == nil || treeStats.People < summary.SmallestTree.People {
			summary.SmallestTree = ref
		}
	}
	summary.TotalDiskSpaceMB = formatMB(summary.TotalDiskSpaceByte)

	return forestStats, nil
}

func (s *statsService) treeStatistics(ctx context.Context, tree *models.Tree) (*services.TreeStats, error) {
	people, err := s.personRepo.ListByTree(ctx, tree.ID)
	if err != nil {
		return nil, err
	}
	relationships, err := s.relRepo.ListByTree(ctx, tree.ID)
	if err != nil {
		return nil, err
	}

	stats := &services.TreeStats{
		ID:            tree.ID,
		Name:          tree.Name,
		People:        len(people),
		Relationships: len(relationships),
	}

	for _, person := range people {
		if person.Gender != nil {
			switch *person.Gender {
			case "Male":
				stats.Males++
			case "Female":
				stats.Females++
			}
		}
		if person.PhotoURL == nil {
			continue
		}
		stats.Images++
		filename := imaging.FilenameFromURL(*person.PhotoURL)
		stats.DiskSpaceByte += s.store.OriginalSize(filename)
		stats.DiskSpaceByte += s.store.ThumbnailSize(filename)
	}
	stats.DiskSpaceMB = formatMB(stats.DiskSpaceByte)

	return stats, nil
}

// ActiveUsers counts tenant users seen within the activity window
func (s *statsService) ActiveUsers(ctx context.Context, actor *models.AuthUser) (int, error) {
	if actor.TenantID == nil {
		return 0, nil
	}
	since := time.Now().Add(-config.ActiveUserWindow)
	return s.activityRepo.CountActiveSince(ctx, *actor.TenantID, since)
}

func formatMB(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/(1024*1024))
}
