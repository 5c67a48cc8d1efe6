package services

import (
	"context"

	"famtree/internal/domain/models"
)

// MetricPoint is one day in the usage series.
type MetricPoint struct {
	Date    string `json:"date"`
	Forests int    `json:"forests"`
	Trees   int    `json:"trees"`
	People  int    `json:"people"`
	Images  int    `json:"images"`
}

// TreeStats summarizes one tree.
type TreeStats struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	People        int     `json:"people"`
	Males         int     `json:"males"`
	Females       int     `json:"females"`
	Relationships int     `json:"relationships"`
	Images        int     `json:"images"`
	DiskSpaceByte int64   `json:"diskSpaceBytes"`
	DiskSpaceMB   string  `json:"diskSpaceMB"`
}

// TreeRef names a tree together with its person count.
type TreeRef struct {
	Name   string `json:"name"`
	People int    `json:"people"`
}

// ForestSummary aggregates tree stats within one forest.
type ForestSummary struct {
	TotalTrees         int      `json:"totalTrees"`
	TotalPeople        int      `json:"totalPeople"`
	TotalMales         int      `json:"totalMales"`
	TotalFemales       int      `json:"totalFemales"`
	TotalRelationships int      `json:"totalRelationships"`
	TotalImages        int      `json:"totalImages"`
	TotalDiskSpaceByte int64    `json:"totalDiskSpaceBytes"`
	TotalDiskSpaceMB   string   `json:"totalDiskSpaceMB"`
	LargestTree        *TreeRef `json:"largestTree"`
	SmallestTree       *TreeRef `json:"smallestTree"`
}

// ForestStats summarizes one forest and its trees.
type ForestStats struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Trees   []TreeStats   `json:"trees"`
	Summary ForestSummary `json:"summary"`
}

// StatsTotals aggregates across the whole tenant.
type StatsTotals struct {
	Forests       int    `json:"forests"`
	Trees         int    `json:"trees"`
	People        int    `json:"people"`
	Males         int    `json:"males"`
	Females       int    `json:"females"`
	Relationships int    `json:"relationships"`
	Images        int    `json:"images"`
	DiskSpaceByte int64  `json:"diskSpaceBytes"`
	DiskSpaceMB   string `json:"diskSpaceMB"`
	ActiveUsers   int    `json:"activeUsers"`
}

// Statistics is the full tenant statistics document.
type Statistics struct {
	Forests []ForestStats `json:"forests"`
	Totals  StatsTotals   `json:"totals"`
}

// StatsService reports tenant-wide usage numbers.
type StatsService interface {
	// Metrics returns a 30-day daily series of entity counts.
	Metrics(ctx context.Context, actor *models.AuthUser) ([]MetricPoint, error)

	Statistics(ctx context.Context, actor *models.AuthUser) (*Statistics, error)

	// ActiveUsers counts tenant users seen within the activity window.
	ActiveUsers(ctx context.Context, actor *models.AuthUser) (int, error)
}
