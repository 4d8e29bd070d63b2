// Package repository provides data access for the run ledger.
package repository

import (
	"context"
	"fmt"

	"github.com/Levilaell/script-post-ai/internal/database"
	"github.com/Levilaell/script-post-ai/internal/models"
)

// CampaignRunRepository persists campaign runs and their iteration records.
type CampaignRunRepository struct {
	db *database.DB
}

// NewCampaignRunRepository creates a repository over the given database.
func NewCampaignRunRepository(db *database.DB) *CampaignRunRepository {
	return &CampaignRunRepository{db: db}
}

// CreateRun inserts a new run record.
func (r *CampaignRunRepository) CreateRun(ctx context.Context, run *models.CampaignRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("creating campaign run: %w", err)
	}
	return nil
}

// UpdateRun saves the current state of a run.
func (r *CampaignRunRepository) UpdateRun(ctx context.Context, run *models.CampaignRun) error {
	if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("updating campaign run: %w", err)
	}
	return nil
}

// AddIteration appends one iteration outcome to a run.
func (r *CampaignRunRepository) AddIteration(ctx context.Context, rec *models.IterationRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("recording iteration: %w", err)
	}
	return nil
}

// GetByRunID fetches a run by its external run identifier.
func (r *CampaignRunRepository) GetByRunID(ctx context.Context, runID string) (*models.CampaignRun, error) {
	var run models.CampaignRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, fmt.Errorf("fetching campaign run %s: %w", runID, err)
	}
	return &run, nil
}

// Iterations returns a run's iteration records in sequence order.
func (r *CampaignRunRepository) Iterations(ctx context.Context, runID models.ULID) ([]models.IterationRecord, error) {
	var recs []models.IterationRecord
	if err := r.db.WithContext(ctx).
		Where("campaign_run_id = ?", runID).
		Order("sequence ASC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("fetching iterations: %w", err)
	}
	return recs, nil
}

// RecentRuns returns the most recently started runs, newest first.
func (r *CampaignRunRepository) RecentRuns(ctx context.Context, limit int) ([]models.CampaignRun, error) {
	var runs []models.CampaignRun
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("fetching recent runs: %w", err)
	}
	return runs, nil
}
