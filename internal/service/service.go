package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"sponsor/etl/internal/catalog"
	"sponsor/etl/internal/client"
	"sponsor/etl/internal/config"
	"sponsor/etl/internal/domain"
	"sponsor/etl/internal/harvest"
	"sponsor/etl/internal/plan"
)

// Phase names one step of the pipeline.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseFetchingSheets   Phase = "fetching_sheets"
	PhaseMerging          Phase = "merging"
	PhaseHarvestingImages Phase = "harvesting_images"
	PhaseWritingCatalog   Phase = "writing_catalog"
	PhaseBuildingPlans    Phase = "building_plans"
	PhaseWritingPlans     Phase = "writing_plans"
	PhaseDone             Phase = "done"
	PhaseFailed           Phase = "failed"
)

type Service struct {
	sheets    client.SheetsClient
	harvester *harvest.Harvester
	output    config.OutputConfig
	tabs      map[string]string

	phase Phase
}

func NewService(sheets client.SheetsClient, harvester *harvest.Harvester, cfg *config.Config) *Service {
	return &Service{
		sheets:    sheets,
		harvester: harvester,
		output:    cfg.Output,
		tabs:      cfg.Spreadsheet.Tabs,
		phase:     PhaseIdle,
	}
}

// Phase reports the pipeline's current step; PhaseFailed is terminal.
func (s *Service) Phase() Phase {
	return s.phase
}

// Run executes the full pipeline. Files written by completed steps
// stay on disk when a later step fails, there is no rollback.
func (s *Service) Run(ctx context.Context) error {
	s.enter(PhaseFetchingSheets)
	tabs, err := s.fetchSheets(ctx)
	if err != nil {
		return s.fail(PhaseFetchingSheets, err)
	}

	s.enter(PhaseMerging)
	items, err := catalog.BuildCatalog(tabs)
	if err != nil {
		return s.fail(PhaseMerging, err)
	}

	s.enter(PhaseHarvestingImages)
	if err := s.harvester.Run(ctx, items); err != nil {
		return s.fail(PhaseHarvestingImages, err)
	}

	s.enter(PhaseWritingCatalog)
	if err := writeJSON(s.output.CatalogFile, items); err != nil {
		return s.fail(PhaseWritingCatalog, err)
	}

	s.enter(PhaseBuildingPlans)
	plans, err := plan.BuildPlans(tabs[domain.TabPlans], items, plan.IsCategoryHeader)
	if err != nil {
		return s.fail(PhaseBuildingPlans, err)
	}

	s.enter(PhaseWritingPlans)
	if err := writeJSON(s.output.PlansFile, plans); err != nil {
		return s.fail(PhaseWritingPlans, err)
	}

	s.enter(PhaseDone)
	withSubItems := 0
	for _, item := range items {
		if len(item.SubItems) > 0 {
			withSubItems++
		}
	}
	log.Infof("✅ Pipeline complete: %d items (%d with sub-items), %d plans",
		len(items), withSubItems, len(plans))
	return nil
}

func (s *Service) enter(phase Phase) {
	s.phase = phase
	log.Infof("🔄 Phase: %s", phase)
}

func (s *Service) fail(phase Phase, err error) error {
	s.phase = PhaseFailed
	return fmt.Errorf("%s: %w", phase, err)
}

// fetchSheets retrieves and parses every configured tab concurrently.
// Any single tab's failure aborts the whole fetch, there is no partial
// catalog from a subset of tabs.
func (s *Service) fetchSheets(ctx context.Context) (domain.SheetTable, error) {
	var mu sync.Mutex
	tabs := make(domain.SheetTable, len(s.tabs))

	g, ctx := errgroup.WithContext(ctx)
	for name, gid := range s.tabs {
		name, gid := name, gid
		g.Go(func() error {
			text, err := s.sheets.FetchTab(ctx, gid)
			if err != nil {
				return fmt.Errorf("tab %s: %w", name, err)
			}

			sheet, err := client.ParseRecords(domain.TabName(name), text)
			if err != nil {
				return fmt.Errorf("tab %s: %w", name, err)
			}

			mu.Lock()
			tabs[sheet.Name] = sheet
			mu.Unlock()

			log.Infof("Fetched tab %s: %d rows", name, len(sheet.Rows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tabs, nil
}

// writeJSON emits one pretty-printed artifact. Map keys marshal
// sorted, so unchanged inputs produce byte-identical output.
func writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
