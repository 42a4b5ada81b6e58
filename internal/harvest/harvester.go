package harvest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"sponsor/etl/internal/domain"
)

// Downloader fetches one remote file, returning its bytes and the
// extension inferred from the response content type.
type Downloader interface {
	FetchFile(ctx context.Context, fileID string) ([]byte, string, error)
}

// Harvester owns the images directory for the duration of a run: it
// clears it, fills it with every referenced image and rewrites the
// catalog's image references to the local filenames.
type Harvester struct {
	downloader Downloader
	outputDir  string
}

func NewHarvester(downloader Downloader, outputDir string) *Harvester {
	return &Harvester{
		downloader: downloader,
		outputDir:  outputDir,
	}
}

// Run downloads the distinct set of file ids referenced by the catalog
// and rewrites matching Item/SubItem image references in place. One
// failed download only leaves its own references unrewritten.
func (h *Harvester) Run(ctx context.Context, items domain.Catalog) error {
	if err := h.resetOutputDir(); err != nil {
		return err
	}

	ids := CollectFileIDs(items)
	if len(ids) == 0 {
		log.Info("No images referenced by the catalog")
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		resolved = make(map[string]string, len(ids))
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			filename, err := h.download(ctx, id)
			if err != nil {
				log.Warnf("Failed to download image %s: %v", id, err)
				return
			}

			mu.Lock()
			resolved[id] = filename
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	rewriteReferences(items, resolved)
	log.Infof("Harvested %d of %d images into %s", len(resolved), len(ids), h.outputDir)
	return nil
}

// download writes one image to <outputDir>/<id><ext> and returns the
// filename. An empty id is a no-op, not an error.
func (h *Harvester) download(ctx context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", nil
	}

	body, ext, err := h.downloader.FetchFile(ctx, fileID)
	if err != nil {
		return "", err
	}

	filename := fileID + ext
	if err := os.WriteFile(filepath.Join(h.outputDir, filename), body, 0644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", filename, err)
	}
	return filename, nil
}

// resetOutputDir makes every run a full rebuild of the directory.
func (h *Harvester) resetOutputDir() error {
	if err := os.RemoveAll(h.outputDir); err != nil {
		return fmt.Errorf("failed to clear images directory %s: %w", h.outputDir, err)
	}
	if err := os.MkdirAll(h.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create images directory %s: %w", h.outputDir, err)
	}
	return nil
}

// CollectFileIDs returns the sorted set of distinct file ids across
// all items and their sub-items, so every id downloads exactly once no
// matter how many records reference it.
func CollectFileIDs(items domain.Catalog) []string {
	set := make(map[string]struct{})
	for _, item := range items {
		if item.Image != "" {
			set[item.Image] = struct{}{}
		}
		for _, sub := range item.SubItems {
			if sub.Image != "" {
				set[sub.Image] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func rewriteReferences(items domain.Catalog, resolved map[string]string) {
	for _, item := range items {
		if filename, ok := resolved[item.Image]; ok {
			item.Image = filename
		}
		for i := range item.SubItems {
			if filename, ok := resolved[item.SubItems[i].Image]; ok {
				item.SubItems[i].Image = filename
			}
		}
	}
}
