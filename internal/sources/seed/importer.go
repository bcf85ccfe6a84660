package seed

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/persistence"
)

// Importer appends seed profiles to the stored collection.
type Importer struct {
	ops    *persistence.Operations
	mapper *Mapper
	logger logger.Logger
}

func NewImporter(ops *persistence.Operations, mapper *Mapper, log logger.Logger) *Importer {
	return &Importer{ops: ops, mapper: mapper, logger: log}
}

// Import maps doc and appends the result in one write. It returns the
// imported profiles. The selection is not changed.
func (im *Importer) Import(ctx context.Context, doc Document) ([]domain.Profile, error) {
	profiles, err := im.mapper.Map(doc)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	if len(profiles) == 0 {
		return profiles, nil
	}
	if _, err := im.ops.Apply(ctx, "import profiles", domain.AppendProfiles(profiles)); err != nil {
		return nil, err
	}
	im.logger.Info("profiles imported", logger.Int("count", len(profiles)))
	return profiles, nil
}

// SeedIfEmpty imports doc only when no profile is stored yet. It reports
// whether anything was written.
func (im *Importer) SeedIfEmpty(ctx context.Context, doc Document) (bool, error) {
	existing, err := im.ops.Profiles(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		im.logger.Debug("storage already holds profiles, skipping seed",
			logger.Int("count", len(existing)))
		return false, nil
	}
	imported, err := im.Import(ctx, doc)
	if err != nil {
		return false, err
	}
	return len(imported) > 0, nil
}
