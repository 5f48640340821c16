package repository

import (
	"context"
	"fmt"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
)

// ArchiveSource reads archived observations of one upstream provider.
type ArchiveSource struct {
	store    drepo.Storage
	upstream string
}

func NewArchiveSource(store drepo.Storage, upstream string) drepo.SentimentSource {
	return &ArchiveSource{store: store, upstream: upstream}
}

func (a *ArchiveSource) Name() string { return string(drepo.ProviderArchive) }

func (a *ArchiveSource) Fetch(ctx context.Context, limit int) ([]models.Observation, error) {
	obs, err := a.store.Latest(ctx, a.upstream, drepo.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", a.upstream, err)
	}
	return obs, nil
}
