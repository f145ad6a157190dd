package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/publish"
)

// DefaultPublishTimeout bounds one export plus upload
const DefaultPublishTimeout = 5 * time.Minute

// SiteExporter renders the static site
type SiteExporter interface {
	Export(ctx context.Context) (*publish.Bundle, error)
}

// BundlePublisher uploads an exported site
type BundlePublisher interface {
	Publish(ctx context.Context, b *publish.Bundle) error
}

// PublishSiteJob exports the site and uploads it
type PublishSiteJob struct {
	exporter  SiteExporter
	publisher BundlePublisher
	timeout   time.Duration
	log       zerolog.Logger
}

// NewPublishSiteJob creates a new PublishSiteJob
func NewPublishSiteJob(exporter SiteExporter, publisher BundlePublisher, log zerolog.Logger) *PublishSiteJob {
	return &PublishSiteJob{
		exporter:  exporter,
		publisher: publisher,
		timeout:   DefaultPublishTimeout,
		log:       log.With().Str("job", "publish_site").Logger(),
	}
}

// Name returns the job name
func (j *PublishSiteJob) Name() string {
	return "publish_site"
}

// Run executes the publish job
func (j *PublishSiteJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	bundle, err := j.exporter.Export(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := j.publisher.Publish(ctx, bundle); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	j.log.Info().
		Str("build_id", bundle.Manifest.BuildID).
		Dur("duration", time.Since(start)).
		Msg("Site published")
	return nil
}
