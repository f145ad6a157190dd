package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metiseon/landing/internal/database"
	"github.com/metiseon/landing/internal/publish"
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("0 0 6 * * *", &countingJob{}))
	assert.Equal(t, 1, s.Entries())

	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	assert.Equal(t, 1, s.Entries())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	assert.Error(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.Nop())
	s.Start()
	s.Stop()
}

type stubExporter struct {
	bundle *publish.Bundle
	err    error
}

func (e stubExporter) Export(context.Context) (*publish.Bundle, error) { return e.bundle, e.err }

type stubPublisher struct {
	published []*publish.Bundle
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, b *publish.Bundle) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, b)
	return nil
}

func TestPublishSiteJob_Run(t *testing.T) {
	bundle := &publish.Bundle{Manifest: publish.Manifest{BuildID: "build-1"}}
	pub := &stubPublisher{}
	job := NewPublishSiteJob(stubExporter{bundle: bundle}, pub, zerolog.Nop())

	assert.Equal(t, "publish_site", job.Name())
	require.NoError(t, job.Run())
	require.Len(t, pub.published, 1)
	assert.Same(t, bundle, pub.published[0])
}

func TestPublishSiteJob_Errors(t *testing.T) {
	pub := &stubPublisher{}
	job := NewPublishSiteJob(stubExporter{err: errors.New("template: boom")}, pub, zerolog.Nop())
	assert.ErrorContains(t, job.Run(), "export failed")
	assert.Empty(t, pub.published)

	job = NewPublishSiteJob(stubExporter{bundle: &publish.Bundle{}}, &stubPublisher{err: errors.New("access denied")}, zerolog.Nop())
	assert.ErrorContains(t, job.Run(), "publish failed")
}

func TestCheckLedgerDatabaseJob(t *testing.T) {
	job := NewCheckLedgerDatabaseJob(nil)
	assert.Equal(t, "check_ledger_database", job.Name())
	assert.NoError(t, job.Run(), "nil database is skipped")

	db, err := database.New(database.Config{Name: "ledger"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	job = NewCheckLedgerDatabaseJob(db)
	job.SetLogger(zerolog.New(nil).Level(zerolog.Disabled))
	assert.NoError(t, job.Run())
}
