// Package di provides dependency injection type definitions.
//
// The Container holds every long-lived component of the site process and is
// handed to the HTTP server and the CLI.
package di

import (
	"io/fs"

	"github.com/metiseon/landing/internal/database"
	"github.com/metiseon/landing/internal/modules/charts"
	"github.com/metiseon/landing/internal/modules/display"
	"github.com/metiseon/landing/internal/modules/ledger"
	"github.com/metiseon/landing/internal/modules/livereload"
	"github.com/metiseon/landing/internal/modules/pages"
	"github.com/metiseon/landing/internal/publish"
	"github.com/metiseon/landing/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Storage
	LedgerDB   *database.DB
	LedgerRepo *ledger.Repository

	// Assets and rendering
	AssetsFS fs.FS
	Theme    display.Theme
	Site     *pages.Site
	Charts   *charts.Service

	// Publishing
	Exporter  *publish.Exporter
	Publisher *publish.S3Publisher // nil unless a bucket is configured

	// Background work
	Scheduler *scheduler.Scheduler

	// Dev only; nil unless DEV_MODE with an ASSETS_DIR
	LiveReload *livereload.Hub
	Watcher    *livereload.Watcher
}

// JobInstances holds the registered jobs so they can be run on demand
type JobInstances struct {
	CheckLedgerDatabase scheduler.Job
	PublishSite         scheduler.Job // nil unless publishing is configured
}
