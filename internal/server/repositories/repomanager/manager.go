// Package repomanager vends repository implementations bound to a DBTX, so
// services can run the same repositories against a pool or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studyshare/internal/dbx"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/documents"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/members"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/subscriptions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Members(db dbx.DBTX) members.Repository
	Documents(db dbx.DBTX) documents.Repository
	Catalog(db dbx.DBTX) catalog.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
