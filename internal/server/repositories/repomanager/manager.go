package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/heartlink/internal/dbx"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/proposals"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/sentproposals"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or transaction,
// so services can compose several of them inside one dbx.WithTx call.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Proposals(db dbx.DBTX) proposals.Repository
	SentProposals(db dbx.DBTX) sentproposals.Repository
}
