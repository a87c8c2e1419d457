package trade

import (
	"context"

	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/partner"
	"github.com/sarva/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to every repository touched by a
// sale, order or cascade operation.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	Companies() catalog.CompanyRepository
	Cycles() catalog.CycleRepository
	Products() catalog.ProductRepository
	Customers() partner.CustomerRepository
	Sales() trade.SaleRepository
	SaleLines() trade.SaleLineRepository
	Orders() trade.OrderRepository
	OrderLines() trade.OrderLineRepository
}
