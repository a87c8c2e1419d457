// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Each model maps one table and provides ToDomain/FromDomain mappers:
// - base.go: BaseModel shared by tables with a surrogate id
// - catalog.go: companies, cycles, products
// - partner.go: customers
// - trade.go: sales, sale_line_items, orders, order_line_items
package models

// All returns every model in dependency order, for AutoMigrate in tests and dev databases.
func All() []any {
	return []any{
		&CompanyModel{},
		&CycleModel{},
		&ProductModel{},
		&CustomerModel{},
		&SaleModel{},
		&SaleLineItemModel{},
		&OrderModel{},
		&OrderLineItemModel{},
	}
}
