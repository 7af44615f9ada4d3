// internal/models/query_types.go
package models

// QueryType names a store query. It labels errors and metrics.
type QueryType string

const (
	QueryTypeProfileByAccount QueryType = "profile_by_account"
	QueryTypeMenuList         QueryType = "menu_list"
	QueryTypeMenuGet          QueryType = "menu_get"
	QueryTypeMenuWrite        QueryType = "menu_write"
	QueryTypeBillInsert       QueryType = "bill_insert"
	QueryTypeBillGet          QueryType = "bill_get"
	QueryTypeBillList         QueryType = "bill_list"
	QueryTypeBillByKey        QueryType = "bill_by_idempotency_key"
	QueryTypeSalesOverview    QueryType = "sales_overview"
	QueryTypeDailyQuantities  QueryType = "daily_quantities"
	QueryTypeSaleLines        QueryType = "sale_lines"
	QueryTypeSchema           QueryType = "schema"
)
