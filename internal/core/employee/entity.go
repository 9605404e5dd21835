package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee は社員マスタのエンティティです。FullName は一意な表示キーです。
type Employee struct {
	ID        string
	FullName  string
	Position  string
	Email     string
	Warehouse string
	BaseRate  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
