package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductDB struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	CountInStock int64
	UpdatedAt    time.Time
}
