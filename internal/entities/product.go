package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	CountInStock int64
	UpdatedAt    time.Time
}
