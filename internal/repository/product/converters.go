package product

import "orderflow/internal/entities"

func ToDomain(p *ProductDB) *entities.Product {
	if p == nil {
		return nil
	}

	return &entities.Product{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		UpdatedAt:    p.UpdatedAt,
	}
}
