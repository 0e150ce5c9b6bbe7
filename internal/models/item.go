package models

// Item represents a purchasable entry belonging to exactly one list
type Item struct {
	ID        int64   `json:"id" db:"id"`
	ListID    int64   `json:"list_id" db:"lista_id"`
	Name      string  `json:"name" db:"nome"`
	Quantity  float64 `json:"quantity" db:"quantidade"`
	UnitPrice float64 `json:"unit_price" db:"preco_unit"`
	Purchased bool    `json:"purchased" db:"comprado"`
}

// Subtotal returns quantity times unit price for purchased items. Items not
// yet purchased contribute nothing to any total.
func (i *Item) Subtotal() float64 {
	if !i.Purchased {
		return 0
	}
	return i.Quantity * i.UnitPrice
}
