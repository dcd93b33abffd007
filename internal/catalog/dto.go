package catalog

import "time"

type itemResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PricePerUnit string    `json:"pricePerUnit"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:           it.ID,
		Name:         it.Name,
		PricePerUnit: it.PricePerUnit.StringFixed(2),
		Category:     it.Category,
		CreatedAt:    it.CreatedAt,
	}
}

func toItemResponses(items []Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

type inventoryResponse struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"itemId"`
	CurrentStock int       `json:"currentStock"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

func toInventoryResponse(rec InventoryRecord) inventoryResponse {
	return inventoryResponse{
		ID:           rec.ID,
		ItemID:       rec.ItemID,
		CurrentStock: rec.CurrentStock,
		LastUpdated:  rec.LastUpdated,
	}
}

type inventoryLineResponse struct {
	inventoryResponse
	Item itemResponse `json:"item"`
}

func toInventoryLineResponses(lines []InventoryLine) []inventoryLineResponse {
	out := make([]inventoryLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, inventoryLineResponse{
			inventoryResponse: toInventoryResponse(line.InventoryRecord),
			Item:              toItemResponse(line.Item),
		})
	}
	return out
}
