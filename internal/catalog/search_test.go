package catalog

import (
	"testing"

	"minimarket/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "azucar rubia", Fold("Azúcar Rubia"))
	assert.Equal(t, "pina", Fold("PIÑA"))
}

func TestFilter_AccentInsensitive(t *testing.T) {
	list := []model.Product{
		{ID: "1", Name: "Azúcar Rubia", Code: "AZ01", Category: "Abarrotes", Brand: "Cartavio"},
		{ID: "2", Name: "Arroz", Code: "AR01", Category: "Abarrotes", Brand: "Costeño"},
		{ID: "3", Name: "Yogurt", Code: "YG01", Category: "Lácteos", Brand: "Gloria"},
	}

	assert.Len(t, Filter{Search: "azucar"}.Apply(list), 1)
	assert.Len(t, Filter{Search: "costeno"}.Apply(list), 1)
	assert.Len(t, Filter{Search: "yg01"}.Apply(list), 1)
	assert.Len(t, Filter{Category: "lacteos"}.Apply(list), 1)
	assert.Len(t, Filter{}.Apply(list), 3)
}

func TestSortByName_SpanishOrder(t *testing.T) {
	list := []model.Product{{Name: "Ñoquis"}, {Name: "Oca"}, {Name: "Nabo"}}
	SortByName(list)
	assert.Equal(t, []string{"Nabo", "Ñoquis", "Oca"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestCategories(t *testing.T) {
	list := []model.Product{{Category: "Lácteos"}, {Category: "Abarrotes"}, {Category: "Lácteos"}, {}}
	assert.Equal(t, []string{"Abarrotes", "Lácteos"}, Categories(list))
}
