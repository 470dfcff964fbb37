package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderItems(t *testing.T) {
	foodID := uuid.New()

	t.Run("flat menu item id", func(t *testing.T) {
		items, err := buildOrderItems([]orderItemRequest{
			{MenuItemID: foodID.String(), Name: "Beef Burger", Price: 250, Quantity: 2},
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].FoodID)
		assert.Equal(t, foodID, *items[0].FoodID)
		assert.Equal(t, "Beef Burger", items[0].Name)
		assert.Equal(t, 250.0, items[0].UnitPrice)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("falls back to nested menu item reference", func(t *testing.T) {
		items, err := buildOrderItems([]orderItemRequest{
			{MenuItem: &orderItemRef{ID: foodID.String()}, Name: "Pad Thai", Price: 180, Quantity: 1},
		})
		require.NoError(t, err)
		require.NotNil(t, items[0].FoodID)
		assert.Equal(t, foodID, *items[0].FoodID)
	})

	t.Run("flat id wins over nested", func(t *testing.T) {
		other := uuid.New()
		items, err := buildOrderItems([]orderItemRequest{
			{MenuItemID: foodID.String(), MenuItem: &orderItemRef{ID: other.String()}, Name: "Ramen", Price: 300, Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, foodID, *items[0].FoodID)
	})

	t.Run("unparseable reference leaves food id nil", func(t *testing.T) {
		items, err := buildOrderItems([]orderItemRequest{
			{MenuItemID: "not-a-uuid", Name: "Momo", Price: 120, Quantity: 1},
		})
		require.NoError(t, err)
		assert.Nil(t, items[0].FoodID)
	})

	t.Run("redeemed flag is preserved", func(t *testing.T) {
		items, err := buildOrderItems([]orderItemRequest{
			{Name: "Free Dessert", Price: 0, Quantity: 1, IsRedeemed: true},
		})
		require.NoError(t, err)
		assert.True(t, items[0].IsRedeemed)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		_, err := buildOrderItems(nil)
		assert.Error(t, err)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		_, err := buildOrderItems([]orderItemRequest{{Price: 10, Quantity: 1}})
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := buildOrderItems([]orderItemRequest{{Name: "Soup", Price: 10, Quantity: 0}})
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := buildOrderItems([]orderItemRequest{{Name: "Soup", Price: -1, Quantity: 1}})
		assert.Error(t, err)
	})
}
