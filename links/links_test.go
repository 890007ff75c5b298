package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riselink-backend/models"
)

func TestAdd_DefaultsSchemeAndAssignsOrder(t *testing.T) {
	out := Add([]models.Link{}, "Site", "example.com")

	require.Len(t, out, 1)
	assert.Equal(t, "https://example.com", out[0].URL)
	assert.Equal(t, "Site", out[0].Title)
	assert.Equal(t, 0, out[0].Order)
	assert.NotEmpty(t, out[0].ID)
}

func TestAdd_KeepsExplicitScheme(t *testing.T) {
	out := Add(nil, "Blog", "http://blog.example.com")

	require.Len(t, out, 1)
	assert.Equal(t, "http://blog.example.com", out[0].URL)
}

func TestAdd_RejectsEmptyTitleOrURL(t *testing.T) {
	existing := Add(nil, "A", "https://a.com")

	assert.Equal(t, existing, Add(existing, "", "https://b.com"))
	assert.Equal(t, existing, Add(existing, "B", ""))
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	first := Add(nil, "A", "https://a.com")
	_ = Add(first, "B", "https://b.com")

	require.Len(t, first, 1)
	assert.Equal(t, "A", first[0].Title)
}

func TestAdd_AssignsUniqueIDs(t *testing.T) {
	out := Add(Add(nil, "A", "https://a.com"), "B", "https://b.com")

	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].ID, out[1].ID)
}

func TestRemove_DoesNotRenumberOrder(t *testing.T) {
	out := Add(Add(nil, "A", "https://a.com"), "B", "https://b.com")
	idOfA := out[0].ID

	remaining := Remove(out, idOfA)

	require.Len(t, remaining, 1)
	assert.Equal(t, "B", remaining[0].Title)
	assert.Equal(t, 1, remaining[0].Order)
}

func TestRemove_UnknownIDIsNoOp(t *testing.T) {
	out := Add(nil, "A", "https://a.com")

	assert.Equal(t, out, Remove(out, "missing"))
}

func TestSorted_OrdersByOrderValueNotPosition(t *testing.T) {
	links := []models.Link{
		{ID: "c", Title: "C", URL: "https://c.com", Order: 5},
		{ID: "a", Title: "A", URL: "https://a.com", Order: 0},
		{ID: "b", Title: "B", URL: "https://b.com", Order: 3},
	}

	out := Sorted(links)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
	// input untouched
	assert.Equal(t, "c", links[0].ID)
}
