package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample() Collection {
	return Collection{
		{ID: "h1", Name: "A", Description: "d1"},
		{ID: "h2", Name: "B", Description: "d2"},
		{ID: "h3", Name: "C", Description: "d3"},
	}
}

func TestCollectionAppend(t *testing.T) {
	c := sample()
	got := c.Append(Entity{ID: "h4", Name: "D"})

	assert.Len(t, got, 4)
	assert.Equal(t, "h4", got[3].ID)
	assert.Len(t, c, 3, "original must not grow")
}

func TestCollectionReplace(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		wantOK bool
		wantAt int
	}{
		{name: "middle entity keeps its position", entity: Entity{ID: "h2", Name: "B2"}, wantOK: true, wantAt: 1},
		{name: "first entity keeps its position", entity: Entity{ID: "h1", Name: "A2"}, wantOK: true, wantAt: 0},
		{name: "unknown id is a miss", entity: Entity{ID: "nope"}, wantOK: false, wantAt: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sample()
			got, ok := c.Replace(tt.entity)
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, got, len(c))
			if !ok {
				assert.Equal(t, c, got)
				return
			}
			assert.Equal(t, tt.entity, got[tt.wantAt])
			assert.Equal(t, sample(), c, "original must not be mutated")
			for i := range c {
				if i != tt.wantAt {
					assert.Equal(t, c[i], got[i])
				}
			}
		})
	}
}

func TestCollectionRemove(t *testing.T) {
	c := sample()

	got := c.Remove("h1")
	assert.Equal(t, Collection{c[1], c[2]}, got)
	assert.Len(t, c, 3)

	miss := c.Remove("nope")
	assert.Equal(t, c, miss)
}

func TestCollectionClone(t *testing.T) {
	var nilColl Collection
	clone := nilColl.Clone()
	assert.NotNil(t, clone)
	assert.Empty(t, clone)

	c := sample()
	cp := c.Clone()
	cp[0].Name = "changed"
	assert.Equal(t, "A", c[0].Name)
}
