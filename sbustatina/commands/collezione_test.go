package commands

import (
	"testing"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatEntry(t *testing.T) {
	set := &models.Set{ID: "base-set", FullName: "Base Set", NumberOfCards: 102}

	tests := []struct {
		name  string
		entry *models.CollectionEntry
		want  string
	}{
		{
			name: "full row",
			entry: &models.CollectionEntry{
				Count: 3,
				Card:  &models.Card{Number: 4, Name: "Charizard", Set: set},
			},
			want: "4/102 (Base Set) Charizard x3",
		},
		{
			name: "set relation not loaded",
			entry: &models.CollectionEntry{
				Count: 1,
				Card:  &models.Card{Number: 58, Name: "Pikachu"},
			},
			want: "58 Pikachu x1",
		},
		{
			name:  "card relation not loaded",
			entry: &models.CollectionEntry{Count: 2},
			want:  "? x2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatEntry(tt.entry))
		})
	}
}
