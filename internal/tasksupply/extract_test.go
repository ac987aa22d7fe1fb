package tasksupply

import (
	"reflect"
	"testing"
)

func TestExtractList(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   []string
	}{
		{
			name:   "plain json list",
			answer: `["one", "two", "three"]`,
			want:   []string{"one", "two", "three"},
		},
		{
			name:   "single quotes",
			answer: `['one', 'two']`,
			want:   []string{"one", "two"},
		},
		{
			name:   "surrounding prose",
			answer: `Sure, here is your list: ["ocean currents", "deep sea life"] hope it helps`,
			want:   []string{"ocean currents", "deep sea life"},
		},
		{
			name:   "escaped quote inside element",
			answer: `["it\"s complicated", "plain"]`,
			want:   []string{`it"s complicated`, "plain"},
		},
		{
			name:   "apostrophe inside double quoted element",
			answer: `["earth's core", "tides"]`,
			want:   []string{"earth's core", "tides"},
		},
		{
			name:   "empty elements dropped",
			answer: `["keep", "", "  "]`,
			want:   []string{"keep"},
		},
		{
			name:   "no brackets",
			answer: `I cannot produce a list right now.`,
			want:   nil,
		},
		{
			name:   "empty list",
			answer: `[]`,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractList(tt.answer)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
