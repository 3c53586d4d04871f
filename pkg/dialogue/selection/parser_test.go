package selection

import (
	"reflect"
	"testing"
)

func TestResolveText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		n           int
		wantKind    Kind
		wantIndices []int
	}{
		{
			name:     "cancel keyword",
			input:    "cancel",
			n:        3,
			wantKind: KindCancel,
		},
		{
			name:     "cancel with whitespace and case",
			input:    "  Cancel ",
			n:        3,
			wantKind: KindCancel,
		},
		{
			name:        "single index",
			input:       "2",
			n:           3,
			wantKind:    KindIndices,
			wantIndices: []int{1},
		},
		{
			name:        "comma list with spaces",
			input:       "1, 3",
			n:           3,
			wantKind:    KindIndices,
			wantIndices: []int{0, 2},
		},
		{
			name:        "out of range value dropped",
			input:       "1,5",
			n:           3,
			wantKind:    KindIndices,
			wantIndices: []int{0},
		},
		{
			name:        "duplicates collapse",
			input:       "2,2,1",
			n:           3,
			wantKind:    KindIndices,
			wantIndices: []int{1, 0},
		},
		{
			name:     "zero is out of range",
			input:    "0",
			n:        3,
			wantKind: KindInvalid,
		},
		{
			name:     "free text is invalid",
			input:    "the first one please",
			n:        3,
			wantKind: KindInvalid,
		},
		{
			name:     "empty candidate list rejects everything",
			input:    "1",
			n:        0,
			wantKind: KindInvalid,
		},
		{
			name:        "mixed garbage and digits keeps digits",
			input:       "1, two, 3",
			n:           3,
			wantKind:    KindIndices,
			wantIndices: []int{0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveText(tt.input, tt.n)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if tt.wantKind == KindIndices && !reflect.DeepEqual(got.Indices, tt.wantIndices) {
				t.Errorf("Indices = %v, want %v", got.Indices, tt.wantIndices)
			}
		})
	}
}

func TestResolveIndices(t *testing.T) {
	tests := []struct {
		name        string
		indices     []int
		n           int
		wantKind    Kind
		wantIndices []int
	}{
		{"in range", []int{1, 3}, 3, KindIndices, []int{0, 2}},
		{"out of range dropped", []int{1, 5}, 3, KindIndices, []int{0}},
		{"all out of range", []int{6, 7}, 3, KindInvalid, nil},
		{"duplicates collapse", []int{2, 2}, 3, KindIndices, []int{1}},
		{"empty input", nil, 3, KindInvalid, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveIndices(tt.indices, tt.n)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if tt.wantKind == KindIndices && !reflect.DeepEqual(got.Indices, tt.wantIndices) {
				t.Errorf("Indices = %v, want %v", got.Indices, tt.wantIndices)
			}
		})
	}
}

// Resolved indices must never escape [0, n-1] no matter the input.
func TestResolveTextNeverOutOfRange(t *testing.T) {
	inputs := []string{"0", "1", "5", "1,2,3,4,5,6,7", "99", "00", "5,5,5", "1,,2"}
	for n := 0; n <= 5; n++ {
		for _, input := range inputs {
			got := ResolveText(input, n)
			for _, idx := range got.Indices {
				if idx < 0 || idx >= n {
					t.Errorf("ResolveText(%q, %d) produced out-of-range index %d", input, n, idx)
				}
			}
		}
	}
}

func TestIsNumberList(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"1,2,3", true},
		{"1, 2", true},
		{"cancel", false},
		{"1,a", false},
		{"", false},
		{"  ", false},
		{"1.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsNumberList(tt.input); got != tt.want {
				t.Errorf("IsNumberList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
