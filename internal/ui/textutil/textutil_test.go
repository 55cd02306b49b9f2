package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "fits", in: "Runner", width: 10, want: "Runner"},
		{name: "exact", in: "Runner", width: 6, want: "Runner"},
		{name: "cut", in: "Running shoes", width: 8, want: "Running…"},
		{name: "turkish letters", in: "Çanta ve Ayakkabı", width: 6, want: "Çanta…"},
		{name: "wide runes", in: "靴靴靴", width: 5, want: "靴靴…"},
		{name: "only ellipsis fits", in: "abc", width: 1, want: "…"},
		{name: "zero width", in: "abc", width: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if tt.width > 0 && VisualWidth(got) > tt.width {
				t.Errorf("result %q is %d columns, limit %d", got, VisualWidth(got), tt.width)
			}
		})
	}
}
