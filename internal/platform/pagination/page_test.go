package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	t.Parallel()

	cfg := PageSizeConfig{Default: 10, Max: 100}

	tests := []struct {
		name  string
		value int
		want  int
	}{
		{name: "zero uses default", value: 0, want: 10},
		{name: "negative uses default", value: -5, want: 10},
		{name: "within range", value: 25, want: 25},
		{name: "above max clamps", value: 500, want: 100},
		{name: "at max", value: 100, want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClampPageSize(tc.value, cfg); got != tc.want {
				t.Fatalf("ClampPageSize(%d): got %d, want %d", tc.value, got, tc.want)
			}
		})
	}
}

func TestClampPageSizeWithoutConfig(t *testing.T) {
	t.Parallel()

	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
}

func TestClampPageIndex(t *testing.T) {
	t.Parallel()

	if got := ClampPageIndex(-3); got != 0 {
		t.Fatalf("negative index: got %d, want 0", got)
	}
	if got := ClampPageIndex(4); got != 4 {
		t.Fatalf("valid index: got %d, want 4", got)
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	if got := Offset(0, 10); got != 0 {
		t.Fatalf("first page offset: got %d, want 0", got)
	}
	if got := Offset(3, 10); got != 30 {
		t.Fatalf("fourth page offset: got %d, want 30", got)
	}
	if got := Offset(-1, 10); got != 0 {
		t.Fatalf("negative page offset: got %d, want 0", got)
	}
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total    int64
		pageSize int
		want     int64
	}{
		{total: 0, pageSize: 10, want: 0},
		{total: 1, pageSize: 10, want: 1},
		{total: 10, pageSize: 10, want: 1},
		{total: 11, pageSize: 10, want: 2},
		{total: 5, pageSize: 0, want: 0},
	}

	for _, tc := range tests {
		if got := PageCount(tc.total, tc.pageSize); got != tc.want {
			t.Fatalf("PageCount(%d, %d): got %d, want %d", tc.total, tc.pageSize, got, tc.want)
		}
	}
}
