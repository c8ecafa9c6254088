package ledger

import "testing"

func TestDecodeCell(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Cell
		wantOK bool
	}{
		{"basic", "12345:3", Cell{UserID: "12345", Count: 3}, true},
		{"count one", "u1:1", Cell{UserID: "u1", Count: 1}, true},
		{"spaces around id", " u1 :2", Cell{UserID: "u1", Count: 2}, true},
		{"empty", "", Cell{}, false},
		{"no separator", "12345", Cell{}, false},
		{"non-numeric count", "u1:lots", Cell{}, false},
		{"empty count", "u1:", Cell{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeCell(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("DecodeCell(%q) ok=%v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("DecodeCell(%q)=%+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEncodeCellRoundTrip(t *testing.T) {
	c := Cell{UserID: "98765", Count: 12}
	got, ok := DecodeCell(EncodeCell(c))
	if !ok || got != c {
		t.Fatalf("round trip gave %+v ok=%v, want %+v", got, ok, c)
	}
}

func TestFindUserCell(t *testing.T) {
	row := []string{"Students", "Alice", "u1:2", "broken", "u2:oops", "u3:1"}

	if got := findUserCell(row, "u1"); got != 2 {
		t.Fatalf("findUserCell(u1)=%d, want 2", got)
	}
	// A malformed count still addresses the cell; the caller decides how
	// to treat it.
	if got := findUserCell(row, "u2"); got != 4 {
		t.Fatalf("findUserCell(u2)=%d, want 4", got)
	}
	if got := findUserCell(row, "missing"); got != -1 {
		t.Fatalf("findUserCell(missing)=%d, want -1", got)
	}
	// The category cell must never match a user named like a category.
	if got := findUserCell(row, "Students"); got != -1 {
		t.Fatalf("findUserCell(Students)=%d, want -1", got)
	}
}
