package parser

import (
	"bytes"
	"testing"
)

func TestHalfPoints(t *testing.T) {
	tests := []struct {
		val    string
		want   float64
		wantOK bool
	}{
		{"24", 12, true},
		{"44", 22, true},
		{" 21 ", 10.5, true},
		{"0", 0, false},
		{"-4", 0, false},
		{"big", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := halfPoints(tt.val)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("halfPoints(%q) = (%v, %v), want (%v, %v)", tt.val, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDOCXParser_CorruptInput(t *testing.T) {
	data := []byte("PK not really a zip")
	p := &DOCXParser{}
	frags, err := p.Parse(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Fatalf("expected error for corrupt docx, got %d fragments", len(frags))
	}
}
