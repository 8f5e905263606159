package main

import "testing"

func TestParseDims(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []float64
		wantErr bool
	}{
		{"three dims", "40x20x10", []float64{40, 20, 10}, false},
		{"single dim", "5", []float64{5}, false},
		{"decimal", "2.5x3", []float64{2.5, 3}, false},
		{"spaces tolerated", "10 x 20", []float64{10, 20}, false},
		{"garbage", "10xbad", nil, true},
		{"empty segment", "10x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDims(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDims(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDims(%q) error: %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseDims(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseDims(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}
