package core_test

import (
	"testing"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func TestFormatCounterNumber(t *testing.T) {
	tests := []struct {
		prefix string
		n      int64
		pad    int
		want   string
	}{
		{"INV", 6, 5, "INV-00006"},
		{"QUO", 1, 4, "QUO-0001"},
		{"PO", 123, 4, "PO-0123"},
		{"INV", 123456, 5, "INV-123456"}, // padding never truncates
	}

	for _, tt := range tests {
		if got := core.FormatCounterNumber(tt.prefix, tt.n, tt.pad); got != tt.want {
			t.Errorf("FormatCounterNumber(%s, %d, %d) = %s, want %s", tt.prefix, tt.n, tt.pad, got, tt.want)
		}
	}
}

func TestParseDailySuffix(t *testing.T) {
	tests := []struct {
		number  string
		want    int64
		wantErr bool
	}{
		{number: "SAL-20240115-0007", want: 7},
		{number: "EXP-20240115-0001", want: 1},
		{number: "SAL-20240115-9999", want: 9999},
		{number: "SAL-20240115-10000", want: 10000},
		{number: "SAL20240115", wantErr: true},
		{number: "SAL-20240115-", wantErr: true},
		{number: "SAL-20240115-xyz", wantErr: true},
	}

	for _, tt := range tests {
		got, err := core.ParseDailySuffix(tt.number)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDailySuffix(%q): expected error, got %d", tt.number, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDailySuffix(%q): %v", tt.number, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDailySuffix(%q) = %d, want %d", tt.number, got, tt.want)
		}
	}
}
