package bucket

import (
	"errors"
	"testing"

	"github.com/forensix/log-inspector/internal/domain"
)

func rec(ts int64) domain.LogRecord {
	return domain.LogRecord{Timestamp: ts}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		records    []domain.LogRecord
		width      int64
		wantStarts []int64
		wantCounts []int
	}{
		{
			name:       "single record yields one anchored bucket",
			records:    []domain.LogRecord{rec(1719835607)},
			width:      10,
			wantStarts: []int64{1719835600},
			wantCounts: []int{1},
		},
		{
			name:       "gap buckets are included with zero count",
			records:    []domain.LogRecord{rec(100), rec(103), rec(131)},
			width:      10,
			wantStarts: []int64{100, 110, 120, 130},
			wantCounts: []int{2, 0, 0, 1},
		},
		{
			name:       "anchor floors to width multiple",
			records:    []domain.LogRecord{rec(17), rec(23)},
			width:      10,
			wantStarts: []int64{10, 20},
			wantCounts: []int{1, 1},
		},
		{
			name:       "boundary timestamp falls in next bucket",
			records:    []domain.LogRecord{rec(10), rec(20)},
			width:      10,
			wantStarts: []int64{10, 20},
			wantCounts: []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, err := Aggregate(tt.records, tt.width)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}

			if len(buckets) != len(tt.wantStarts) {
				t.Fatalf("expected %d buckets, got %d", len(tt.wantStarts), len(buckets))
			}

			for i, b := range buckets {
				if b.StartEpoch != tt.wantStarts[i] {
					t.Errorf("bucket %d: expected start %d, got %d", i, tt.wantStarts[i], b.StartEpoch)
				}
				if b.Count != tt.wantCounts[i] {
					t.Errorf("bucket %d: expected count %d, got %d", i, tt.wantCounts[i], b.Count)
				}
				if b.WidthSeconds != tt.width {
					t.Errorf("bucket %d: expected width %d, got %d", i, tt.width, b.WidthSeconds)
				}
				if len(b.Records) != b.Count {
					t.Errorf("bucket %d: count %d does not match %d records", i, b.Count, len(b.Records))
				}
			}
		})
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	_, err := Aggregate(nil, 10)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestAggregate_InvalidWidth(t *testing.T) {
	_, err := Aggregate([]domain.LogRecord{rec(100)}, 0)
	if err == nil {
		t.Fatal("expected error for zero width")
	}
}
