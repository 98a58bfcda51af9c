package tipping

import (
	"testing"
	"time"
)

func Test_SundayLocal(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midweek",
			in:   time.Date(2024, 1, 10, 15, 4, 5, 0, time.UTC), // Wednesday
			want: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday maps to itself",
			in:   time.Date(2024, 1, 7, 23, 59, 59, 0, time.UTC),
			want: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "saturday is end of week",
			in:   time.Date(2024, 1, 13, 1, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month boundary",
			in:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), // Friday
			want: time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SundayLocal(tt.in); !got.Equal(tt.want) {
				t.Errorf("SundayLocal(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func Test_SundayLocal_keepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2024, 1, 10, 1, 0, 0, 0, loc)
	got := SundayLocal(in)
	if got.Location() != loc {
		t.Errorf("SundayLocal location = %v, want %v", got.Location(), loc)
	}
}

func Test_MondayUTC(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midweek",
			in:   time.Date(2024, 1, 10, 15, 4, 5, 0, time.UTC), // Wednesday
			want: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday maps to itself",
			in:   time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to previous week",
			in:   time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month boundary",
			in:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), // Friday
			want: time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "non-utc input normalized",
			in:   time.Date(2024, 1, 10, 1, 0, 0, 0, time.FixedZone("UTC+9", 9*3600)),
			want: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MondayUTC(tt.in); !got.Equal(tt.want) {
				t.Errorf("MondayUTC(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
