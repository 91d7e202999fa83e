package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{
			name:  "valid date",
			input: "2023-10-01",
			want:  NewDate(2023, 10, 1),
		},
		{
			name:    "wrong format",
			input:   "01.10.2023",
			wantErr: true,
		},
		{
			name:    "impossible date",
			input:   "2023-02-31",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrParse) {
					t.Errorf("ParseDate(%q) error = %v, want ErrParse", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDayMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		year    int
		want    Date
		wantErr bool
	}{
		{
			name:  "valid cell",
			input: "02.10.",
			year:  2023,
			want:  NewDate(2023, 10, 2),
		},
		{
			name:  "leap day in leap year",
			input: "29.02.",
			year:  2024,
			want:  NewDate(2024, 2, 29),
		},
		{
			name:    "impossible day",
			input:   "31.02.",
			year:    2023,
			wantErr: true,
		},
		{
			name:    "leap day in non-leap year",
			input:   "29.02.",
			year:    2023,
			wantErr: true,
		},
		{
			name:    "missing trailing dot",
			input:   "02.10",
			year:    2023,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayMonth(tt.input, tt.year)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDayMonth(%q, %d) expected error, got %v", tt.input, tt.year, got)
				}
				if !errors.Is(err, ErrParse) {
					t.Errorf("ParseDayMonth(%q, %d) error = %v, want ErrParse", tt.input, tt.year, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDayMonth(%q, %d) unexpected error: %v", tt.input, tt.year, err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("ParseDayMonth(%q, %d) = %v, want %v", tt.input, tt.year, got, tt.want)
			}
		})
	}
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(2023, 12, 29)

	got := d.AddDays(7)
	if want := NewDate(2024, 1, 5); !got.Equal(want.Time) {
		t.Errorf("AddDays(7) = %v, want %v", got, want)
	}

	got = d.AddDays(-29)
	if want := NewDate(2023, 11, 30); !got.Equal(want.Time) {
		t.Errorf("AddDays(-29) = %v, want %v", got, want)
	}
}

func TestDate_String(t *testing.T) {
	if got := NewDate(2023, 1, 5).String(); got != "2023-01-05" {
		t.Errorf("String() = %q, want %q", got, "2023-01-05")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "with seconds", input: "09:15:30", want: "09:15:30"},
		{name: "without seconds", input: "09:15", want: "09:15:00"},
		{name: "not a time", input: "morning", wantErr: true},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrParse) {
					t.Errorf("ParseClock(%q) error = %v, want ErrParse", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.input, err)
			}
			if formatted := got.Format("15:04:05"); formatted != tt.want {
				t.Errorf("ParseClock(%q) = %s, want %s", tt.input, formatted, tt.want)
			}
		})
	}
}

func TestParseClock_Difference(t *testing.T) {
	start, err := ParseClock("09:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	end, err := ParseClock("17:30:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := end.Sub(start); got != 8*time.Hour+30*time.Minute {
		t.Errorf("difference = %v, want 8h30m", got)
	}
}
