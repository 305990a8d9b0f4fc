package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIdentity_IsAdmin(t *testing.T) {
	tests := []struct {
		name string
		id   *Identity
		want bool
	}{
		{"nil", nil, false},
		{"tentative", TentativeIdentity("root"), false},
		{"tentative admin role", &Identity{Username: "root", Role: RoleAdmin, Phase: PhaseTentative}, false},
		{"confirmed user", ConfirmedIdentity(&User{Username: "u", Role: RoleUser}), false},
		{"confirmed admin", ConfirmedIdentity(&User{Username: "a", Role: RoleAdmin}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.IsAdmin(); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTentativeIdentity(t *testing.T) {
	id := TentativeIdentity("alice")
	if id.Role != RoleUnknown || id.Confirmed() {
		t.Errorf("TentativeIdentity() = %+v", id)
	}
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		zero bool
	}{
		{in: `"2024-01-02T03:04:05Z"`, want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: `"2024-01-02T03:04:05+02:00"`, want: time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC)},
		{in: `"2024-01-02T03:04:05"`, want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: `"2024-01-02T03:04:05.5"`, want: time.Date(2024, 1, 2, 3, 4, 5, 500000000, time.UTC)},
		{in: `null`, zero: true},
		{in: `""`, zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if tt.zero {
				if !ts.IsZero() {
					t.Errorf("want zero, got %v", ts.Time)
				}
				return
			}
			if !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimestamp_UnmarshalInvalid(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error")
	}
}

func TestTimestamp_String(t *testing.T) {
	var nilTS *Timestamp
	if nilTS.String() != "-" {
		t.Errorf("nil String() = %q", nilTS.String())
	}
	ts := NewTimestamp(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))
	if ts.String() != "2024-05-06 07:08:09" {
		t.Errorf("String() = %q", ts.String())
	}
	data, _ := json.Marshal(ts)
	if string(data) != `"2024-05-06T07:08:09Z"` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestTimestamp_MarshalKeepsFraction(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2024-01-02T03:04:05.123456"`), &ts); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2024-01-02T03:04:05.123456Z"` {
		t.Errorf("Marshal() = %s", data)
	}

	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Equal(ts.Time) {
		t.Errorf("round trip = %v, want %v", back.Time, ts.Time)
	}
}
