package models

import (
	"errors"
	"testing"
)

func TestParseReservationKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		want    ReservationID
		wantErr bool
	}{
		{key: "RESERVATION#res_1", want: "res_1"},
		{key: "res_1", want: "res_1"},
		{key: "LOCATION#hotel1", wantErr: true},
		{key: "RESERVATION#", wantErr: true},
		{key: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseReservationKey(tt.key)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.key)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: expected no error, got %v", tt.key, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.key, tt.want, got)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	t.Parallel()

	hotel, err := ParseHotelKey(HotelID("hotel1").Key())
	if err != nil || hotel != "hotel1" {
		t.Fatalf("hotel key: got %q, %v", hotel, err)
	}
	if HotelID("hotel1").Key() != "LOCATION#hotel1" {
		t.Fatalf("unexpected hotel key %s", HotelID("hotel1").Key())
	}
	if _, err := ParseCompanyKey("  "); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
}
