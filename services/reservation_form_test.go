package services

import (
	"testing"

	"booking-calendar/models"
)

func TestNewCreateForm_DefaultsToFirstRoom(t *testing.T) {
	t.Parallel()

	rooms := []models.Room{{Number: "101"}, {Number: "102"}}
	form := NewCreateForm(ModalIntent{Mode: ModalCreate, CheckIn: day("2025-09-01"), CheckOut: day("2025-09-02")}, rooms)
	if form.RoomNumber != "101" || form.Status != models.StatusConfirmed {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestReservationForm_UpdatePatchSendsAllFields(t *testing.T) {
	t.Parallel()

	form := NewEditForm(models.Reservation{
		ID:          "A",
		RoomNumber:  "101",
		CheckIn:     day("2025-09-01"),
		CheckOut:    day("2025-09-04"),
		Status:      models.StatusPending,
		ContactName: "Ana",
		Guests:      []models.Guest{{FirstName: "Ana"}},
	})
	form.Apply(FormInput{Status: "cancelled", ContactName: "Ana", Guests: []models.Guest{{FirstName: "Ana"}, {LastName: " "}}})

	p := form.UpdatePatch()
	if p.Status == nil || *p.Status != "Cancelled" {
		t.Fatalf("expected canonical status, got %v", p.Status)
	}
	if p.CheckInDate == nil || *p.CheckInDate != "2025-09-01" {
		t.Fatalf("expected unchanged check-in to be sent, got %v", p.CheckInDate)
	}
	if p.Guests == nil || len(*p.Guests) != 1 {
		t.Fatalf("expected blank guest dropped, got %v", p.Guests)
	}
	if !p.TouchesSchedule() {
		t.Fatalf("expected full patch to touch the schedule")
	}
}

func TestReservationForm_ApplyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want models.ReservationStatus
	}{
		{in: "", want: models.StatusPending},
		{in: "confirmed", want: models.StatusConfirmed},
		{in: " Maybe ", want: "Maybe"},
	}
	for _, tt := range tests {
		form := NewEditForm(models.Reservation{ID: "A", RoomNumber: "101", Status: models.StatusPending})
		form.Apply(FormInput{Status: tt.in, ContactName: "Ana"})
		if got := form.CreatePayload("A").Status; got != string(tt.want) {
			t.Fatalf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
