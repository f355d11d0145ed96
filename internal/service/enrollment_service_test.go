package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestComputeEndDate(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	got := computeEndDate(start, 12)
	want := time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("12 weeks: got %s, want %s", got, want)
	}

	if got := computeEndDate(start, 0); !got.Equal(start) {
		t.Errorf("0 weeks: got %s, want start date", got)
	}
}

func TestInstallmentScheduleSumsToPrice(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	enrollmentID := uuid.New()

	// 1000.00 into 3 does not divide evenly.
	payments := buildInstallmentSchedule(enrollmentID, 100000, 3, start)
	if len(payments) != 3 {
		t.Fatalf("installments: got %d, want 3", len(payments))
	}

	var sum int64
	for _, p := range payments {
		sum += p.AmountCents
		if p.EnrollmentID != enrollmentID {
			t.Error("payment not linked to enrollment")
		}
	}
	if sum != 100000 {
		t.Errorf("sum: got %d, want 100000", sum)
	}
	if payments[0].AmountCents != 33333 || payments[1].AmountCents != 33333 {
		t.Errorf("base installments: got %d/%d, want 33333 each", payments[0].AmountCents, payments[1].AmountCents)
	}
	if payments[2].AmountCents != 33334 {
		t.Errorf("last installment: got %d, want 33334", payments[2].AmountCents)
	}
}

func TestInstallmentScheduleMonthlyDueDates(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	payments := buildInstallmentSchedule(uuid.New(), 60000, 3, start)

	wantDates := []time.Time{
		start,
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	for i, p := range payments {
		if !p.DueDate.Equal(wantDates[i]) {
			t.Errorf("installment %d due: got %s, want %s", i+1, p.DueDate, wantDates[i])
		}
	}
}

func TestInstallmentScheduleSinglePayment(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	payments := buildInstallmentSchedule(uuid.New(), 45000, 1, start)
	if len(payments) != 1 {
		t.Fatalf("installments: got %d, want 1", len(payments))
	}
	if payments[0].AmountCents != 45000 {
		t.Errorf("amount: got %d, want 45000", payments[0].AmountCents)
	}
	if !payments[0].DueDate.Equal(start) {
		t.Errorf("due date: got %s, want start date", payments[0].DueDate)
	}
}
