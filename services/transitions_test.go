package services

import (
	"testing"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

func TestRentalAllowedTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.RentalStatusPending, models.RentalStatusActive, true},
		{models.RentalStatusPending, models.RentalStatusTerminated, true},
		{models.RentalStatusPending, models.RentalStatusCompleted, false},
		{models.RentalStatusActive, models.RentalStatusCompleted, true},
		{models.RentalStatusActive, models.RentalStatusTerminated, true},
		{models.RentalStatusActive, models.RentalStatusPending, false},
		{models.RentalStatusCompleted, models.RentalStatusActive, false},
		{models.RentalStatusTerminated, models.RentalStatusActive, false},
	}

	for _, c := range cases {
		if got := RentalAllowedTransition(c.from, c.to); got != c.want {
			t.Errorf("RentalAllowedTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestPurchaseAllowedTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.PurchaseStatusPending, models.PurchaseStatusPaid, true},
		{models.PurchaseStatusPending, models.PurchaseStatusCancelled, true},
		{models.PurchaseStatusPending, models.PurchaseStatusCompleted, false},
		{models.PurchaseStatusPaid, models.PurchaseStatusCompleted, true},
		{models.PurchaseStatusPaid, models.PurchaseStatusCancelled, true},
		{models.PurchaseStatusCompleted, models.PurchaseStatusCancelled, false},
		{models.PurchaseStatusCancelled, models.PurchaseStatusPending, false},
	}

	for _, c := range cases {
		if got := PurchaseAllowedTransition(c.from, c.to); got != c.want {
			t.Errorf("PurchaseAllowedTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestOfferAllowedTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OfferStatusPending, models.OfferStatusAccepted, true},
		{models.OfferStatusPending, models.OfferStatusRejected, true},
		// withdrawal is a buyer action, not a decision transition
		{models.OfferStatusPending, models.OfferStatusWithdrawn, false},
		{models.OfferStatusAccepted, models.OfferStatusRejected, false},
		{models.OfferStatusRejected, models.OfferStatusAccepted, false},
		{models.OfferStatusWithdrawn, models.OfferStatusPending, false},
	}

	for _, c := range cases {
		if got := OfferAllowedTransition(c.from, c.to); got != c.want {
			t.Errorf("OfferAllowedTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
