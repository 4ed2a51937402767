package authz

import (
	"testing"

	"github.com/walaa-next/internal/constants"
	"github.com/walaa-next/internal/models"
)

func TestCanAccessCard(t *testing.T) {
	card := &models.Card{ID: 1, CustomerID: 10, StoreID: 20}

	tests := []struct {
		name      string
		principal Principal
		card      *models.Card
		want      bool
	}{
		{"admin sees any card", Principal{Role: constants.RoleAdmin, UserID: 1}, card, true},
		{"store own card", Principal{Role: constants.RoleStore, UserID: 2, StoreID: 20}, card, true},
		{"store foreign card", Principal{Role: constants.RoleStore, UserID: 2, StoreID: 21}, card, false},
		{"store without store id", Principal{Role: constants.RoleStore, UserID: 2}, card, false},
		{"customer own card", Principal{Role: constants.RoleCustomer, CustomerID: 10}, card, true},
		{"customer foreign card", Principal{Role: constants.RoleCustomer, CustomerID: 11}, card, false},
		{"customer without id", Principal{Role: constants.RoleCustomer}, card, false},
		{"unknown role", Principal{Role: "auditor"}, card, false},
		{"empty principal", Principal{}, card, false},
		{"nil card", Principal{Role: constants.RoleAdmin}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessCard(tt.principal, tt.card); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPrincipalRoleHelpers(t *testing.T) {
	admin := Principal{Role: constants.RoleAdmin}
	store := Principal{Role: constants.RoleStore, StoreID: 1}
	customer := Principal{Role: constants.RoleCustomer, CustomerID: 1}

	if !admin.IsAdmin() || admin.IsStore() || admin.IsCustomer() {
		t.Fatalf("admin helpers mismatch: %+v", admin)
	}
	if !store.IsStore() || store.IsAdmin() || store.IsCustomer() {
		t.Fatalf("store helpers mismatch: %+v", store)
	}
	if !customer.IsCustomer() || customer.IsAdmin() || customer.IsStore() {
		t.Fatalf("customer helpers mismatch: %+v", customer)
	}
}
