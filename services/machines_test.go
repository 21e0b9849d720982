package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

// openTestDB gives each test its own in-memory database. The shared-cache
// DSN keeps every pooled connection on the same store.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.Permission{}, &models.RolePermission{},
		&models.User{}, &models.Property{}, &models.Booking{},
		&models.PropertyTour{}, &models.RentalAgreement{},
		&models.Purchase{}, &models.Offer{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db    *gorm.DB
	role  models.Role
	owner models.User
	buyer models.User
	rent  models.Property
	sale  models.Property
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)

	f := &fixture{db: db, role: models.Role{Name: "USER"}}
	if err := db.Create(&f.role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}

	f.owner = models.User{FirstName: "Olive", LastName: "Owner", Email: "owner@example.com", RoleID: f.role.ID}
	f.buyer = models.User{FirstName: "Bala", LastName: "Buyer", Email: "buyer@example.com", RoleID: f.role.ID}
	for _, u := range []*models.User{&f.owner, &f.buyer} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	f.rent = models.Property{OwnerID: f.owner.ID, Title: "Rental Flat", ListingType: models.ListingForRent, Status: models.PropertyStatusApproved}
	f.sale = models.Property{OwnerID: f.owner.ID, Title: "Sale House", ListingType: models.ListingForSale, Status: models.PropertyStatusApproved}
	for _, p := range []*models.Property{&f.rent, &f.sale} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed property: %v", err)
		}
	}
	return f
}

func (f *fixture) newUser(t *testing.T, email string) models.User {
	t.Helper()
	u := models.User{Email: email, RoleID: f.role.ID}
	if err := f.db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func stay(startDays, nights int) (time.Time, time.Time) {
	start := time.Now().AddDate(0, 0, startDays)
	return start, start.AddDate(0, 0, nights)
}

func TestBookingCreateOverlap(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingService(f.db)

	in, out := stay(10, 5)
	if _, err := svc.Create(f.buyer.ID, CreateBookingInput{PropertyID: f.rent.ID, CheckInDate: in, CheckoutDate: out}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Same user, window intersecting the live booking.
	in2, out2 := stay(12, 8)
	_, err := svc.Create(f.buyer.ID, CreateBookingInput{PropertyID: f.rent.ID, CheckInDate: in2, CheckoutDate: out2})
	if KindOf(err) != KindConflict {
		t.Fatalf("overlapping booking: want conflict, got %v", err)
	}

	// The overlap window is scoped per user, another user may book it.
	other := f.newUser(t, "other@example.com")
	if _, err := svc.Create(other.ID, CreateBookingInput{PropertyID: f.rent.ID, CheckInDate: in2, CheckoutDate: out2}); err != nil {
		t.Fatalf("other user same window: %v", err)
	}

	// A cancelled booking frees the window for its user.
	in3, out3 := stay(40, 3)
	b, err := svc.Create(f.buyer.ID, CreateBookingInput{PropertyID: f.rent.ID, CheckInDate: in3, CheckoutDate: out3})
	if err != nil {
		t.Fatalf("third booking: %v", err)
	}
	if _, err := svc.Cancel(b.ID, f.buyer.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Create(f.buyer.ID, CreateBookingInput{PropertyID: f.rent.ID, CheckInDate: in3, CheckoutDate: out3}); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestBookingDecide(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingService(f.db)

	in, out := stay(10, 5)
	b, err := svc.Create(f.buyer.ID, CreateBookingInput{PropertyID: f.rent.ID, CheckInDate: in, CheckoutDate: out})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// The requester can never decide their own booking.
	if _, err := svc.Decide(b.ID, f.buyer.ID, true, "", false); KindOf(err) != KindForbidden {
		t.Fatalf("requester decide: want forbidden, got %v", err)
	}

	// Neither can an unrelated non-admin user.
	other := f.newUser(t, "other@example.com")
	if _, err := svc.Decide(b.ID, other.ID, true, "", false); KindOf(err) != KindForbidden {
		t.Fatalf("stranger decide: want forbidden, got %v", err)
	}

	decided, err := svc.Decide(b.ID, f.owner.ID, true, "welcome", false)
	if err != nil {
		t.Fatalf("owner decide: %v", err)
	}
	if decided.Status != models.BookingStatusApproved {
		t.Fatalf("status after approve = %s", decided.Status)
	}

	// Approved is terminal for the decision path.
	if _, err := svc.Decide(b.ID, f.owner.ID, false, "", false); KindOf(err) != KindForbiddenTransition {
		t.Fatalf("re-decide: want forbidden transition, got %v", err)
	}
	// And for the requester's cancel path.
	if _, err := svc.Cancel(b.ID, f.buyer.ID); KindOf(err) != KindForbiddenTransition {
		t.Fatalf("cancel approved: want forbidden transition, got %v", err)
	}
}

func TestBookingCancelRequesterOnly(t *testing.T) {
	f := newFixture(t)
	svc := NewBookingService(f.db)

	in, out := stay(7, 3)
	b, err := svc.Create(f.buyer.ID, CreateBookingInput{PropertyID: f.rent.ID, CheckInDate: in, CheckoutDate: out})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if _, err := svc.Cancel(b.ID, f.owner.ID); KindOf(err) != KindForbidden {
		t.Fatalf("owner cancel: want forbidden, got %v", err)
	}

	cancelled, err := svc.Cancel(b.ID, f.buyer.ID)
	if err != nil {
		t.Fatalf("requester cancel: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Fatalf("status after cancel = %s", cancelled.Status)
	}
}

func TestRentalCreateFromBooking(t *testing.T) {
	f := newFixture(t)
	bookings := NewBookingService(f.db)
	rentals := NewRentalService(f.db)

	in, out := stay(10, 30)
	b, err := bookings.Create(f.buyer.ID, CreateBookingInput{PropertyID: f.rent.ID, CheckInDate: in, CheckoutDate: out})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	input := CreateRentalInput{BookingID: b.ID, Amount: 1200, DepositAmount: 600, StartDate: in, EndDate: out}

	// The booking is still pending, no agreement yet.
	if _, err := rentals.CreateFromBooking(f.buyer.ID, input); KindOf(err) != KindConflict {
		t.Fatalf("rental from pending booking: want conflict, got %v", err)
	}

	if _, err := bookings.Decide(b.ID, f.owner.ID, true, "", false); err != nil {
		t.Fatalf("approve booking: %v", err)
	}

	// Only the booking requester may open the agreement.
	if _, err := rentals.CreateFromBooking(f.owner.ID, input); KindOf(err) != KindForbidden {
		t.Fatalf("non-requester rental: want forbidden, got %v", err)
	}

	agreement, err := rentals.CreateFromBooking(f.buyer.ID, input)
	if err != nil {
		t.Fatalf("create rental: %v", err)
	}
	if agreement.Status != models.RentalStatusPending {
		t.Fatalf("agreement status = %s", agreement.Status)
	}
	if agreement.LandlordID != f.owner.ID {
		t.Fatalf("landlord = %d, want property owner %d", agreement.LandlordID, f.owner.ID)
	}
	if agreement.TenantID != f.buyer.ID || agreement.BookingID != b.ID {
		t.Fatalf("agreement links = tenant %d booking %d", agreement.TenantID, agreement.BookingID)
	}
}

func TestPurchaseCompletionTransfersOwnership(t *testing.T) {
	f := newFixture(t)
	svc := NewPurchaseService(f.db)

	p, err := svc.Create(f.buyer.ID, CreatePurchaseInput{PropertyID: f.sale.ID, PurchasePrice: 250000})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if p.SellerID != f.owner.ID {
		t.Fatalf("seller = %d, want owner %d", p.SellerID, f.owner.ID)
	}

	// pending -> completed is not an edge, the purchase must be paid first.
	if _, err := svc.UpdateStatus(p.ID, models.PurchaseStatusCompleted); KindOf(err) != KindForbiddenTransition {
		t.Fatalf("pending->completed: want forbidden transition, got %v", err)
	}

	if _, err := svc.UpdateStatus(p.ID, models.PurchaseStatusPaid); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	done, err := svc.UpdateStatus(p.ID, models.PurchaseStatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.PurchaseStatusCompleted {
		t.Fatalf("purchase status = %s", done.Status)
	}

	var property models.Property
	if err := f.db.First(&property, f.sale.ID).Error; err != nil {
		t.Fatalf("reload property: %v", err)
	}
	if property.OwnerID != f.buyer.ID {
		t.Fatalf("owner after completion = %d, want buyer %d", property.OwnerID, f.buyer.ID)
	}
	if property.Status != models.PropertyStatusSold {
		t.Fatalf("property status after completion = %s", property.Status)
	}
}

func TestOfferWithdraw(t *testing.T) {
	f := newFixture(t)
	svc := NewPurchaseService(f.db)

	offer, err := svc.CreateOffer(f.buyer.ID, CreateOfferInput{PropertyID: f.sale.ID, Amount: 240000})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	// Only the offer's own buyer may withdraw.
	if _, err := svc.WithdrawOffer(offer.ID, f.owner.ID); KindOf(err) != KindForbidden {
		t.Fatalf("owner withdraw: want forbidden, got %v", err)
	}

	withdrawn, err := svc.WithdrawOffer(offer.ID, f.buyer.ID)
	if err != nil {
		t.Fatalf("buyer withdraw: %v", err)
	}
	if withdrawn.Status != models.OfferStatusWithdrawn {
		t.Fatalf("status after withdraw = %s", withdrawn.Status)
	}

	// A decided offer can no longer be withdrawn.
	second, err := svc.CreateOffer(f.buyer.ID, CreateOfferInput{PropertyID: f.sale.ID, Amount: 245000})
	if err != nil {
		t.Fatalf("second offer: %v", err)
	}
	if _, err := svc.DecideOffer(second.ID, models.OfferStatusAccepted); err != nil {
		t.Fatalf("accept offer: %v", err)
	}
	if _, err := svc.WithdrawOffer(second.ID, f.buyer.ID); KindOf(err) != KindForbidden {
		t.Fatalf("withdraw accepted: want forbidden, got %v", err)
	}
}

func TestHoldsAdminGrant(t *testing.T) {
	f := newFixture(t)
	authz := NewAuthorizationService(f.db)

	decide := models.Permission{Name: "DECIDE_BOOKING", Access: models.AccessAdmin}
	decideSeller := models.Permission{Name: "DECIDE_BOOKING", Access: models.AccessSeller}
	for _, p := range []*models.Permission{&decide, &decideSeller} {
		if err := f.db.Create(p).Error; err != nil {
			t.Fatalf("seed permission: %v", err)
		}
	}

	grant := func(t *testing.T, role models.Role, perm models.Permission) models.User {
		t.Helper()
		if err := f.db.Create(&role).Error; err != nil {
			t.Fatalf("seed role %s: %v", role.Name, err)
		}
		if perm.ID != 0 {
			link := models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}
			if err := f.db.Create(&link).Error; err != nil {
				t.Fatalf("seed grant: %v", err)
			}
		}
		u := models.User{Email: role.Name + "@example.com", RoleID: role.ID}
		if err := f.db.Create(&u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
		return u
	}

	// A custom role with the ADMIN-level grant gets the override.
	moderator := grant(t, models.Role{Name: "MODERATOR"}, decide)
	if !authz.HoldsAdminGrant(moderator.ID, "DECIDE_BOOKING") {
		t.Fatal("ADMIN-level grant should satisfy the override")
	}

	// A seller-level grant on the same permission does not.
	seller := grant(t, models.Role{Name: "SELLER"}, decideSeller)
	if authz.HoldsAdminGrant(seller.ID, "DECIDE_BOOKING") {
		t.Fatal("seller-level grant must not satisfy the override")
	}
	// But it does satisfy a check that lists SELLER among its levels.
	if !authz.HoldsGrant(seller.ID, "DECIDE_BOOKING", models.AccessAdmin, models.AccessSeller) {
		t.Fatal("seller-level grant should satisfy a SELLER-level check")
	}

	// Super admin wildcards cover every access level.
	root := grant(t, models.Role{Name: models.SuperAdminRoleName, IsSuperAdmin: true}, models.Permission{})
	if !authz.HoldsAdminGrant(root.ID, "DECIDE_BOOKING") {
		t.Fatal("super admin should satisfy the override")
	}

	if authz.HoldsAdminGrant(99999, "DECIDE_BOOKING") {
		t.Fatal("unknown user must not satisfy the override")
	}
}
