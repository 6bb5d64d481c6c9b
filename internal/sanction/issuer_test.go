package sanction

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbotics/loanflow/internal/domain"
)

func testOffer() domain.Offer {
	return domain.Offer{
		Amount:       decimal.RequireFromString("400000"),
		TenureMonths: 24,
		InterestRate: decimal.RequireFromString("10.5"),
		EMI:          decimal.RequireFromString("18550.42"),
		TotalPayable: decimal.RequireFromString("445210.08"),
	}
}

func testCustomer() *domain.CustomerProfile {
	return &domain.CustomerProfile{
		ID:      "CUST001",
		Name:    "Rajesh Kumar",
		Address: "1204, Sea Breeze Towers, Worli, Mumbai 400018",
	}
}

func TestIssueWritesLetter(t *testing.T) {
	issuer, err := NewFileIssuer(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileIssuer failed: %v", err)
	}

	app := domain.NewLoanApplication("CUST001", "9876543210")
	app.ApplicationID = "APP-1"

	artifact, err := issuer.Issue(context.Background(), testCustomer(), app, testOffer())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if artifact.SanctionID == "" || artifact.URL == "" {
		t.Fatalf("incomplete artifact: %+v", artifact)
	}

	path, err := issuer.LetterPath(artifact.SanctionID)
	if err != nil {
		t.Fatalf("LetterPath failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read letter: %v", err)
	}
	letter := string(data)
	for _, want := range []string{"Rajesh Kumar", "400000.00", "24 months", "10.5% per annum", "18550.42"} {
		if !strings.Contains(letter, want) {
			t.Errorf("letter missing %q", want)
		}
	}
}

func TestIssueIsIdempotentPerApplication(t *testing.T) {
	issuer, err := NewFileIssuer(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileIssuer failed: %v", err)
	}

	app := domain.NewLoanApplication("CUST001", "9876543210")
	app.ApplicationID = "APP-1"

	first, err := issuer.Issue(context.Background(), testCustomer(), app, testOffer())
	if err != nil {
		t.Fatalf("first Issue failed: %v", err)
	}
	second, err := issuer.Issue(context.Background(), testCustomer(), app, testOffer())
	if err != nil {
		t.Fatalf("second Issue failed: %v", err)
	}
	if first.SanctionID != second.SanctionID {
		t.Errorf("repeat issuance minted a new artifact: %s vs %s", first.SanctionID, second.SanctionID)
	}

	other := domain.NewLoanApplication("CUST002", "9876543211")
	other.ApplicationID = "APP-2"
	third, err := issuer.Issue(context.Background(), testCustomer(), other, testOffer())
	if err != nil {
		t.Fatalf("third Issue failed: %v", err)
	}
	if third.SanctionID == first.SanctionID {
		t.Error("distinct applications must get distinct artifacts")
	}
}

func TestIssueRequiresApplicationID(t *testing.T) {
	issuer, err := NewFileIssuer(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileIssuer failed: %v", err)
	}

	app := domain.NewLoanApplication("CUST001", "9876543210")
	if _, err := issuer.Issue(context.Background(), testCustomer(), app, testOffer()); err == nil {
		t.Fatal("Issue without application id should fail")
	}
}

func TestLetterPathUnknownID(t *testing.T) {
	issuer, err := NewFileIssuer(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileIssuer failed: %v", err)
	}
	if _, err := issuer.LetterPath("9d2d6f2e-bc4a-41a8-9a2e-55f0e8c6a001"); err != domain.ErrSanctionNotFound {
		t.Fatalf("LetterPath error = %v, want ErrSanctionNotFound", err)
	}
}

func TestLetterPathRejectsNonUUIDIDs(t *testing.T) {
	issuer, err := NewFileIssuer(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileIssuer failed: %v", err)
	}
	for _, id := range []string{"nope", "../../etc/passwd", "sanction_x", ""} {
		if _, err := issuer.LetterPath(id); err != domain.ErrSanctionNotFound {
			t.Errorf("LetterPath(%q) error = %v, want ErrSanctionNotFound", id, err)
		}
	}
}

func TestRenderLetterDeterministic(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := RenderLetter("sid-1", testCustomer(), testOffer(), at)
	b := RenderLetter("sid-1", testCustomer(), testOffer(), at)
	if a != b {
		t.Error("RenderLetter must be deterministic for identical inputs")
	}
}
