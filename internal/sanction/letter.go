package sanction

import (
	"fmt"
	"strings"
	"time"

	"github.com/finbotics/loanflow/internal/domain"
)

// RenderLetter produces the sanction letter body as plain text. Pure
// function of its inputs; PDF rendering is a downstream concern.
func RenderLetter(sanctionID string, customer *domain.CustomerProfile, offer domain.Offer, issuedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "FINBOTICS FINANCIAL SERVICES LIMITED\n")
	fmt.Fprintf(&b, "Personal Loan Sanction Letter\n")
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 60))
	fmt.Fprintf(&b, "Sanction ID : %s\n", sanctionID)
	fmt.Fprintf(&b, "Date        : %s\n\n", issuedAt.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "To,\n%s\n%s\n\n", customer.Name, customer.Address)
	fmt.Fprintf(&b, "Dear %s,\n\n", customer.Name)
	fmt.Fprintf(&b, "We are pleased to inform you that your personal loan application has been sanctioned on the following terms:\n\n")
	fmt.Fprintf(&b, "  Sanctioned Amount : Rs. %s\n", offer.Amount.StringFixed(2))
	fmt.Fprintf(&b, "  Tenure            : %d months\n", offer.TenureMonths)
	fmt.Fprintf(&b, "  Interest Rate     : %s%% per annum\n", offer.InterestRate.String())
	fmt.Fprintf(&b, "  Monthly EMI       : Rs. %s\n", offer.EMI.StringFixed(2))
	fmt.Fprintf(&b, "  Total Payable     : Rs. %s\n\n", offer.TotalPayable.StringFixed(2))
	fmt.Fprintf(&b, "This sanction is valid for 30 days from the date of issue and is subject to execution of the loan agreement.\n\n")
	fmt.Fprintf(&b, "Warm regards,\nCredit Operations\nFinbotics Financial Services Limited\n")

	return b.String()
}
