package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finbotics/loanflow/internal/domain"
)

// Message templating. Every function here is pure: display data in,
// text out. Decisions are never made at this layer.

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func tenureList(options []int) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		parts[i] = strconv.Itoa(opt)
	}
	return strings.Join(parts, ", ")
}

func msgWelcome() string {
	return "Welcome to Finbotics personal loans. I can help you check your eligibility " +
		"and take a loan application end to end. To get started, please share your " +
		"registered 10-digit mobile number."
}

func msgPhoneRetry() string {
	return "That does not look like a valid mobile number. Please share your registered " +
		"10-digit mobile number (for example 9876543210)."
}

func msgNotFound() string {
	return "I could not find an account registered against that number, so I am unable to " +
		"proceed with a loan application today. Please contact our support desk if you " +
		"believe this is an error. Thank you for your interest."
}

func msgQualified(name string, limit decimal.Decimal, options []int) string {
	return fmt.Sprintf("Hello %s! Good news — you are pre-approved for a personal loan of up to %s. "+
		"How much would you like to borrow, and over what tenure? Available tenures are %s months.",
		name, money(limit), tenureList(options))
}

func msgAskAmount() string {
	return "How much would you like to borrow? You can say something like \"5 lakh\" or \"250000\"."
}

func msgAskTenure(options []int) string {
	return fmt.Sprintf("Over what tenure would you like to repay? Available options are %s months.",
		tenureList(options))
}

func msgInvalidTenure(options []int) string {
	return fmt.Sprintf("I can only offer tenures of %s months. Which would you prefer?",
		tenureList(options))
}

func msgOffer(offer domain.Offer) string {
	return fmt.Sprintf("Here is your offer:\n"+
		"- Loan amount: %s\n"+
		"- Tenure: %d months\n"+
		"- Interest rate: %s%% p.a.\n"+
		"- Monthly EMI: %s\n"+
		"- Total payable: %s\n\n"+
		"Shall we proceed? Reply \"yes\" to accept, or tell me if you would like a different tenure.",
		money(offer.Amount), offer.TenureMonths, offer.InterestRate.String(),
		money(offer.EMI), money(offer.TotalPayable))
}

func msgOfferRetry() string {
	return "Sorry, I did not catch that. Reply \"yes\" to accept the offer, or tell me if " +
		"you would like to change the tenure."
}

func msgAskNewTenure(options []int) string {
	return fmt.Sprintf("Of course. Which tenure would you prefer instead? Available options are %s months.",
		tenureList(options))
}

func msgKYCOTP(phone string) string {
	return fmt.Sprintf("Your KYC verification is pending. I have sent a one-time password to the "+
		"mobile number ending %s. Please enter it to continue.", lastDigits(phone, 4))
}

func msgKYCFailed() string {
	return "Unfortunately your KYC verification has failed, so I cannot proceed with this " +
		"application. Please visit your nearest branch with valid identity documents to " +
		"update your KYC, and apply again afterwards."
}

func msgSalarySlipRequest(amount, limit decimal.Decimal) string {
	return fmt.Sprintf("The requested amount of %s is above your pre-approved limit of %s, so I "+
		"need to verify your income. Please upload your latest salary slip (PDF, up to 5 MB). "+
		"You can also say \"cancel\" to stop here.", money(amount), money(limit))
}

func msgSalarySlipRetry() string {
	return "I am still waiting for your salary slip. Please upload it as a PDF (10 KB to 5 MB), " +
		"or say \"cancel\" to stop the application."
}

func msgCancelled() string {
	return "No problem, I have cancelled this application. Feel free to start again whenever " +
		"you are ready."
}

func msgUploadAccepted(salary decimal.Decimal) string {
	return fmt.Sprintf("Thank you, your salary slip has been verified. Recorded monthly salary: %s. "+
		"Let me re-run the assessment.", money(salary))
}

func msgNameMismatch(reason string) string {
	msg := "The name on the uploaded salary slip does not match the name on your account, so I " +
		"cannot accept it. Please upload a salary slip issued in your own name."
	if reason != "" {
		msg += " (" + reason + ")"
	}
	return msg
}

func msgRejected(app *domain.LoanApplication) string {
	switch app.ReasonCode {
	case domain.ReasonLowCreditScore:
		return "I am sorry, but based on your current credit profile we are unable to approve a " +
			"personal loan at this time. Improving your credit score and re-applying after a few " +
			"months is the best next step."
	case domain.ReasonAmountExceedsLimit:
		return fmt.Sprintf("I am sorry, but the requested amount of %s is above the maximum we can "+
			"offer on your profile. You are welcome to apply again for a smaller amount.",
			money(app.RequestedAmount))
	case domain.ReasonHighEMIToSalaryRatio:
		return fmt.Sprintf("I am sorry, but the monthly EMI of %s would take up too large a share of "+
			"your verified salary, so we cannot approve this loan. A smaller amount or a longer "+
			"tenure may work — feel free to apply again.", money(app.EMI))
	default:
		return "I am sorry, but we are unable to approve this loan application. " + app.DecisionReason
	}
}

func msgApproved(app *domain.LoanApplication, artifact domain.SanctionArtifact) string {
	return fmt.Sprintf("Congratulations! Your loan is approved.\n"+
		"- Application ID: %s\n"+
		"- Sanctioned amount: %s\n"+
		"- Tenure: %d months\n"+
		"- Interest rate: %s%% p.a.\n"+
		"- Monthly EMI: %s\n\n"+
		"Your sanction letter is ready: %s\n"+
		"The amount will be disbursed to your registered account within 24 hours. "+
		"Thank you for banking with Finbotics!",
		app.ApplicationID, money(app.ApprovedAmount), app.ApprovedTenure,
		app.InterestRate.String(), money(app.EMI), artifact.URL)
}

func msgClosed() string {
	return "This conversation has ended. Please start a new session if you would like to " +
		"apply again. Thank you!"
}

func msgFailure() string {
	return "Sorry, something went wrong on our side while processing that. Please try again " +
		"in a moment — your application is safe."
}

func lastDigits(phone string, n int) string {
	if len(phone) <= n {
		return phone
	}
	return phone[len(phone)-n:]
}
