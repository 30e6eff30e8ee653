package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"verideal_back_end/internal/models"
)

// Form is the checkout form as submitted: shipping details plus card fields.
type Form struct {
	models.CustomerInfo
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

const (
	msgRequired        = "This field is required"
	msgInvalidEmail    = "Please enter a valid email address"
	msgPincode         = "Pincode must be 6 digits"
	msgCardRequired    = "Card number is required"
	msgCardDigits      = "Card number must be 16 digits"
	msgExpiryRequired  = "Expiry date is required"
	msgExpiryFormat    = "Invalid expiry format (MM/YY)"
	msgCardExpired     = "Card has expired"
	msgCVVRequired     = "CVV is required"
	msgCVVDigits       = "CVV must be 3 or 4 digits"
	msgUnknownMethod   = "Unsupported payment method"
	GenericFailureText = "There was an error processing your order. Please try again."
)

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
	cardRe    = regexp.MustCompile(`^\d{4} \d{4} \d{4} \d{4}$`)
	expiryRe  = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe     = regexp.MustCompile(`^\d{3,4}$`)
	nonDigit  = regexp.MustCompile(`\D`)
)

// Validate checks the form for the chosen payment method. Card fields are
// only checked for credit-card. An empty result means the form is valid.
func Validate(f Form, method models.PaymentMethod, now time.Time) FieldErrors {
	errs := FieldErrors{}

	required := map[string]string{
		"firstName": f.FirstName,
		"email":     f.Email,
		"address":   f.Address,
		"city":      f.City,
		"state":     f.State,
		"pincode":   f.Pincode,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			errs[field] = msgRequired
		}
	}

	if f.Email != "" && !emailRe.MatchString(f.Email) {
		errs["email"] = msgInvalidEmail
	}
	if f.Pincode != "" && !pincodeRe.MatchString(f.Pincode) {
		errs["pincode"] = msgPincode
	}

	if !method.Valid() {
		errs["paymentMethod"] = msgUnknownMethod
		return errs
	}
	if method != models.PaymentCreditCard {
		return errs
	}

	switch card := FormatCardNumber(f.CardNumber); {
	case strings.TrimSpace(f.CardNumber) == "":
		errs["cardNumber"] = msgCardRequired
	case len(digits(f.CardNumber)) != 16, !cardRe.MatchString(card):
		errs["cardNumber"] = msgCardDigits
	}

	switch {
	case strings.TrimSpace(f.Expiry) == "":
		errs["expiry"] = msgExpiryRequired
	case !expiryRe.MatchString(f.Expiry):
		errs["expiry"] = msgExpiryFormat
	case expired(f.Expiry, now):
		errs["expiry"] = msgCardExpired
	}

	switch {
	case strings.TrimSpace(f.CVV) == "":
		errs["cvv"] = msgCVVRequired
	case !cvvRe.MatchString(f.CVV):
		errs["cvv"] = msgCVVDigits
	}

	return errs
}

// expired reports whether MM/YY is before the current month. The card stays
// valid through its expiry month.
func expired(expiry string, now time.Time) bool {
	month, _ := strconv.Atoi(expiry[:2])
	year, _ := strconv.Atoi(expiry[3:])
	expiresMonth := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return expiresMonth.Before(currentMonth)
}

func digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// FormatCardNumber keeps digits, groups them by four and caps the result at 19 characters.
func FormatCardNumber(s string) string {
	d := digits(s)
	var b strings.Builder
	for i, r := range d {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > 19 {
		out = out[:19]
	}
	return out
}

// FormatExpiry builds MM/YY from the first four digits typed.
func FormatExpiry(s string) string {
	d := digits(s)
	if len(d) < 2 {
		return d
	}
	if len(d) > 4 {
		d = d[:4]
	}
	return d[:2] + "/" + d[2:]
}

func FormatCVV(s string) string {
	return truncate(digits(s), 4)
}

func FormatPincode(s string) string {
	return truncate(digits(s), 6)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
