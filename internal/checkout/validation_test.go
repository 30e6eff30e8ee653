package checkout

import (
	"testing"
	"time"

	"verideal_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

var feb2020 = time.Date(2020, time.February, 15, 10, 0, 0, 0, time.UTC)

func validForm() Form {
	return Form{
		CustomerInfo: models.CustomerInfo{
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "asha@example.com",
			Address:   "12 MG Road",
			City:      "Pune",
			State:     "MH",
			Pincode:   "411001",
		},
		CardNumber: "4111 1111 1111 1111",
		Expiry:     "12/99",
		CVV:        "123",
	}
}

func TestValidate_ValidForm(t *testing.T) {
	for _, m := range []models.PaymentMethod{models.PaymentCreditCard, models.PaymentPayPal, models.PaymentStripe} {
		assert.Empty(t, Validate(validForm(), m, feb2020), m)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		method models.PaymentMethod
		field  string
		want   string
	}{
		{"missing first name", func(f *Form) { f.FirstName = " " }, models.PaymentPayPal, "firstName", "This field is required"},
		{"missing email", func(f *Form) { f.Email = "" }, models.PaymentPayPal, "email", "This field is required"},
		{"bad email", func(f *Form) { f.Email = "asha@example" }, models.PaymentPayPal, "email", "Please enter a valid email address"},
		{"short pincode", func(f *Form) { f.Pincode = "4110" }, models.PaymentStripe, "pincode", "Pincode must be 6 digits"},
		{"missing card", func(f *Form) { f.CardNumber = "" }, models.PaymentCreditCard, "cardNumber", "Card number is required"},
		{"15 digit card", func(f *Form) { f.CardNumber = "411111111111111" }, models.PaymentCreditCard, "cardNumber", "Card number must be 16 digits"},
		{"17 digit card", func(f *Form) { f.CardNumber = "41111111111111119" }, models.PaymentCreditCard, "cardNumber", "Card number must be 16 digits"},
		{"missing expiry", func(f *Form) { f.Expiry = "" }, models.PaymentCreditCard, "expiry", "Expiry date is required"},
		{"bad expiry month", func(f *Form) { f.Expiry = "13/25" }, models.PaymentCreditCard, "expiry", "Invalid expiry format (MM/YY)"},
		{"expired card", func(f *Form) { f.Expiry = "01/20" }, models.PaymentCreditCard, "expiry", "Card has expired"},
		{"missing cvv", func(f *Form) { f.CVV = "" }, models.PaymentCreditCard, "cvv", "CVV is required"},
		{"short cvv", func(f *Form) { f.CVV = "12" }, models.PaymentCreditCard, "cvv", "CVV must be 3 or 4 digits"},
		{"unknown method", func(*Form) {}, models.PaymentMethod("cash"), "paymentMethod", "Unsupported payment method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			errs := Validate(f, tt.method, feb2020)
			assert.Equal(t, tt.want, errs[tt.field])
			assert.Len(t, errs, 1)
		})
	}
}

func TestValidate_CardFieldsIgnoredForOtherMethods(t *testing.T) {
	f := validForm()
	f.CardNumber, f.Expiry, f.CVV = "", "", ""

	assert.Empty(t, Validate(f, models.PaymentPayPal, feb2020))
	assert.Empty(t, Validate(f, models.PaymentStripe, feb2020))
	assert.Len(t, Validate(f, models.PaymentCreditCard, feb2020), 3)
}

func TestValidate_UnformattedCardNumberIsAccepted(t *testing.T) {
	f := validForm()
	f.CardNumber = "4111111111111111"
	assert.Empty(t, Validate(f, models.PaymentCreditCard, feb2020))
}

func TestValidate_CurrentMonthIsNotExpired(t *testing.T) {
	f := validForm()
	f.Expiry = "02/20"
	assert.Empty(t, Validate(f, models.PaymentCreditCard, feb2020))
}

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111111111111111"))
	assert.Equal(t, "4111 1111 1111 111", FormatCardNumber("411111111111111"))
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111-1111-1111-1111-999"))
	assert.Equal(t, "4111 1", FormatCardNumber("41 11 1"))
	assert.Equal(t, "", FormatCardNumber("abcd"))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12/", FormatExpiry("12"))
	assert.Equal(t, "12/2", FormatExpiry("122"))
	assert.Equal(t, "12/25", FormatExpiry("12/2599"))
}

func TestFormatCVVAndPincode(t *testing.T) {
	assert.Equal(t, "1234", FormatCVV("12a345"))
	assert.Equal(t, "411001", FormatPincode("411 0019"))
}
