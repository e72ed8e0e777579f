package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmails(t *testing.T) {
	res := ExtractEmails("a@x.com, not-an-email, b@y.com")

	assert.Equal(t, "a@x.com", res.Primary)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, res.Valid)
	assert.Equal(t, []string{"not-an-email"}, res.Invalid)
}

func TestExtractEmailsSeparators(t *testing.T) {
	res := ExtractEmails("one@a.com;two@b.org|three@c.net four@d.io")
	assert.Equal(t, "one@a.com", res.Primary)
	assert.Len(t, res.Valid, 4)
	assert.Empty(t, res.Invalid)
}

func TestExtractEmailsEmpty(t *testing.T) {
	res := ExtractEmails("")
	assert.Equal(t, "", res.Primary)
	assert.Empty(t, res.Valid)
	assert.Empty(t, res.Invalid)
}

func TestClassifyPhoneMobile(t *testing.T) {
	assert.Equal(t, PhoneMobile, ClassifyPhone("9876543210"))
	assert.Equal(t, PhoneMobile, ClassifyPhone("6123456789"))
	// 0-prefixed 11-digit mobile
	assert.Equal(t, PhoneMobile, ClassifyPhone("09876543210"))
	// international
	assert.Equal(t, PhoneMobile, ClassifyPhone("+14155552671"))
}

func TestClassifyPhoneLandline(t *testing.T) {
	assert.Equal(t, PhoneLandline, ClassifyPhone("022-12345678"))
	assert.Equal(t, PhoneLandline, ClassifyPhone("01123456789"))
	assert.Equal(t, PhoneLandline, ClassifyPhone("0484 2345678"))
}

func TestClassifyPhoneInvalid(t *testing.T) {
	assert.Equal(t, PhoneInvalid, ClassifyPhone("123"))
	assert.Equal(t, PhoneInvalid, ClassifyPhone(""))
	assert.Equal(t, PhoneInvalid, ClassifyPhone("abc"))
	// 10 digits but starts below 6
	assert.Equal(t, PhoneInvalid, ClassifyPhone("1234567890"))
	// + prefixed but all the same digit
	assert.Equal(t, PhoneInvalid, ClassifyPhone("+1111111111"))
	// + prefixed but too long
	assert.Equal(t, PhoneInvalid, ClassifyPhone("+1234567890123456"))
}

func TestExtractPhones(t *testing.T) {
	res := ExtractPhones("022-12345678, 9876543210, 123")

	assert.Equal(t, "9876543210", res.Primary)
	assert.Equal(t, []string{"9876543210"}, res.Mobiles)
	assert.Equal(t, []string{"022-12345678"}, res.Landlines)
	assert.Equal(t, []string{"123"}, res.Invalid)
}

func TestExtractPhonesKeepsFirstMobile(t *testing.T) {
	res := ExtractPhones("9876543210;8765432109")
	assert.Equal(t, "9876543210", res.Primary)
	assert.Equal(t, []string{"9876543210", "8765432109"}, res.Mobiles)
}
