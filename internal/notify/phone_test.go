package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizePhone("9876543210", "91"))
	assert.Equal(t, "+919876543210", NormalizePhone("98765 43210", "91"))
	assert.Equal(t, "+14155552671", NormalizePhone("+1 (415) 555-2671", "91"))
	assert.Equal(t, "+4915112345678", NormalizePhone("4915112345678", "91"))
	assert.Equal(t, "", NormalizePhone("", "91"))
	assert.Equal(t, "", NormalizePhone("n/a", "91"))
}
