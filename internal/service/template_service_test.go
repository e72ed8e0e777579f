package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate(t *testing.T) {
	out := RenderTemplate("Hi {vendor_name}, code {vendor_code}, loc {unknown}", map[string]string{
		"vendor_name": "Acme",
		"vendor_code": "V1",
	})
	assert.Equal(t, "Hi Acme, code V1, loc {unknown}", out)
}

func TestRenderTemplateEmptyValue(t *testing.T) {
	out := RenderTemplate("Hello {vendor_name}!", map[string]string{"vendor_name": ""})
	assert.Equal(t, "Hello !", out)
}

func TestRenderTemplateRepeatedPlaceholder(t *testing.T) {
	out := RenderTemplate("{code} and {code}", map[string]string{"code": "V1"})
	assert.Equal(t, "V1 and V1", out)
}

func TestRenderTemplateNoPlaceholders(t *testing.T) {
	out := RenderTemplate("plain text", map[string]string{"vendor_name": "Acme"})
	assert.Equal(t, "plain text", out)
}
