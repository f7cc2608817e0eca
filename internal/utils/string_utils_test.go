package utils_test

import (
	"testing"

	"github.com/steveiliop56/authlink/internal/utils"

	"gotest.tools/v3/assert"
)

func TestCapitalize(t *testing.T) {
	// Test empty string
	assert.Equal(t, "", utils.Capitalize(""))

	// Test single character
	assert.Equal(t, "A", utils.Capitalize("a"))

	// Test multiple characters
	assert.Equal(t, "Hello", utils.Capitalize("hello"))

	// Test already capitalized
	assert.Equal(t, "World", utils.Capitalize("World"))

	// Test Unicode characters
	assert.Equal(t, "Γειά", utils.Capitalize("γειά"))
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://bot.example.com/oauth2callback", utils.JoinURL("https://bot.example.com", "/oauth2callback"))
	assert.Equal(t, "https://bot.example.com/oauth2callback", utils.JoinURL("https://bot.example.com/", "/oauth2callback"))
	assert.Equal(t, "https://bot.example.com/oauth2callback", utils.JoinURL("https://bot.example.com/", "oauth2callback"))
	assert.Equal(t, "https://bot.example.com", utils.JoinURL("https://bot.example.com", ""))
}
