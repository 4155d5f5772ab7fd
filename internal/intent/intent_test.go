package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindFlags(t *testing.T) {
	flags := FindFlags("hello --verbose --help --verbose")

	assert.Len(t, flags, 2)
	assert.Contains(t, flags, "verbose")
	assert.Contains(t, flags, "help")
}

func TestFindFlagsCaseSensitive(t *testing.T) {
	flags := FindFlags("--Verbose --verbose")

	assert.Contains(t, flags, "Verbose")
	assert.Contains(t, flags, "verbose")
	assert.Len(t, flags, 2)
}

func TestFindFlagsNone(t *testing.T) {
	assert.Empty(t, FindFlags("just a plain message"))
}

func TestParseFlags(t *testing.T) {
	f := ParseFlags("<@U123> --attributes {female, red} --inject make it pop")

	assert.True(t, f.Attributes)
	assert.True(t, f.Inject)
	assert.False(t, f.Verbose)
	assert.False(t, f.Help)
}

func TestParseFlagsIgnoresUnrecognized(t *testing.T) {
	f := ParseFlags("--bogus --whatever")

	assert.Equal(t, Flags{}, f)
}

func TestExtractAttributes(t *testing.T) {
	attrs := ExtractAttributes("make it {female, red} please")

	assert.Equal(t, []string{"female", "red"}, attrs)
}

func TestExtractAttributesNoBraces(t *testing.T) {
	assert.Nil(t, ExtractAttributes("no braces here"))
}

func TestExtractAttributesFirstTwoOnly(t *testing.T) {
	attrs := ExtractAttributes("{a,b,c}")

	assert.Equal(t, []string{"a", "b"}, attrs)
}

func TestExtractAttributesTrimsAndLowercases(t *testing.T) {
	attrs := ExtractAttributes("{ Female ,  RED }")

	assert.Equal(t, []string{"female", "red"}, attrs)
}

func TestExtractAttributesFirstGroupWins(t *testing.T) {
	attrs := ExtractAttributes("{male} and later {female}")

	assert.Equal(t, []string{"male"}, attrs)
}

func TestCleanText(t *testing.T) {
	got := CleanText("<@U042BOT> put a dragon on it --inject --verbose")

	assert.Equal(t, "put a dragon on it", got)
}

func TestCleanTextOnlyMentionAndFlags(t *testing.T) {
	assert.Equal(t, "", CleanText("<@U042BOT> --help"))
}
