package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSectionsWithHeadings(t *testing.T) {
	text := "SUMMARY\nYou are on track.\n\nPROJECTION:\nSavings compound nicely.\nKeep contributing.\n\nRECOMMENDATIONS\nStay the course."

	sections := SplitSections(text)
	require.Len(t, sections, 3)
	assert.Equal(t, "SUMMARY", sections[0].Heading)
	assert.Equal(t, "You are on track.", sections[0].Body)
	assert.Equal(t, "PROJECTION", sections[1].Heading)
	assert.Contains(t, sections[1].Body, "Keep contributing.")
	assert.Equal(t, "RECOMMENDATIONS", sections[2].Heading)
}

func TestSplitSectionsDegradesToSingleBlock(t *testing.T) {
	text := "Just a plain paragraph with no headings at all. Nothing fancy here."

	sections := SplitSections(text)
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Heading)
	assert.Equal(t, text, sections[0].Body)
}

func TestSplitSectionsLeadingBodyKept(t *testing.T) {
	text := "An intro line before any heading.\nKEY FACTORS\nGenetics and habits."

	sections := SplitSections(text)
	require.Len(t, sections, 2)
	assert.Empty(t, sections[0].Heading)
	assert.Contains(t, sections[0].Body, "intro line")
	assert.Equal(t, "KEY FACTORS", sections[1].Heading)
}

func TestIsHeading(t *testing.T) {
	assert.True(t, isHeading("SUMMARY"))
	assert.True(t, isHeading("RISK FACTORS:"))
	assert.True(t, isHeading("HEALTH & WEALTH"))
	assert.False(t, isHeading("Summary"))
	assert.False(t, isHeading(""))
	assert.False(t, isHeading("A"))
	assert.False(t, isHeading("THIS IS A VERY LONG LINE THAT GOES ON AND ON AND ON AND SHOULD NOT BE A HEADING"))
	assert.False(t, isHeading("1987 WAS A YEAR, THIS HAS DIGITS 42"))
}
