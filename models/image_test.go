package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageTags(t *testing.T) {
	var img Image

	assert.Equal(t, []string{}, img.TagList(), "no tags renders as an empty list")

	img.SetTags([]string{" beach ", "sunset", "beach", "", "alps"})
	assert.Equal(t, "alps,beach,sunset", img.Tags)
	assert.Equal(t, []string{"alps", "beach", "sunset"}, img.TagList())

	img.SetTags(nil)
	assert.Equal(t, "", img.Tags)
	assert.Equal(t, []string{}, img.TagList())
}
