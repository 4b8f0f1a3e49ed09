package vk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/audience-scope/internal/common"
)

func TestExtractGroupID(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{link: "https://vk.com/club123", want: "123"},
		{link: "vk.com/public456", want: "456"},
		{link: "http://m.vk.com/club789?w=wall-789_1", want: "789"},
		{link: "https://www.vk.com/event42", want: "42"},
		{link: "https://vk.com/tproger", want: "tproger"},
		{link: "  vk.com/some_group/  ", want: "some_group"},
		{link: "HTTPS://VK.COM/Durov", want: "Durov"},
		{link: "apiclub", want: "apiclub"},
		{link: "club1", want: "1"},
		{link: "-29534144", want: "29534144"},
		{link: "29534144", want: "29534144"},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, err := ExtractGroupID(tt.link)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractGroupIDInvalid(t *testing.T) {
	for _, link := range []string{
		"",
		"   ",
		"https://example.com/club1",
		"vk.com/",
		"vk.com/имя",
		"ftp:club1",
	} {
		_, err := ExtractGroupID(link)
		assert.ErrorIs(t, err, common.ErrInvalidGroupLink, "link %q", link)
	}
}
