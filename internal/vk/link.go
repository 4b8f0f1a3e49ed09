package vk

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/audience-scope/internal/common"
)

var (
	numericGroupPattern = regexp.MustCompile(`^(?:club|public|event)(\d+)$`)
	screenNamePattern   = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)
	bareIDPattern       = regexp.MustCompile(`^-?(\d+)$`)
)

// ExtractGroupID turns a group link or reference into the value accepted by the
// group_id API parameter. vk.com/club123 and vk.com/public123 yield "123",
// vk.com/name yields "name". Bare screen names and numeric ids are accepted.
func ExtractGroupID(link string) (string, error) {
	ref := strings.TrimSpace(link)
	if ref == "" {
		return "", fmt.Errorf("%w: empty link", common.ErrInvalidGroupLink)
	}

	lower := strings.ToLower(ref)
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, prefix) {
			ref, lower = ref[len(prefix):], lower[len(prefix):]
			break
		}
	}
	for _, prefix := range []string{"www.", "m."} {
		if strings.HasPrefix(lower, prefix) {
			ref, lower = ref[len(prefix):], lower[len(prefix):]
			break
		}
	}

	switch {
	case strings.HasPrefix(lower, "vk.com/"):
		ref = ref[len("vk.com/"):]
	case strings.Contains(ref, "/") || strings.Contains(ref, ":"):
		return "", fmt.Errorf("%w: %q is not a vk.com address", common.ErrInvalidGroupLink, link)
	}

	if i := strings.IndexAny(ref, "/?#"); i >= 0 {
		ref = ref[:i]
	}

	if m := numericGroupPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if m := bareIDPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if screenNamePattern.MatchString(ref) {
		return ref, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidGroupLink, link)
}
