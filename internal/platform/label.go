package platform

import (
	"fmt"
	"strings"
)

// DisplayLabel derives the label shown for a window. Blank names fall back to
// "<class> (<id>)" so untitled windows stay distinguishable.
func DisplayLabel(id WindowID, name, class string) string {
	if label := strings.TrimSpace(name); label != "" {
		return label
	}
	return fmt.Sprintf("%s (%d)", strings.TrimSpace(class), uint64(id))
}
