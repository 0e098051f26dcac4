package interview

import (
	"fmt"
	"strings"

	"github.com/opscapture/interview-backend/internal/domain"
)

// emptyHistoryMarker is rendered in place of the conversation when no turns
// have been recorded yet.
const emptyHistoryMarker = "No conversation yet."

// BuildContext renders interview metadata and the conversation log into a
// flat text block for inclusion in a prompt. Pure and deterministic: the same
// interview always produces byte-identical output. The stored speaker field
// labels each line; entry order is preserved as stored.
func BuildContext(iv *domain.Interview) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Equipment: %s\n", iv.EquipmentName)
	fmt.Fprintf(&b, "Location: %s\n", iv.EquipmentLocation)
	fmt.Fprintf(&b, "SME: %s, %s\n", iv.SMEName, iv.SMETitle)
	fmt.Fprintf(&b, "Interview phase: %d\n\n", iv.CurrentPhase)

	if len(iv.History) == 0 {
		b.WriteString(emptyHistoryMarker)
		return b.String()
	}

	b.WriteString("Conversation so far:\n")
	for _, e := range iv.History {
		fmt.Fprintf(&b, "%s: %s\n", e.Speaker, e.Text)
	}

	return b.String()
}
