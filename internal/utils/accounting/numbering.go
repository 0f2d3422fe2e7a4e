package accounting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// entrySequenceDigits is the zero-padded width of the sequence part.
const entrySequenceDigits = 4

// EntryNumberPrefix returns the month bucket "PREFIX-YYYYMM-" for at.
func EntryNumberPrefix(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%04d%02d-", prefix, at.Year(), int(at.Month()))
}

// NextEntryNumber returns the number following last in the monthPrefix
// bucket. An empty last starts the bucket at 0001.
func NextEntryNumber(monthPrefix, last string) (string, error) {
	seq := 0
	if last != "" {
		if !strings.HasPrefix(last, monthPrefix) {
			return "", fmt.Errorf("entry number %q does not belong to %q", last, monthPrefix)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(last, monthPrefix))
		if err != nil || n < 0 {
			return "", fmt.Errorf("entry number %q has a malformed sequence", last)
		}
		seq = n
	}
	return fmt.Sprintf("%s%0*d", monthPrefix, entrySequenceDigits, seq+1), nil
}
