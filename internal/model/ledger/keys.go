package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Simmypeet/Xpen/internal/entity/record"
)

const recordFileExt = ".json"

// FileName returns the partition file name for a key, "<year>_<month>.json"
// with no leading zeros on either component.
func FileName(key record.FileKey) string {
	return fmt.Sprintf("%d_%d%s", key.Year, int(key.Month), recordFileExt)
}

// ParseFileName parses a partition file name back into its key. Names that
// do not follow the two-token format, carry leading zeros, or encode an
// impossible calendar month are rejected.
func ParseFileName(name string) (record.FileKey, bool) {
	if !strings.HasSuffix(name, recordFileExt) {
		return record.FileKey{}, false
	}
	name = strings.TrimSuffix(name, recordFileExt)

	split := strings.Split(name, "_")
	if len(split) != 2 {
		return record.FileKey{}, false
	}

	year, ok := parseToken(split[0])
	if !ok {
		return record.FileKey{}, false
	}
	month, ok := parseToken(split[1])
	if !ok {
		return record.FileKey{}, false
	}

	if year < 1 || month < 1 || month > 12 {
		return record.FileKey{}, false
	}
	return record.FileKey{Month: time.Month(month), Year: year}, true
}

// parseToken accepts plain decimal digits with no leading zero. Signs and
// zero-padded tokens would make the same key spellable two ways.
func parseToken(token string) (int, bool) {
	if token == "" || token[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DiscoverKeys maps a directory listing to the set of valid partition
// keys, sorted ascending by (year, month). Names that do not parse are
// silently skipped.
func DiscoverKeys(names []string) []record.FileKey {
	keys := make([]record.FileKey, 0, len(names))
	for _, name := range names {
		if key, ok := ParseFileName(name); ok {
			keys = append(keys, key)
		}
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []record.FileKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
}
