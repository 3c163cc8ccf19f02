package keys

import (
	"bufio"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// MinVersion is the oldest game version whose keys are kept from the feed.
var MinVersion = []int{9, 3, 0}

// maxFeedLine — максимальная длина одной строки feed.
const maxFeedLine = 1 << 20

// skipPrefixes помечают записи feed, которые никогда не дают рабочий ключ.
var skipPrefixes = []string{"9999.", "m_5."}

// ParseFeed parses newline-delimited `"key_id": "material"` pairs and keeps
// entries whose version is at least MinVersion. Quotes are optional and
// surrounding whitespace or a trailing comma are ignored. A line longer than
// maxFeedLine fails the whole feed.
func ParseFeed(text string) (map[string]string, error) {
	out := make(map[string]string)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), maxFeedLine)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		left, right, ok := strings.Cut(line, ":")
		if line == "" || !ok {
			continue
		}

		id := cleanQuotes(left)
		material := cleanQuotes(strings.TrimSuffix(strings.TrimSpace(right), ","))
		if id == "" || material == "" {
			continue
		}

		if !Accept(id) {
			continue
		}
		out[id] = material
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning key feed: %w", err)
	}
	return out, nil
}

// Accept reports whether a key id passes the feed filter: no skip marker and
// a numeric version prefix of at least MinVersion.
func Accept(id string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(id, p) {
			return false
		}
	}

	prefix, _, _ := strings.Cut(id, "_")
	v, err := parseVersion(prefix)
	if err != nil {
		slog.Debug("skipping feed entry", "key_id", id, "err", err)
		return false
	}
	return compareVersion(v, MinVersion) >= 0
}

func cleanQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}

func parseVersion(s string) ([]int, error) {
	parts := strings.Split(s, ".")
	v := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parsing version %q: %w", s, err)
		}
		v[i] = n
	}
	return v, nil
}

// compareVersion сравнивает версии покомпонентно, как кортежи:
// более короткая версия-префикс идёт раньше длинной.
func compareVersion(a, b []int) int {
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
