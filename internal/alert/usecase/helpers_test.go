package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	tcs := map[string]struct {
		in    string
		limit int
		want  string
	}{
		"short":              {in: "ICU", limit: 10, want: "ICU"},
		"ascii":              {in: "ICU Bed Shortage", limit: 10, want: "ICU Bed..."},
		"tiny limit":         {in: "abcdef", limit: 2, want: "ab"},
		"multibyte boundary": {in: "Khoa Hồi sức", limit: 10, want: "Khoa H..."},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got := truncateText(tc.in, tc.limit)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), tc.limit)
		})
	}
}

func TestTruncateText_NeverSplitsRunes(t *testing.T) {
	s := strings.Repeat("cấp cứu ", 200)
	for limit := 1; limit < 40; limit++ {
		got := truncateText(s, limit)
		assert.True(t, utf8.ValidString(got), "limit %d", limit)
		assert.LessOrEqual(t, len(got), limit)
	}
}
