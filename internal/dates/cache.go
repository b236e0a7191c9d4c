package dates

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

const compiledCacheSize = 64

type patternKey struct {
	prefix     string
	dateFormat string
	timeFormat string
}

var compiled = mustPatternCache(compiledCacheSize)

func mustPatternCache(size int) *lru.Cache[patternKey, *Pattern] {
	c, err := lru.New[patternKey, *Pattern](size)
	if err != nil {
		panic(err)
	}
	return c
}

// Compile returns the pattern for s, building it at most once per distinct
// (prefix, dateFormat, timeFormat). Colors do not affect the pattern.
func Compile(s model.Settings) *Pattern {
	k := patternKey{prefix: s.Prefix, dateFormat: s.DateFormat, timeFormat: s.TimeFormat}
	if p, ok := compiled.Get(k); ok {
		return p
	}
	p := BuildPattern(s)
	compiled.Add(k, p)
	return p
}
