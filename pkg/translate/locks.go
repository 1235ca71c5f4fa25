package translate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

var (
	lockAcquireRe = regexp.MustCompile(`LockingSystem\s*\.\s*(?:lockAndWait|lock)\s*\(`)
	lockReleaseRe = regexp.MustCompile(`LockingSystem\s*\.\s*unlock\s*\(`)
)

// DetectLockPatterns finds acquire/release pairs in a script. Detection runs
// independently of exception-handling detection. Each acquire captures the
// resource key and timeout (default 300s) and is paired with the nearest
// subsequent release call for the same resource; a missing release is still
// reported, with ReleasePos set to -1. Patterns are ordered by acquire
// position.
func DetectLockPatterns(script string) []*models.LockPattern {
	releases := findReleases(script)

	var patterns []*models.LockPattern

	for _, m := range lockAcquireRe.FindAllStringIndex(script, -1) {
		argText, _, ok := extractParens(script, m[1]-1)
		if !ok {
			continue
		}

		args := splitArgs(argText)
		if len(args) == 0 {
			continue
		}

		pattern := &models.LockPattern{
			Resource:       stripQuotes(args[0]),
			TimeoutSeconds: models.DefaultLockTimeoutSeconds,
			AcquirePos:     m[0],
			ReleasePos:     -1,
		}

		if len(args) > 1 {
			if timeout, err := strconv.Atoi(strings.TrimSpace(args[1])); err == nil {
				pattern.TimeoutSeconds = timeout
			}
		}

		for _, rel := range releases {
			if rel.pos > pattern.AcquirePos && rel.resource == pattern.Resource {
				pattern.ReleasePos = rel.pos

				break
			}
		}

		if pattern.HasRelease() {
			between := script[pattern.AcquirePos:pattern.ReleasePos]
			pattern.HasFinally = strings.Contains(between, "finally")
		}

		patterns = append(patterns, pattern)
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].AcquirePos < patterns[j].AcquirePos
	})

	return patterns
}

type releaseCall struct {
	resource string
	pos      int
}

func findReleases(script string) []releaseCall {
	var releases []releaseCall

	for _, m := range lockReleaseRe.FindAllStringIndex(script, -1) {
		argText, _, ok := extractParens(script, m[1]-1)
		if !ok {
			continue
		}

		args := splitArgs(argText)
		if len(args) == 0 {
			continue
		}

		releases = append(releases, releaseCall{
			resource: stripQuotes(args[0]),
			pos:      m[0],
		})
	}

	return releases
}
