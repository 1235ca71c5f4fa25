package translate

import "regexp"

// ExceptionBlock is one detected try/catch(/finally) span.
type ExceptionBlock struct {
	TryBody     string
	CatchVar    string
	CatchBody   string
	FinallyBody string
	HasFinally  bool
	Start       int
	End         int // index past the last consumed block
}

var tryRe = regexp.MustCompile(`\btry\s*\{`)

var catchRe = regexp.MustCompile(`^\s*catch\s*\(\s*(\w+)\s*\)\s*\{`)

var finallyRe = regexp.MustCompile(`^\s*finally\s*\{`)

// ExtractExceptionBlock locates the first try/catch structure in a script.
// Bodies are extracted by delimiter counting, so arbitrarily nested blocks
// are handled. A try without a following catch is not a recognized idiom
// here and yields no exception structure, as does the absence of a try.
func ExtractExceptionBlock(script string) (*ExceptionBlock, bool) {
	tryLoc := tryRe.FindStringIndex(script)
	if tryLoc == nil {
		return nil, false
	}

	tryBody, tryEnd, ok := extractBlock(script, tryLoc[1]-1)
	if !ok {
		return nil, false
	}

	rest := script[tryEnd+1:]

	catchMatch := catchRe.FindStringSubmatchIndex(rest)
	if catchMatch == nil {
		return nil, false
	}

	catchOpen := tryEnd + 1 + catchMatch[1] - 1

	catchBody, catchEnd, ok := extractBlock(script, catchOpen)
	if !ok {
		return nil, false
	}

	block := &ExceptionBlock{
		TryBody:   tryBody,
		CatchVar:  rest[catchMatch[2]:catchMatch[3]],
		CatchBody: catchBody,
		Start:     tryLoc[0],
		End:       catchEnd + 1,
	}

	rest = script[catchEnd+1:]
	if finallyMatch := finallyRe.FindStringIndex(rest); finallyMatch != nil {
		finallyOpen := catchEnd + 1 + finallyMatch[1] - 1

		finallyBody, finallyEnd, ok := extractBlock(script, finallyOpen)
		if ok {
			block.FinallyBody = finallyBody
			block.HasFinally = true
			block.End = finallyEnd + 1
		}
	}

	return block, true
}

var rethrowRe = regexp.MustCompile(`\bthrow\b`)

// Rethrows reports whether the catch body re-raises the caught failure.
func (b *ExceptionBlock) Rethrows() bool {
	return rethrowRe.MatchString(b.CatchBody)
}
