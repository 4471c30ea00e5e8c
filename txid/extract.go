package txid

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// OnDemandBaseURL is where X serves its versioned ondemand.s bundles.
const OnDemandBaseURL = "https://abs.twimg.com/responsive-web/client-web"

const (
	verificationName = "twitter-site-verification"
	animationAnchor  = `id="loading-x-anim`
	moveCommandLen   = 9 // "M0 0 0 0C"
)

// ExtractOnDemandURL finds the ondemand.s bundle hash in the home page and
// returns the script URL to fetch.
func ExtractOnDemandURL(html string) (string, error) {
	for _, marker := range []string{`"ondemand.s"`, `'ondemand.s'`} {
		pos := strings.Index(html, marker)
		if pos < 0 {
			continue
		}
		if hash, ok := scanQuotedValue(html[pos+len(marker):]); ok && isAlphanumeric(hash) {
			return fmt.Sprintf("%s/ondemand.s.%sa.js", OnDemandBaseURL, hash), nil
		}
	}

	return "", missingKey("ondemand file hash" + pageHint(html))
}

// scanQuotedValue parses `: "value"` (either quote style, optional
// whitespace) at the start of s.
func scanQuotedValue(s string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimLeftFunc(s, unicode.IsSpace), ":")
	if !ok {
		return "", false
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
		return "", false
	}
	quote := rest[0]
	rest = rest[1:]
	end := strings.IndexByte(rest, quote)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// pageHint guesses why the home page did not carry the expected markers.
func pageHint(html string) string {
	switch {
	case strings.Contains(html, "login") || strings.Contains(html, "LoginForm"):
		return " (received login page - may need cookies)"
	case len(html) < 10000:
		return " (response too small - may be rate limited or blocked)"
	default:
		return " (X may have changed their page structure)"
	}
}

// VerificationKey returns the content of the twitter-site-verification
// meta tag.
func VerificationKey(html string) (string, error) {
	pos := -1
	for _, marker := range []string{`name="` + verificationName + `"`, `name='` + verificationName + `'`} {
		if pos = strings.Index(html, marker); pos >= 0 {
			break
		}
	}
	if pos < 0 {
		return "", missingKey(verificationName + " meta tag")
	}

	tagStart := strings.LastIndexByte(html[:pos], '<')
	if tagStart < 0 {
		tagStart = 0
	}
	tagEnd := len(html)
	if off := strings.IndexByte(html[pos:], '>'); off >= 0 {
		tagEnd = pos + off
	}
	tag := html[tagStart:tagEnd]

	for _, attr := range []string{`content="`, `content='`} {
		i := strings.Index(tag, attr)
		if i < 0 {
			continue
		}
		value := tag[i+len(attr):]
		end := strings.IndexByte(value, attr[len(attr)-1])
		if end < 0 {
			return "", parseError("malformed content attribute")
		}
		return value[:end], nil
	}

	return "", missingKey("content attribute")
}

// ParseIndices collects every N from `(e[N], 16)` in the ondemand script.
// The first is the row index, the rest index into the key bytes.
func ParseIndices(js string) (int, []int, error) {
	var indices []int
	for i := 0; i+3 < len(js); i++ {
		if js[i] != '(' || !isIdentByte(js[i+1]) || js[i+2] != '[' {
			continue
		}
		start := i + 3
		end := start
		for end < len(js) && js[end] >= '0' && js[end] <= '9' {
			end++
		}
		if end == start {
			continue
		}
		rest := js[end:]
		if !strings.HasPrefix(rest, "], 16)") && !strings.HasPrefix(rest, "],16)") {
			continue
		}
		n, err := strconv.Atoi(js[start:end])
		if err != nil {
			continue
		}
		indices = append(indices, n)
		i = end
	}

	if len(indices) == 0 {
		return 0, nil, missingKey("key byte indices")
	}
	return indices[0], indices[1:], nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// AnimationFrames returns, for each loading-x-anim SVG in the page, the d
// attribute of its first path that draws cubic curves.
func AnimationFrames(html string) []string {
	var frames []string
	searchPos := 0
	for {
		off := strings.Index(html[searchPos:], animationAnchor)
		if off < 0 {
			break
		}
		start := searchPos + off
		end := strings.Index(html[start:], "</svg>")
		if end < 0 {
			break
		}
		svg := html[start : start+end]
		if d, ok := firstCurvePath(svg); ok {
			frames = append(frames, d)
		}
		searchPos = start + end
	}
	return frames
}

func firstCurvePath(svg string) (string, bool) {
	pos := 0
	for {
		off := strings.Index(svg[pos:], "<path")
		if off < 0 {
			return "", false
		}
		start := pos + off
		tagEnd := strings.IndexByte(svg[start:], '>')
		if tagEnd < 0 {
			pos = start + len("<path")
			continue
		}
		if d, ok := pathData(svg[start : start+tagEnd]); ok && strings.Contains(d, "C") {
			return d, true
		}
		pos = start + len("<path")
	}
}

func pathData(tag string) (string, bool) {
	const attr = ` d="`
	i := strings.Index(tag, attr)
	if i < 0 {
		return "", false
	}
	rest := tag[i+len(attr):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// ParsePathToCoordinates drops the leading move command of an SVG path and
// returns the integers of each cubic segment.
func ParsePathToCoordinates(d string) [][]int {
	if len(d) >= moveCommandLen {
		d = d[moveCommandLen:]
	}

	segments := strings.Split(d, "C")
	out := make([][]int, len(segments))
	for i, segment := range segments {
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '-' {
				return r
			}
			return ' '
		}, segment)

		row := []int{}
		for _, field := range strings.Fields(cleaned) {
			n, err := strconv.ParseInt(field, 10, 32)
			if err != nil {
				continue
			}
			row = append(row, int(n))
		}
		out[i] = row
	}
	return out
}
