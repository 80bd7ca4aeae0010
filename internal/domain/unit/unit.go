// Package unit parses free-text unit designators into structured form.
//
// Designator text is slash-delimited low-to-high (squad/platoon/company/
// battalion) but arrives with extraneous words, casing variation and
// punctuation. Parsing is positional and tolerant: a segment that does not
// match its level's pattern leaves that level unknown, never fails.
package unit

import (
	"regexp"
	"strings"

	"github.com/cavops/muster/internal/domain/model"
)

// Level identifies one of the four designator positions.
type Level int

const (
	LevelSquad Level = iota
	LevelPlatoon
	LevelCompany
	LevelBattalion
)

func (l Level) String() string {
	switch l {
	case LevelSquad:
		return "squad"
	case LevelPlatoon:
		return "platoon"
	case LevelCompany:
		return "company"
	case LevelBattalion:
		return "battalion"
	}
	return "unknown"
}

// Level-specific extraction patterns. Battalion designators are a closed
// set; the other levels are single letters or digits on word boundaries.
var (
	squadPattern     = regexp.MustCompile(`\b([A-Z]|\d)\b`)
	platoonPattern   = regexp.MustCompile(`\b(\d)\b`)
	companyPattern   = regexp.MustCompile(`\b([A-Z])\b`)
	battalionPattern = regexp.MustCompile(`(1-7|2-7|3-7|ACD)`)

	// bootCampPattern matches the whole-string recruit format "ddd/dd/dd".
	bootCampPattern = regexp.MustCompile(`^\d{3}/\d{2}/\d{2}$`)
)

func patternFor(l Level) *regexp.Regexp {
	switch l {
	case LevelPlatoon:
		return platoonPattern
	case LevelCompany:
		return companyPattern
	case LevelBattalion:
		return battalionPattern
	default:
		return squadPattern
	}
}

// NormalizeSquadToken canonicalizes a squad-level token: a single uppercase
// letter A-I maps to its 1-based ordinal ("A" -> "1"), numeric tokens pass
// through, anything else is unknown (empty). Pure.
func NormalizeSquadToken(tok string) string {
	tok = strings.ToUpper(strings.TrimSpace(tok))
	if len(tok) == 1 && tok[0] >= 'A' && tok[0] <= 'I' {
		return string('1' + tok[0] - 'A')
	}
	if tok != "" && isDigits(tok) {
		return tok
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MismatchHook is called when strict level checking detects a segment whose
// own level pattern found nothing but which would match a different level.
type MismatchHook func(seg string, expected, matched Level)

// Parser extracts a structured UnitDesignator from free text.
type Parser struct {
	hook MismatchHook
}

// NewParser creates a parser with configuration options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse turns a designator string into a structured unit record.
//
// Commas are stripped and the text split on "/". Segments are read
// positionally (0=squad, 1=platoon, 2=company, 3=battalion) regardless of
// content; the positional fallback is the documented minimum-viable path,
// with WithMismatchHook available for stricter validation. Fewer segments
// than levels leave the trailing levels unknown. A whole-string match of
// the recruit format classifies the designator as Boot Camp instead.
func (p *Parser) Parse(text string) model.UnitDesignator {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if bootCampPattern.MatchString(text) {
		return model.BootCamp()
	}

	parts := strings.Split(text, "/")
	var u model.UnitDesignator
	u.Squad = NormalizeSquadToken(p.extract(parts, 0, LevelSquad))
	u.Platoon = p.extract(parts, 1, LevelPlatoon)
	u.Company = p.extract(parts, 2, LevelCompany)
	u.Battalion = p.extract(parts, 3, LevelBattalion)
	return u
}

// extract applies the level's pattern to the positional segment, reporting
// cross-level matches through the hook when one is installed.
func (p *Parser) extract(parts []string, idx int, level Level) string {
	if idx >= len(parts) {
		return ""
	}
	seg := parts[idx]
	if m := patternFor(level).FindStringSubmatch(seg); m != nil {
		return m[1]
	}
	if p.hook != nil {
		for _, other := range []Level{LevelSquad, LevelPlatoon, LevelCompany, LevelBattalion} {
			if other == level {
				continue
			}
			if patternFor(other).MatchString(seg) {
				p.hook(seg, level, other)
				break
			}
		}
	}
	return ""
}

// NormalizeLabel canonicalizes a designator string for movement timelines:
// commas removed, recruit format collapsed to "Boot Camp", a leading squad
// letter converted to its ordinal, and single-segment noise reported as
// "Unknown".
func NormalizeLabel(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if bootCampPattern.MatchString(text) {
		return model.BootCampBattalion
	}
	parts := strings.Split(text, "/")
	if len(parts) < 2 {
		return "Unknown"
	}
	if len(parts[0]) == 1 && parts[0][0] >= 'A' && parts[0][0] <= 'I' {
		parts[0] = string('1' + parts[0][0] - 'A')
	}
	return strings.Join(parts, "/")
}
