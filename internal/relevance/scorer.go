// Package relevance scores and annotates text matches for content search.
//
// The score combines three components: occurrence density, early-match
// position, and exactness (phrase over token-subset). The weights are
// tunable, but for a fixed query and document length the score is monotone
// in the number of occurrences, and a phrase hit never scores below the
// same tokens scattered.
package relevance

import (
	"sort"
	"strings"
)

// Config holds the scoring weights and bounds.
type Config struct {
	// FrequencyWeight scales the occurrence-density component.
	FrequencyWeight float64
	// PositionWeight scales the early-match component.
	PositionWeight float64
	// ExactnessWeight scales the phrase-over-tokens component.
	ExactnessWeight float64
	// DensityScale dampens the frequency component on long documents
	// (roughly: occurrences compete against docTokens/DensityScale).
	DensityScale int
	// HeadWindow is the byte length of the document head treated as
	// "early" — titles and headers land there.
	HeadWindow int
	// MaxHighlights bounds the highlight count per document.
	MaxHighlights int
	// HighlightContext is the number of bytes kept around each match.
	HighlightContext int
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		FrequencyWeight:  0.5,
		PositionWeight:   0.2,
		ExactnessWeight:  0.3,
		DensityScale:     100,
		HeadWindow:       300,
		MaxHighlights:    5,
		HighlightContext: 40,
	}
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.FrequencyWeight == 0 {
		c.FrequencyWeight = d.FrequencyWeight
	}
	if c.PositionWeight == 0 {
		c.PositionWeight = d.PositionWeight
	}
	if c.ExactnessWeight == 0 {
		c.ExactnessWeight = d.ExactnessWeight
	}
	if c.DensityScale == 0 {
		c.DensityScale = d.DensityScale
	}
	if c.HeadWindow == 0 {
		c.HeadWindow = d.HeadWindow
	}
	if c.MaxHighlights == 0 {
		c.MaxHighlights = d.MaxHighlights
	}
	if c.HighlightContext == 0 {
		c.HighlightContext = d.HighlightContext
	}
}

// Match is the scored, annotated outcome of matching one document.
type Match struct {
	Score       float64
	Occurrences int
	Highlights  []string
}

// Scorer matches document text against a search term.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer; zero config fields fall back to defaults.
func NewScorer(cfg Config) *Scorer {
	cfg.ApplyDefaults()
	return &Scorer{cfg: cfg}
}

// span is one matched region of the folded haystack.
type span struct {
	pos    int
	length int
}

// Match scores content against term. ok is false when nothing matches
// (blank terms never match). exactMatch searches the literal phrase;
// otherwise any whitespace-separated token of the term matches. Folding is
// applied to both sides unless caseSensitive.
func (s *Scorer) Match(content, term string, exactMatch, caseSensitive bool) (Match, bool) {
	needle := strings.TrimSpace(term)
	if needle == "" || content == "" {
		return Match{}, false
	}

	haystack := content
	if !caseSensitive {
		haystack = strings.ToLower(content)
		needle = strings.ToLower(needle)
	}

	spans, exactness := s.match(haystack, needle, exactMatch)
	if len(spans) == 0 {
		return Match{}, false
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].pos < spans[j].pos })

	return Match{
		Score:       s.score(haystack, spans, exactness),
		Occurrences: len(spans),
		Highlights:  s.highlights(content, spans),
	}, true
}

// match collects the matched spans and the exactness component in [0,1].
func (s *Scorer) match(haystack, needle string, exactMatch bool) ([]span, float64) {
	if exactMatch {
		spans := occurrences(haystack, needle)
		if len(spans) == 0 {
			return nil, 0
		}
		return spans, 1.0
	}

	tokens := strings.Fields(needle)
	var spans []span
	matched := 0
	for _, tok := range tokens {
		hits := occurrences(haystack, tok)
		if len(hits) > 0 {
			matched++
			spans = append(spans, hits...)
		}
	}
	if matched == 0 {
		return nil, 0
	}

	// Token-mode exactness: full coverage at half weight, the whole
	// phrase appearing verbatim restores full weight.
	exactness := 0.5 * float64(matched) / float64(len(tokens))
	if strings.Contains(haystack, needle) {
		exactness = 1.0
	}
	return spans, exactness
}

// score maps matched spans onto (0, 1]. Monotone in len(spans) for a fixed
// document length, so more occurrences never rank lower.
func (s *Scorer) score(haystack string, spans []span, exactness float64) float64 {
	occ := float64(len(spans))
	docTokens := float64(len(strings.Fields(haystack)))
	saturation := occ / (occ + 1 + docTokens/float64(s.cfg.DensityScale))

	position := 0.0
	if spans[0].pos < s.cfg.HeadWindow {
		position = 1.0
	}

	score := s.cfg.FrequencyWeight*saturation +
		s.cfg.PositionWeight*position +
		s.cfg.ExactnessWeight*exactness
	if score > 1 {
		score = 1
	}
	return score
}

// occurrences finds the non-overlapping positions of needle in hay.
func occurrences(hay, needle string) []span {
	if needle == "" {
		return nil
	}
	var out []span
	for from := 0; ; {
		i := strings.Index(hay[from:], needle)
		if i < 0 {
			return out
		}
		out = append(out, span{pos: from + i, length: len(needle)})
		from += i + len(needle)
	}
}
