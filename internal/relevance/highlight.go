package relevance

// highlights extracts bounded context windows around the first matches.
// Spans must be sorted by position; a window that would overlap an already
// emitted one is skipped so one dense paragraph does not eat the whole
// budget with repeated text.
func (s *Scorer) highlights(content string, spans []span) []string {
	out := make([]string, 0, s.cfg.MaxHighlights)
	prevEnd := 0
	for _, sp := range spans {
		if len(out) == s.cfg.MaxHighlights {
			break
		}
		start, end := window(content, sp.pos, sp.pos+sp.length, s.cfg.HighlightContext)
		if len(out) > 0 && start < prevEnd {
			continue
		}
		out = append(out, content[start:end])
		prevEnd = end
	}
	return out
}

// window expands [from, to) by context bytes on each side, clamped to the
// content and snapped outward to rune boundaries.
func window(content string, from, to, context int) (int, int) {
	start := from - context
	if start < 0 {
		start = 0
	}
	end := to + context
	if end > len(content) {
		end = len(content)
	}
	for start > 0 && !runeStart(content[start]) {
		start--
	}
	for end < len(content) && !runeStart(content[end]) {
		end++
	}
	return start, end
}

// runeStart reports whether b is not a UTF-8 continuation byte.
func runeStart(b byte) bool { return b&0xC0 != 0x80 }
