package router

import "unicode"

// scriptCounts 统计查询文本中各书写系统的字符数
type scriptCounts struct {
	devanagari int
	latin      int
	total      int // letters only, digits and punctuation are ignored
}

func countScripts(text string) scriptCounts {
	var c scriptCounts
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		c.total++
		switch {
		case unicode.Is(unicode.Devanagari, r):
			c.devanagari++
		case unicode.Is(unicode.Latin, r):
			c.latin++
		}
	}
	return c
}

// dominantShare is the fraction of letters one script must hold for the
// analysis to be conclusive. Below it the text counts as mixed.
const dominantShare = 0.6

// conclusive reports whether one script clearly dominates, and which
// language it maps to (Devanagari -> hindi, Latin -> english).
func (c scriptCounts) conclusive() (hindi bool, ok bool) {
	if c.total == 0 {
		return false, false
	}
	if float64(c.devanagari) >= dominantShare*float64(c.total) {
		return true, true
	}
	if float64(c.latin) >= dominantShare*float64(c.total) {
		return false, true
	}
	return false, false
}
