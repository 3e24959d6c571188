package metrics

import "unicode"

// TextStats describes a string bound for the keyboard. Typed and Skipped
// split Runes by whether the keyboard has a key for the rune.
type TextStats struct {
	Bytes   int
	Runes   int
	Words   int
	Lines   int
	Typed   int
	Skipped int
}

// MeasureText counts s in one pass. Words are split on Unicode whitespace
// and an empty string has zero lines. A nil typeable counts every rune as
// typed.
func MeasureText(s string, typeable func(rune) bool) TextStats {
	st := TextStats{Bytes: len(s)}
	if s != "" {
		st.Lines = 1
	}
	inWord := false
	for _, r := range s {
		st.Runes++
		if r == '\n' {
			st.Lines++
		}
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			st.Words++
		}
		if typeable == nil || typeable(r) {
			st.Typed++
		} else {
			st.Skipped++
		}
	}
	return st
}
