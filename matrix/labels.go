package matrix

import "strconv"

// Labels maps label symbols to the numeric codes stored in column 0. Codes
// are assigned in first-seen order starting at 0.
type Labels struct {
	codes   map[string]float64
	symbols []string
}

// NewLabels returns an empty symbol table.
func NewLabels() *Labels {
	return &Labels{codes: map[string]float64{}}
}

// Code returns the code for symbol, assigning the next one if it is new.
func (l *Labels) Code(symbol string) float64 {
	if code, ok := l.codes[symbol]; ok {
		return code
	}
	code := float64(len(l.symbols))
	l.codes[symbol] = code
	l.symbols = append(l.symbols, symbol)
	return code
}

// Lookup returns the code for an existing symbol.
func (l *Labels) Lookup(symbol string) (float64, bool) {
	code, ok := l.codes[symbol]
	return code, ok
}

// Symbol returns the symbol for code.
func (l *Labels) Symbol(code float64) (string, bool) {
	i := int(code)
	if float64(i) != code || i < 0 || i >= len(l.symbols) {
		return "", false
	}
	return l.symbols[i], true
}

// String returns the symbol for code, or the code itself when unknown.
func (l *Labels) String(code float64) string {
	if s, ok := l.Symbol(code); ok {
		return s
	}
	return strconv.FormatFloat(code, 'g', -1, 64)
}

// Symbols returns all symbols in code order.
func (l *Labels) Symbols() []string { return append([]string(nil), l.symbols...) }

// Len returns the number of known symbols.
func (l *Labels) Len() int { return len(l.symbols) }
