package lexer

import "unicode"

// классы ASCII-байтов для горячих циклов сканера
const (
	clsIdentStart uint8 = 1 << iota
	clsDigit
	clsHex
)

var byteClass = func() (t [utf8RuneSelf]uint8) {
	for b := 'a'; b <= 'z'; b++ {
		t[b] |= clsIdentStart
	}
	for b := 'A'; b <= 'Z'; b++ {
		t[b] |= clsIdentStart
	}
	t['_'] |= clsIdentStart
	for b := '0'; b <= '9'; b++ {
		t[b] |= clsDigit | clsHex
	}
	for _, b := range "abcdefABCDEF" {
		t[b] |= clsHex
	}
	return t
}()

func classOf(b byte, cls uint8) bool {
	return b < utf8RuneSelf && byteClass[b]&cls != 0
}

func isIdentStartByte(b byte) bool    { return classOf(b, clsIdentStart) }
func isIdentContinueByte(b byte) bool { return classOf(b, clsIdentStart|clsDigit) }
func isDec(b byte) bool               { return classOf(b, clsDigit) }
func isHex(b byte) bool               { return classOf(b, clsHex) }

// Non-ASCII identifiers follow the Python rule approximately: letters start,
// and combining marks, digits and connector punctuation may continue.
func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

// try2 consumes the two-byte operator ab if it is next.
func (lx *Lexer) try2(a, b byte) bool {
	if b0, b1, ok := lx.cursor.Peek2(); !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Off += 2
	return true
}
