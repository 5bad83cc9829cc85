package core

import "strings"

// Interpret reads the unary result from a rendered tape: the number of digit
// symbols after the last delimiter. ok is false when the tape has no delimiter.
func Interpret(tape string) (value int, ok bool) {
	i := strings.LastIndex(tape, string(Delimiter))
	if i < 0 {
		return 0, false
	}
	return strings.Count(tape[i+len(Delimiter):], string(Digit)), true
}
