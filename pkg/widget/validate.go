package widget

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bastiangx/autocomplete/internal/utils"
)

// ErrInvalidCharacter marks input containing something other than A-Z or a-z.
var ErrInvalidCharacter = errors.New("input may only contain letters")

// InputError points at the first rejected character.
type InputError struct {
	Text string
	Pos  int
	Char rune
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid character %q at offset %d", e.Char, e.Pos)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidCharacter
}

// Validate accepts the empty string or a string made only of ASCII letters.
func Validate(text string) error {
	if text == "" || utils.IsASCIILetters(text) {
		return nil
	}
	for i := 0; i < len(text); i++ {
		if !utils.IsASCIILetter(text[i]) {
			r, _ := utf8.DecodeRuneInString(text[i:])
			return &InputError{Text: text, Pos: i, Char: r}
		}
	}
	return nil
}
