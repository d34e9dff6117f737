package scancode

import gonanoid "github.com/matoous/go-nanoid/v2"

// Codes are opaque keys carried by the invitation QR symbol. The alphabet
// avoids characters that decode ambiguously from print (0/O, 1/I/l).
const (
	alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"
	length   = 12
)

// New returns a fresh scan code. 12 characters over a 56-symbol alphabet
// make accidental collisions within one event a non-event; the database
// unique constraint remains the backstop.
func New() string {
	code, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		// gonanoid only fails when the OS entropy source does; nothing
		// sensible can be issued in that state.
		panic("scancode: entropy source unavailable: " + err.Error())
	}
	return code
}
