package input

import (
	"strings"
	"time"
)

// keyStroke is the keycode for a character and whether shift is held.
type keyStroke struct {
	code  uint16
	shift bool
}

var keyMap = buildKeyMap()

func buildKeyMap() map[rune]keyStroke {
	m := make(map[rune]keyStroke)
	letters := []uint16{
		KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
		KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
	}
	for i, code := range letters {
		m[rune('a'+i)] = keyStroke{code: code}
		m[rune('A'+i)] = keyStroke{code: code, shift: true}
	}

	digits := []uint16{Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9}
	for i, code := range digits {
		m[rune('0'+i)] = keyStroke{code: code}
	}
	for i, r := range ")!@#$%^&*(" {
		m[r] = keyStroke{code: digits[i], shift: true}
	}

	pairs := []struct {
		plain, shifted rune
		code           uint16
	}{
		{'-', '_', KeyMinus},
		{'=', '+', KeyEqual},
		{'[', '{', KeyLeftBrace},
		{']', '}', KeyRightBrace},
		{'\\', '|', KeyBackslash},
		{';', ':', KeySemicolon},
		{'\'', '"', KeyApostrophe},
		{',', '<', KeyComma},
		{'.', '>', KeyDot},
		{'/', '?', KeySlash},
		{'`', '~', KeyGrave},
	}
	for _, p := range pairs {
		m[p.plain] = keyStroke{code: p.code}
		m[p.shifted] = keyStroke{code: p.code, shift: true}
	}

	m[' '] = keyStroke{code: KeySpace}
	m['\t'] = keyStroke{code: KeyTab}
	m['\n'] = keyStroke{code: KeyEnter}
	m['\b'] = keyStroke{code: KeyBackspace}
	m['\x1b'] = keyStroke{code: KeyEsc}
	return m
}

// KeyboardKeys lists every keycode the keyboard can emit, for uinput
// registration.
func KeyboardKeys() []uint16 {
	seen := map[uint16]bool{KeyLeftShift: true, KeyLeftCtrl: true}
	keys := []uint16{KeyLeftShift, KeyLeftCtrl}
	for _, ks := range keyMap {
		if !seen[ks.code] {
			seen[ks.code] = true
			keys = append(keys, ks.code)
		}
	}
	return keys
}

// Keyboard types text through a virtual keyboard. It is not safe for
// concurrent use.
type Keyboard struct {
	dev Emitter

	// Sleep is called after every character. Defaults to time.Sleep.
	Sleep func(time.Duration)

	progress int
}

const charDelay = 10 * time.Millisecond

func NewKeyboard(dev Emitter) *Keyboard {
	return &Keyboard{dev: dev, Sleep: time.Sleep}
}

func (k *Keyboard) key(code uint16, value int32) error {
	return k.dev.Emit(Key(code, value), Syn)
}

// typeRune emits one mapped character. ok is false for unmapped runes.
func (k *Keyboard) typeRune(r rune) (ok bool, err error) {
	ks, ok := keyMap[r]
	if !ok {
		return false, nil
	}
	if ks.shift {
		if err := k.key(KeyLeftShift, 1); err != nil {
			return true, err
		}
	}
	if err := k.key(ks.code, 1); err != nil {
		return true, err
	}
	if err := k.key(ks.code, 0); err != nil {
		return true, err
	}
	if ks.shift {
		if err := k.key(KeyLeftShift, 0); err != nil {
			return true, err
		}
	}
	if err := k.dev.Emit(Syn); err != nil {
		return true, err
	}
	k.Sleep(charDelay)
	return true, nil
}

// TypeString types s. Characters without a key mapping are skipped.
func (k *Keyboard) TypeString(s string) error {
	for _, r := range s {
		if _, err := k.typeRune(r); err != nil {
			return err
		}
	}
	return nil
}

// Command types keys while holding left ctrl, and left shift if shift is
// set.
func (k *Keyboard) Command(keys string, shift bool) error {
	if err := k.key(KeyLeftCtrl, 1); err != nil {
		return err
	}
	if shift {
		if err := k.key(KeyLeftShift, 1); err != nil {
			return err
		}
	}
	typeErr := k.TypeString(keys)
	if shift {
		if err := k.key(KeyLeftShift, 0); err != nil && typeErr == nil {
			typeErr = err
		}
	}
	if err := k.key(KeyLeftCtrl, 0); err != nil && typeErr == nil {
		typeErr = err
	}
	return typeErr
}

func (k *Keyboard) Title() error      { return k.Command("1", false) }
func (k *Keyboard) Subheading() error { return k.Command("2", false) }
func (k *Keyboard) Body() error       { return k.Command("3", false) }
func (k *Keyboard) Bullet() error     { return k.Command("4", false) }

// Progress types a single "." and counts it.
func (k *Keyboard) Progress() error {
	if err := k.TypeString("."); err != nil {
		return err
	}
	k.progress++
	return nil
}

// ProgressEnd erases every counted progress mark and resets the counter.
// On error the counter keeps the marks that are still on screen.
func (k *Keyboard) ProgressEnd() error {
	for k.progress > 0 {
		if err := k.TypeString("\b"); err != nil {
			return err
		}
		k.progress--
	}
	return nil
}

// ProgressCount reports how many progress marks are on screen.
func (k *Keyboard) ProgressCount() int { return k.progress }

// Typeable reports whether r has a key mapping.
func Typeable(r rune) bool {
	_, ok := keyMap[r]
	return ok
}

// Printable reports whether every rune in s has a key mapping.
func Printable(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !Typeable(r) }) < 0
}
