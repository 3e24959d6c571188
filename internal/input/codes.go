package input

// Event types.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvAbs uint16 = 0x03
)

// SynReport closes one atomic group of events.
const SynReport uint16 = 0x00

// Tool and contact buttons.
const (
	BtnToolPen uint16 = 0x140
	BtnTouch   uint16 = 0x14a
)

// Absolute axes.
const (
	AbsX        uint16 = 0x00
	AbsY        uint16 = 0x01
	AbsPressure uint16 = 0x18
	AbsDistance uint16 = 0x19

	AbsMTSlot        uint16 = 0x2f
	AbsMTTouchMajor  uint16 = 0x30
	AbsMTTouchMinor  uint16 = 0x31
	AbsMTOrientation uint16 = 0x34
	AbsMTPositionX   uint16 = 0x35
	AbsMTPositionY   uint16 = 0x36
	AbsMTTrackingID  uint16 = 0x39
	AbsMTPressure    uint16 = 0x3a
)

// Keyboard codes (linux/input-event-codes.h).
const (
	KeyEsc        uint16 = 1
	Key1          uint16 = 2
	Key2          uint16 = 3
	Key3          uint16 = 4
	Key4          uint16 = 5
	Key5          uint16 = 6
	Key6          uint16 = 7
	Key7          uint16 = 8
	Key8          uint16 = 9
	Key9          uint16 = 10
	Key0          uint16 = 11
	KeyMinus      uint16 = 12
	KeyEqual      uint16 = 13
	KeyBackspace  uint16 = 14
	KeyTab        uint16 = 15
	KeyQ          uint16 = 16
	KeyW          uint16 = 17
	KeyE          uint16 = 18
	KeyR          uint16 = 19
	KeyT          uint16 = 20
	KeyY          uint16 = 21
	KeyU          uint16 = 22
	KeyI          uint16 = 23
	KeyO          uint16 = 24
	KeyP          uint16 = 25
	KeyLeftBrace  uint16 = 26
	KeyRightBrace uint16 = 27
	KeyEnter      uint16 = 28
	KeyLeftCtrl   uint16 = 29
	KeyA          uint16 = 30
	KeyS          uint16 = 31
	KeyD          uint16 = 32
	KeyF          uint16 = 33
	KeyG          uint16 = 34
	KeyH          uint16 = 35
	KeyJ          uint16 = 36
	KeyK          uint16 = 37
	KeyL          uint16 = 38
	KeySemicolon  uint16 = 39
	KeyApostrophe uint16 = 40
	KeyGrave      uint16 = 41
	KeyLeftShift  uint16 = 42
	KeyBackslash  uint16 = 43
	KeyZ          uint16 = 44
	KeyX          uint16 = 45
	KeyC          uint16 = 46
	KeyV          uint16 = 47
	KeyB          uint16 = 48
	KeyN          uint16 = 49
	KeyM          uint16 = 50
	KeyComma      uint16 = 51
	KeyDot        uint16 = 52
	KeySlash      uint16 = 53
	KeyLeftAlt    uint16 = 56
	KeySpace      uint16 = 57
)
