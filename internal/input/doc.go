// Package input injects synthetic events into the Linux input subsystem.
//
// Events are written as kernel input_event records either to an existing
// evdev node (the pen digitizer, the touch panel) or to a uinput virtual
// device created at startup (the keyboard). Three emulators sit on top:
// Pen, Touch and Keyboard.
//
// Any failed write is fatal to the operation in progress and surfaces as
// ErrDeviceIO. Callers keep drawing structured as up, down, moves, up so a
// failure never leaves the pen down on purpose.
package input
