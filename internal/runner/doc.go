// Package runner drives trigger cycles.
//
// Flow per cycle:
//
//	wait for trigger -> capture -> content(prompt, annotations, image) -> execute -> tool output
//
// Cycles never overlap. Progress marks are cleared on every exit path.
package runner
