// Package geom maps between logical screen pixels and the native coordinate
// ranges reported by the tablet's pen digitizer and touch panel.
//
// ScreenPoint and DevicePoint are distinct types; Mapper is the only place
// that converts between them.
package geom
