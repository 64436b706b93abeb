// Package gui is the raylib window driver: it renders the arena and its
// particles, turns the mouse and held keys into spawns and controls, and
// advances the simulation by the measured frame time.
package gui
