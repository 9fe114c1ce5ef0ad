// Package keypad implements the 16-key input device.
package keypad

import "fmt"

// KeyCount is the number of keys on the pad, labeled 0x0 through 0xF.
const KeyCount = 16

// Keypad holds the down/up state of each key.
type Keypad struct {
	state [KeyCount]bool
}

// New creates a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// Press marks the given key as held down.
func (k *Keypad) Press(key int) {
	check(key)
	k.state[key] = true
}

// Release marks the given key as released.
func (k *Keypad) Release(key int) {
	check(key)
	k.state[key] = false
}

// IsDown returns whether the given key is currently held.
func (k *Keypad) IsDown(key int) bool {
	check(key)
	return k.state[key]
}

// FirstDown returns the lowest key index currently held, without changing
// any state. Returns false if no key is down.
func (k *Keypad) FirstDown() (int, bool) {
	for key, down := range k.state {
		if down {
			return key, true
		}
	}
	return 0, false
}

func check(key int) {
	if key < 0 || key >= KeyCount {
		panic(fmt.Sprintf("keypad: %X is not a key on the keypad", key))
	}
}
