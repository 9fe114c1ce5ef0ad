package keypad

import (
	"testing"

	"github.com/matryer/is"
)

func TestPressRelease(t *testing.T) {
	is := is.New(t)

	k := New()
	is.True(!k.IsDown(0xa))

	k.Press(0xa)
	is.True(k.IsDown(0xa))
	is.True(!k.IsDown(0xb))

	k.Release(0xa)
	is.True(!k.IsDown(0xa))
}

func TestFirstDown(t *testing.T) {
	is := is.New(t)

	k := New()
	_, ok := k.FirstDown()
	is.True(!ok)

	k.Press(0x7)
	k.Press(0x3)

	// The lowest held key wins, and querying does not release anything.
	key, ok := k.FirstDown()
	is.True(ok)
	is.Equal(key, 0x3)
	is.True(k.IsDown(0x3) && k.IsDown(0x7))

	k.Release(0x3)
	key, ok = k.FirstDown()
	is.True(ok)
	is.Equal(key, 0x7)
}

func TestKeyOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an out-of-range key")
		}
	}()

	New().Press(16)
}
