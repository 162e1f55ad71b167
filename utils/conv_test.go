package utils

import "testing"

func TestBytesToString(t *testing.T) {
	tests := []struct {
		in  []byte
		out string
	}{
		{[]byte("walls"), "walls"},
		{[]byte("room\x00junk"), "room"},
		{[]byte{}, ""},
		// 0xe9 is e-acute in the default windows-1252 table
		{[]byte{'c', 'a', 'f', 0xe9}, "café"},
	}
	for _, test := range tests {
		if got := BytesToString(test.in); got != test.out {
			t.Errorf("BytesToString(%v)=%q; expected %q", test.in, got, test.out)
		}
	}
}
