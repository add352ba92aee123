package flatrecord

import (
	"testing"
)

func TestParsePadDirection(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want PadDirection
		ok   bool
	}{
		{"", PadRight, true},
		{"right", PadRight, true},
		{"left", PadLeft, true},
		{"LEFT", PadLeft, true},
		{"both", PadBoth, true},
		{"center", PadDirection(-1), false},
	} {
		t.Run(tt.in, func(t *testing.T) {
			have, ok := ParsePadDirection(tt.in)
			if ok != tt.ok {
				t.Errorf("ParsePadDirection() ok want %v, have %v", tt.ok, ok)
			}
			if have != tt.want {
				t.Errorf("ParsePadDirection() want %v, have %v", tt.want, have)
			}
		})
	}
}

func TestPadDirection_pad(t *testing.T) {
	for _, tt := range []struct {
		name   string
		dir    PadDirection
		s      string
		length int
		want   string
	}{
		{"right", PadRight, "X", 5, "X####"},
		{"left", PadLeft, "X", 5, "####X"},
		{"both", PadBoth, "X", 5, "##X##"},
		{"both uneven", PadBoth, "XY", 5, "#XY##"},
		{"exact", PadLeft, "XXXXX", 5, "XXXXX"},
		{"too long", PadRight, "XXXXXX", 5, "XXXXXX"},
		{"empty", PadRight, "", 3, "###"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if have := tt.dir.pad(tt.s, tt.length, '#'); have != tt.want {
				t.Errorf("pad() want %q, have %q", tt.want, have)
			}
		})
	}
}

func TestPadDirection_unpad(t *testing.T) {
	for _, tt := range []struct {
		name string
		dir  PadDirection
		s    string
		want string
	}{
		{"right", PadRight, "X####", "X"},
		{"right keeps leading", PadRight, "##X##", "##X"},
		{"left", PadLeft, "####X", "X"},
		{"left keeps trailing", PadLeft, "##X##", "X##"},
		{"both", PadBoth, "##X##", "X"},
		{"all padding", PadBoth, "#####", ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if have := tt.dir.unpad(tt.s, '#'); have != tt.want {
				t.Errorf("unpad() want %q, have %q", tt.want, have)
			}
		})
	}
}

func TestPadDirection_truncate(t *testing.T) {
	for _, tt := range []struct {
		name   string
		dir    PadDirection
		s      string
		length int
		want   string
	}{
		{"right keeps left", PadRight, "X1111111", 5, "X1111"},
		{"left keeps right", PadLeft, "1111111111111X", 5, "1111X"},
		{"both keeps center", PadBoth, "1111111X1111111", 5, "11X11"},
		{"both odd excess", PadBoth, "abcdefgh", 5, "bcdef"},
		{"short", PadLeft, "abc", 5, "abc"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if have := tt.dir.truncate(tt.s, tt.length); have != tt.want {
				t.Errorf("truncate() want %q, have %q", tt.want, have)
			}
		})
	}
}

func TestPadDirection_String(t *testing.T) {
	for d, want := range map[PadDirection]string{
		PadRight:         "right",
		PadLeft:          "left",
		PadBoth:          "both",
		PadDirection(42): "invalid",
	} {
		if have := d.String(); have != want {
			t.Errorf("String() want %q, have %q", want, have)
		}
	}
}
