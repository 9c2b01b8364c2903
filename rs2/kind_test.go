package rs2

import "testing"

func TestParseProductLine(t *testing.T) {
	cases := []struct {
		in   string
		want ProductLine
	}{
		{"D400", ProductLineD400},
		{"L500", ProductLineL500},
		{"SR300", ProductLineSR300},
		{"T200", ProductLineT200},
	}
	for _, c := range cases {
		got, err := ParseProductLine(c.in)
		if err != nil {
			t.Fatalf("ParseProductLine(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseProductLine(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseProductLine("D999"); err == nil {
		t.Fatal("ParseProductLine accepted an unknown line")
	}
}

func TestFormatBitsPerPixel(t *testing.T) {
	cases := []struct {
		format Format
		bits   int
	}{
		{FormatZ16, 16},
		{FormatY8, 8},
		{FormatY16, 16},
		{FormatRgb8, 24},
		{FormatRgba8, 32},
		{FormatBgr8, 24},
		{FormatBgra8, 32},
		{FormatYuyv, 16},
	}
	for _, c := range cases {
		if got := c.format.BitsPerPixel(); got != c.bits {
			t.Fatalf("%s.BitsPerPixel() = %d, want %d", c.format, got, c.bits)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	if s := StreamDepth.String(); s != "depth" {
		t.Fatalf("StreamDepth.String() = %q", s)
	}
	if s := FormatZ16.String(); s != "z16" {
		t.Fatalf("FormatZ16.String() = %q", s)
	}
	if s := InfoSerialNumber.String(); s == "" {
		t.Fatal("InfoSerialNumber has no string form")
	}
	if s := ExtensionL500DepthSensor.String(); s == "" {
		t.Fatal("ExtensionL500DepthSensor has no string form")
	}
}
