package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _____           _             ", "#818cf8"},
	{" |_   _|   _ _ __(_)_ __   __ _ ", "#a78bfa"},
	{"   | || | | | '__| | '_ \\ / _` |", "#c084fc"},
	{"   | || |_| | |  | | | | | (_| |", "#e879f9"},
	{"   |_| \\__,_|_|  |_|_| |_|\\__, |", "#f472b6"},
	{"                          |___/ ", "#fb7185"},
}

// PrintBanner writes the ASCII art banner, colored when profile allows it.
func PrintBanner(w io.Writer, profile termenv.Profile) {
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		if profile == termenv.Ascii {
			fmt.Fprintln(w, line.text)
			continue
		}
		fmt.Fprintln(w, profile.String(line.text).Foreground(profile.Color(line.color)))
	}
	fmt.Fprintln(w)
}
