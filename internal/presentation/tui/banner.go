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
	{`                  __     _           _   `, "#f87171"},
	{`  _ __ ___ _ __  / _| ___| |__   ___ | |_ `, "#fb923c"},
	{` | '__/ _ \ '_ \| |_ / _ \ '_ \ / _ \| __|`, "#fbbf24"},
	{` | | |  __/ | | |  _|  __/ |_) | (_) | |_ `, "#a78bfa"},
	{` |_|  \___|_| |_|_|  \___|_.__/ \___/ \__|`, "#818cf8"},
}

// PrintBanner writes the renfebot banner to w, coloured when w supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w)
}
