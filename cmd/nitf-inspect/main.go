// seehuhn.de/go/nitf - a library for reading and writing NITF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Nitf-inspect shows the structure of a NITF file.
//
// Without a selector, the file header and a list of all segments are
// shown.  The selectors "header", "image N", "graphic N", "text N",
// "des N" and "res N" show all fields of one header, followed by its
// TREs.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"seehuhn.de/go/nitf"
	"seehuhn.de/go/nitf/internal/buildinfo"
	"seehuhn.de/go/nitf/internal/profile"
)

func main() {
	showWarnings := flag.Bool("warnings", false, "list problems found while reading")
	width := flag.Int("width", 0, "truncate output lines to `n` characters (default: terminal width)")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage: %s [options] file.ntf [header | image N | graphic N | text N | des N | res N]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Short("nitf-inspect"))
		return
	}
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *width == 0 {
		fd := int(os.Stdout.Fd())
		if term.IsTerminal(fd) {
			if w, _, err := term.GetSize(fd); err == nil {
				*width = w
			}
		}
	}

	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	buf := &bytes.Buffer{}
	err = inspect(buf, flag.Arg(0), flag.Args()[1:], *showWarnings)
	stop()
	writeTruncated(os.Stdout, buf.Bytes(), *width)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nitf-inspect:", err)
		os.Exit(1)
	}
}

func inspect(w io.Writer, fileName string, selector []string, showWarnings bool) error {
	fd, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer fd.Close()

	rec, warnings, err := nitf.Read(fd, &nitf.ReaderOptions{DeferData: true})
	if err != nil {
		return err
	}
	if showWarnings {
		for _, warning := range warnings {
			fmt.Fprintln(w, "warning:", warning)
		}
	}

	switch len(selector) {
	case 0:
		return summary(w, rec)
	case 1:
		if selector[0] == "header" {
			return showSubheader(w, rec.Header.Subheader, rec.Header.UserDefined(), rec.Header.Extended())
		}
		return fmt.Errorf("invalid selector %q", selector[0])
	case 2:
		idx, err := strconv.Atoi(selector[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", selector[1])
		}
		return showSegment(w, rec, selector[0], idx)
	default:
		return errors.New("too many arguments")
	}
}

func summary(w io.Writer, rec *nitf.Record) error {
	fver, _ := rec.Header.Get("FVER")
	title, _ := rec.Header.Get("FTITLE")
	fmt.Fprintf(w, "NITF %s %q\n", fver, title)
	listTREs(w, "header", rec.Header.UserDefined(), rec.Header.Extended())

	for i, img := range rec.Images {
		g, err := img.Subheader.Geometry()
		desc := "invalid geometry"
		if err == nil {
			desc = fmt.Sprintf("%dx%d, %d band(s), %d bits, %dx%d blocks, mode %s",
				g.Cols, g.Rows, g.Bands, g.BitsPerPixel, g.BlocksPerRow, g.BlocksPerCol, g.Mode)
		}
		fmt.Fprintf(w, "image %d: %s, IC %s, %d bytes at %d\n",
			i, desc, img.Subheader.Compression(), img.Length, img.Offset)
		listTREs(w, "  ", img.Subheader.UserDefined(), img.Subheader.Extended())
	}
	for i, s := range rec.Graphics {
		name, _ := s.Subheader.Get("SNAME")
		fmt.Fprintf(w, "graphic %d: %q, %d bytes at %d\n", i, name, s.Length, s.Offset)
		listTREs(w, "  ", s.Subheader.Extended())
	}
	for i, s := range rec.Texts {
		format, _ := s.Subheader.Get("TXTFMT")
		title, _ := s.Subheader.Get("TXTITL")
		fmt.Fprintf(w, "text %d: %s %q, %d bytes at %d\n", i, format, title, s.Length, s.Offset)
		listTREs(w, "  ", s.Subheader.Extended())
	}
	for i, s := range rec.DataExtensions {
		fmt.Fprintf(w, "DES %d: %s, %d bytes at %d\n", i, s.Subheader.ID(), s.Length, s.Offset)
	}
	for i, s := range rec.Reserved {
		id, _ := s.Subheader.Get("RESID")
		fmt.Fprintf(w, "RES %d: %s, %d bytes at %d\n", i, id, s.Length, s.Offset)
	}
	return nil
}

func listTREs(w io.Writer, prefix string, sections ...*nitf.Extensions) {
	var tags []string
	for _, ext := range sections {
		for t := range ext.All() {
			tags = append(tags, t.Tag)
		}
	}
	if len(tags) > 0 {
		fmt.Fprintf(w, "%s TREs: %s\n", prefix, strings.Join(tags, " "))
	}
}

func showSegment(w io.Writer, rec *nitf.Record, kind string, idx int) error {
	outOfRange := func(n int) error {
		return fmt.Errorf("%s %d not found (%d segments)", kind, idx, n)
	}
	switch kind {
	case "image":
		if idx < 0 || idx >= len(rec.Images) {
			return outOfRange(len(rec.Images))
		}
		s := rec.Images[idx].Subheader
		return showSubheader(w, s.Subheader, s.UserDefined(), s.Extended())
	case "graphic":
		if idx < 0 || idx >= len(rec.Graphics) {
			return outOfRange(len(rec.Graphics))
		}
		s := rec.Graphics[idx].Subheader
		return showSubheader(w, s.Subheader, s.Extended())
	case "text":
		if idx < 0 || idx >= len(rec.Texts) {
			return outOfRange(len(rec.Texts))
		}
		seg := rec.Texts[idx]
		if err := showSubheader(w, seg.Subheader.Subheader, seg.Subheader.Extended()); err != nil {
			return err
		}
		text, err := seg.Text()
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, text)
		return nil
	case "des":
		if idx < 0 || idx >= len(rec.DataExtensions) {
			return outOfRange(len(rec.DataExtensions))
		}
		seg := rec.DataExtensions[idx]
		if !seg.IsOverflow() {
			return showSubheader(w, seg.Subheader.Subheader)
		}
		ext, _, err := seg.Overflow()
		if err != nil {
			return err
		}
		return showSubheader(w, seg.Subheader.Subheader, ext)
	case "res":
		if idx < 0 || idx >= len(rec.Reserved) {
			return outOfRange(len(rec.Reserved))
		}
		return showSubheader(w, rec.Reserved[idx].Subheader.Subheader)
	}
	return fmt.Errorf("unknown segment type %q", kind)
}

func showSubheader(w io.Writer, s *nitf.Subheader, sections ...*nitf.Extensions) error {
	if err := s.Print(w); err != nil {
		return err
	}
	for _, ext := range sections {
		for t := range ext.All() {
			fmt.Fprintf(w, "\n%s (%s):\n", t.Tag, t.DescriptionName())
			if err := t.Print(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeTruncated copies the lines of text to w, shortening lines longer
// than width characters.  A width of 0 disables truncation.
func writeTruncated(w io.Writer, text []byte, width int) {
	for len(text) > 0 {
		line := text
		if i := bytes.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			text = nil
		}
		if width > 3 && utf8.RuneCount(line) > width {
			line = truncate(line, width-3)
			line = append(line, "..."...)
		}
		w.Write(line)
		w.Write([]byte{'\n'})
	}
}

// truncate returns the first n runes of line, as a new slice.
func truncate(line []byte, n int) []byte {
	pos := 0
	for i := 0; i < n && pos < len(line); i++ {
		_, size := utf8.DecodeRune(line[pos:])
		pos += size
	}
	return bytes.Clone(line[:pos])
}
