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

// Nitf2png converts an image segment of a NITF file to PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"seehuhn.de/go/nitf"
	"seehuhn.de/go/nitf/imageio"
	_ "seehuhn.de/go/nitf/imageio/bilevel"
	_ "seehuhn.de/go/nitf/imageio/jpeg"
	"seehuhn.de/go/nitf/internal/buildinfo"
	"seehuhn.de/go/nitf/internal/profile"
)

func main() {
	index := flag.Int("image", 0, "index of the image segment (0-based)")
	bandList := flag.String("bands", "", "comma-separated list of bands to use, e.g. \"2,1,0\"")
	skip := flag.Int("skip", 1, "down-sample by taking the maximum of `n`x`n` pixels")
	scale := flag.Float64("scale", 1, "scale the output by this factor")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] input.ntf output.png\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Short("nitf2png"))
		return
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opt := &options{
		index: *index,
		skip:  *skip,
		scale: *scale,
	}
	if *bandList != "" {
		opt.bands, err = parseBands(*bandList)
	}
	if err == nil {
		err = convert(flag.Arg(0), flag.Arg(1), opt)
	}
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "nitf2png:", err)
		os.Exit(1)
	}
}

type options struct {
	index int
	bands []int
	skip  int
	scale float64
}

func convert(inName, outName string, opt *options) error {
	fd, err := os.Open(inName)
	if err != nil {
		return err
	}
	defer fd.Close()

	rec, _, err := nitf.Read(fd, &nitf.ReaderOptions{DeferData: true})
	if err != nil {
		return err
	}
	if opt.index < 0 || opt.index >= len(rec.Images) {
		return fmt.Errorf("image %d not found (%d image segments)", opt.index, len(rec.Images))
	}
	seg := rec.Images[opt.index]
	r, err := seg.NewReader()
	if err != nil {
		return err
	}
	defer r.Close()
	g := r.Geometry()

	bands := opt.bands
	if bands == nil {
		bands = []int{0}
		if g.Bands >= 3 {
			bands = []int{0, 1, 2}
		}
	}
	if len(bands) != 1 && len(bands) != 3 {
		return errors.New("one or three bands are needed")
	}

	w := &imageio.Window{Rows: g.Rows, Cols: g.Cols, Bands: bands}
	if opt.skip > 1 {
		w.Sampler = imageio.MaxDownSample{RowSkip: opt.skip, ColSkip: opt.skip}
	}
	planes, rows, cols, err := r.ReadWindow(w)
	if err != nil {
		return err
	}
	img := toImage(planes, rows, cols, g.BitsPerPixel)

	if opt.scale != 1 {
		if opt.scale <= 0 {
			return fmt.Errorf("invalid scale factor %g", opt.scale)
		}
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0,
			max(1, int(float64(b.Dx())*opt.scale+0.5)),
			max(1, int(float64(b.Dy())*opt.scale+0.5))))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	out, err := os.Create(outName)
	if err != nil {
		return err
	}
	err = png.Encode(out, img)
	if err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// toImage converts planes of samples to an 8-bit image.  Samples are
// reduced to their eight most significant bits; bi-level samples are
// stretched to black and white.
func toImage(planes [][]byte, rows, cols, bitsPerPixel int) image.Image {
	bpp := (bitsPerPixel + 7) / 8
	sample := func(plane []byte, i int) uint8 {
		var v uint64
		for _, b := range plane[i*bpp : (i+1)*bpp] {
			v = v<<8 | uint64(b)
		}
		switch {
		case bitsPerPixel == 1:
			return uint8(v * 255)
		case bitsPerPixel < 8:
			return uint8(v << (8 - bitsPerPixel))
		default:
			return uint8(v >> (bitsPerPixel - 8))
		}
	}

	rect := image.Rect(0, 0, cols, rows)
	if len(planes) == 1 {
		img := image.NewGray(rect)
		for i := range rows * cols {
			img.Pix[i] = sample(planes[0], i)
		}
		return img
	}

	img := image.NewRGBA(rect)
	for i := range rows * cols {
		img.Pix[4*i+0] = sample(planes[0], i)
		img.Pix[4*i+1] = sample(planes[1], i)
		img.Pix[4*i+2] = sample(planes[2], i)
		img.Pix[4*i+3] = 255
	}
	return img
}

func parseBands(s string) ([]int, error) {
	var res []int
	for _, f := range strings.Split(s, ",") {
		b, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || b < 0 {
			return nil, fmt.Errorf("invalid band %q", f)
		}
		res = append(res, b)
	}
	return res, nil
}
