// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package linescope

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestEncodePNG(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts PNGOpts
		want image.Point
	}{
		{
			name: "default size",
			want: image.Point{X: 2*pngPad + pngCell*len(testEvents), Y: 120},
		},
		{
			name: "explicit size",
			opts: PNGOpts{W: 640, H: 240},
			want: image.Point{X: 640, Y: 240},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodePNG(&buf, testEvents, &tc.opts); err != nil {
				t.Fatalf("EncodePNG() failed: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("decoding output failed: %v", err)
			}
			if got := img.Bounds().Size(); got != tc.want {
				t.Errorf("image size %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEncodePNG_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, nil, &PNGOpts{}); err == nil {
		t.Fatal("EncodePNG() must reject an empty event log")
	}
}

func TestParseFace(t *testing.T) {
	face, err := ParseFace(goregular.TTF, 12)
	if err != nil {
		t.Fatalf("ParseFace() failed: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, testEvents, &PNGOpts{Face: face}); err != nil {
		t.Fatalf("EncodePNG() with a TTF face failed: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decoding output failed: %v", err)
	}
}

func TestParseFace_fail(t *testing.T) {
	if _, err := ParseFace([]byte("not a font"), 12); err == nil {
		t.Fatal("ParseFace() must reject junk")
	}
}
