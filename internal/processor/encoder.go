package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	_ "image/jpeg"
	_ "image/png"
)

// Profile is one fixed output preset: exact pixel dimensions and the
// WebP quality used for that size.
type Profile struct {
	Name    string
	Width   int
	Height  int
	Quality float32
}

// Profiles is the fixed, ordered output set. Every successfully
// processed source must yield exactly one variant per profile. The
// first profile is the listing size and carries the primary flag.
var Profiles = []Profile{
	{Name: "thumb", Width: 150, Height: 150, Quality: 75},
	{Name: "small", Width: 300, Height: 300, Quality: 80},
	{Name: "medium", Width: 600, Height: 600, Quality: 85},
	{Name: "large", Width: 1200, Height: 1200, Quality: 90},
}

// PrimaryProfile is the profile whose variant is marked is_primary for
// sequence index 1.
const PrimaryProfile = "thumb"

// OutputExt is the extension of every encoded variant.
const OutputExt = ".webp"

// Encoded is one finished variant buffer, keyed by profile name.
type Encoded struct {
	Profile Profile
	Data    []byte
}

// EncodeAll decodes src and produces one WebP buffer per profile,
// center-cropped to the exact target dimensions. All-or-nothing: any
// profile failure discards the whole set so a partial group can never
// reach the uploader.
func EncodeAll(src []byte) ([]Encoded, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}

	out := make([]Encoded, 0, len(Profiles))
	for _, p := range Profiles {
		data, err := encodeProfile(img, p)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", p.Name, err)
		}
		out = append(out, Encoded{Profile: p, Data: data})
	}
	return out, nil
}

// encodeProfile resizes with a cover fit (fill the target box, crop the
// overflow around the center) so output is never distorted, then
// encodes lossy WebP at the profile quality.
func encodeProfile(img image.Image, p Profile) ([]byte, error) {
	resized := imaging.Fill(img, p.Width, p.Height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
