// Command wmark applies visible and invisible watermarks to an image file,
// or recovers a hidden message from one.
//
//	wmark -in base.png -out ./out -text "© AICU" -message "hidden" -logo logo.png
//	wmark -extract -in marked.png
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/disintegration/imaging"

	watermark "github.com/aicuai/comfyui-save-image-watermark"
	"github.com/aicuai/comfyui-save-image-watermark/internal/metrics"
	"github.com/aicuai/comfyui-save-image-watermark/pixel"
	"github.com/aicuai/comfyui-save-image-watermark/save"
)

func main() {
	var (
		in      = flag.String("in", "", "input image path")
		extract = flag.Bool("extract", false, "recover a hidden message instead of embedding")
		maxLen  = flag.Int("max-length", 1000, "maximum hidden message length in bytes")

		out     = flag.String("out", "output", "output directory")
		prefix  = flag.String("prefix", "aicuty", "output filename prefix")
		format  = flag.String("format", "png", "output format: png or jpeg (only png keeps the invisible layer)")
		quality = flag.Int("quality", 95, "jpeg quality")

		text     = flag.String("text", "", "visible text watermark")
		color    = flag.String("text-color", "#FFFFFF", "text color as a hex triple")
		position = flag.String("position", "bottom_right", "watermark position (bottom_right, bottom_left, top_right, top_left, center, tile)")
		opacity  = flag.Float64("opacity", 0.9, "watermark opacity in [0, 1]")

		logoPath = flag.String("logo", "", "logo image path")
		maskPath = flag.String("mask", "", "logo mask image path")
		invert   = flag.Bool("invert-mask", false, "treat mask value 255 as excluded")
		scale    = flag.Float64("scale", 0.15, "logo width as a fraction of the base width")

		message  = flag.String("message", "", "invisible message to embed")
		metadata = flag.String("metadata", "", "workflow JSON to store alongside the image")
	)
	flag.Parse()

	if *in == "" {
		log.Fatal("missing -in")
	}
	src, err := imaging.Open(*in)
	if err != nil {
		log.Fatalf("open %s: %v", *in, err)
	}
	base := pixel.FromImage(src)

	if *extract {
		res := watermark.ExtractDetail(base, *maxLen)
		if !res.Found {
			log.Printf("terminator not found; result may be truncated or garbage")
		}
		fmt.Println(res.Message)
		return
	}

	pos, err := watermark.ParsePosition(*position)
	if err != nil {
		log.Fatal(err)
	}

	var logo *watermark.LogoConfig
	if *logoPath != "" {
		img, err := imaging.Open(*logoPath)
		if err != nil {
			log.Fatalf("open %s: %v", *logoPath, err)
		}
		logo = &watermark.LogoConfig{
			Overlay:    pixel.FromImage(img),
			InvertMask: *invert,
			Scale:      *scale,
			Position:   pos,
			Opacity:    *opacity,
		}
		if *maskPath != "" {
			img, err := imaging.Open(*maskPath)
			if err != nil {
				log.Fatalf("open %s: %v", *maskPath, err)
			}
			logo.Mask = pixel.MaskFromImage(img)
		}
	}

	var textCfg *watermark.TextConfig
	if *text != "" {
		textCfg = &watermark.TextConfig{
			Text:     *text,
			Color:    *color,
			Position: pos,
			Opacity:  *opacity,
			Enabled:  true,
		}
	}

	var invisible *watermark.InvisibleConfig
	if *message != "" {
		invisible = &watermark.InvisibleConfig{Message: *message, Enabled: true}
	}

	saver, err := save.NewFileSaver(*out)
	if err != nil {
		log.Fatal(err)
	}
	p, err := watermark.New(
		watermark.WithSaver(saver),
		watermark.WithMetadataWriter(&save.SidecarWriter{Dir: *out}),
	)
	if err != nil {
		log.Fatal(err)
	}

	res, err := p.RunAndSave(base, logo, textCfg, invisible, watermark.SaveRequest{
		Prefix:       *prefix,
		Format:       parseFormat(*format),
		Quality:      *quality,
		MetadataJSON: *metadata,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("saved:", res.Filename)
	fmt.Println("content_hash:", res.ContentHash)
	if psnr, err := metrics.PSNR(base, res.Image); err == nil {
		fmt.Printf("psnr: %.2f dB\n", psnr)
	}
}

func parseFormat(s string) imaging.Format {
	switch strings.ToLower(s) {
	case "jpeg", "jpg":
		return imaging.JPEG
	default:
		return imaging.PNG
	}
}
