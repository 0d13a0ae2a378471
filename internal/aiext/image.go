package aiext

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/eventpipe/event"
	"github.com/hazyhaar/eventpipe/internal/llm"
	"github.com/hazyhaar/eventpipe/internal/ocr"
)

// maxImageDim is the longest edge sent to the vision model; larger inputs are
// downscaled to keep request size and latency bounded.
const maxImageDim = 2000

// Image extracts events from a photographed or scanned calendar. The image is
// rendered into preprocessed variants (built concurrently), an OCR pass adds
// line-level text hints when an engine is configured, and everything goes to
// the vision model in a single completion call.
func (x *Extractor) Image(ctx context.Context, data []byte, mimeType string) ([]event.Event, int, error) {
	if x.Completer == nil {
		return nil, 0, fmt.Errorf("aiext: no completion client")
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("decode image: %w", err)
	}

	variants, err := buildVariants(ctx, src)
	if err != nil {
		return nil, 0, err
	}

	ocrLines := x.recognizeLines(ctx, data, mimeType)

	resp, err := x.Completer.Complete(ctx, llm.Request{
		System:    llm.ImageSystem,
		Prompt:    llm.ImagePrompt(ocrLines),
		Images:    variants,
		MaxTokens: x.maxResponse(),
	})
	if err != nil {
		return nil, 0, err
	}
	tokens := resp.TokensUsed

	payload, repairTokens, err := llm.ParseEventsOrRepair(ctx, x.Completer, resp.Text)
	tokens += repairTokens
	if err != nil {
		return nil, tokens, err
	}

	events := Sanitize(payload.Events)
	x.logger().Debug("image extraction complete",
		"variants", len(variants), "ocr_lines", len(ocrLines),
		"events", len(events), "tokens", tokens)
	return events, tokens, nil
}

// recognizeLines runs the optional OCR pass. OCR is a hint channel only: any
// failure degrades to a vision-only request rather than failing the image.
func (x *Extractor) recognizeLines(ctx context.Context, data []byte, mimeType string) []string {
	if x.OCR == nil {
		return nil
	}
	engine, err := x.OCR()
	if err != nil {
		x.logger().Warn("ocr engine unavailable", "error", err)
		return nil
	}
	defer engine.Close()

	res, err := engine.Recognize(ctx, data, mimeType)
	if err != nil {
		x.logger().Warn("ocr failed, continuing without text hints", "error", err)
		return nil
	}
	return ocr.Lines(res)
}

// buildVariants produces the preprocessed renditions sent alongside the
// original framing: a normalized base (downscaled if oversized), a
// grayscale/contrast-stretched variant, and a margin crop. Variants are
// encoded concurrently; order in the result is stable.
func buildVariants(ctx context.Context, src image.Image) ([]llm.ImagePart, error) {
	base := downscale(src, maxImageDim)

	renditions := []image.Image{
		base,
		stretchContrast(grayscale(base)),
		cropMargins(base, 0.04),
	}

	parts := make([]llm.ImagePart, len(renditions))
	g, _ := errgroup.WithContext(ctx)
	for i, img := range renditions {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return fmt.Errorf("encode variant %d: %w", i, err)
			}
			parts[i] = llm.ImagePart{MIMEType: "image/png", Data: buf.Bytes()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

// downscale resizes so the longest edge is at most maxDim, preserving aspect.
func downscale(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDim {
		return src
	}
	scale := float64(maxDim) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// stretchContrast remaps gray levels so the darkest pixel becomes 0 and the
// brightest 255, which helps with washed-out photos of whiteboards and paper.
func stretchContrast(src *image.Gray) *image.Gray {
	b := src.Bounds()
	lo, hi := uint8(255), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := src.GrayAt(x, y).Y
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		return src
	}
	dst := image.NewGray(b)
	span := float64(hi - lo)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(src.GrayAt(x, y).Y-lo) / span * 255
			dst.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return dst
}

// cropMargins removes a uniform border fraction from each edge, trimming
// photo backgrounds around the document.
func cropMargins(src image.Image, frac float64) image.Image {
	b := src.Bounds()
	dx := int(float64(b.Dx()) * frac)
	dy := int(float64(b.Dy()) * frac)
	inner := image.Rect(b.Min.X+dx, b.Min.Y+dy, b.Max.X-dx, b.Max.Y-dy)
	if inner.Dx() <= 0 || inner.Dy() <= 0 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, inner.Dx(), inner.Dy()))
	draw.Draw(dst, dst.Bounds(), src, inner.Min, draw.Src)
	return dst
}
