package snapshot

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/sync/errgroup"
)

// EncodeWebP writes img to w as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("snapshot: webp encode: %w", err)
	}
	return nil
}

// Frame is one rendered image and the base name it is written under.
type Frame struct {
	Name  string
	Image image.Image
}

// WriteWebP encodes img to path, creating parent directories.
func WriteWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := EncodeWebP(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeFrames writes every frame to dir/<Name>.webp using up to workers
// goroutines (GOMAXPROCS when zero). The first error cancels the rest.
// Frames must already be rendered; skeletons are not safe to share across
// goroutines.
func EncodeFrames(ctx context.Context, dir string, frames []Frame, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, fr := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return WriteWebP(filepath.Join(dir, fr.Name+".webp"), fr.Image)
		})
	}
	return g.Wait()
}
