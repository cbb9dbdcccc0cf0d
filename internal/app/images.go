package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"driftboard/internal/card"
	"driftboard/internal/geom"
	"driftboard/internal/remote"
)

const (
	// pasteMaxSide caps a pasted image's displayed size; larger
	// bitmaps keep their aspect.
	pasteMaxSide = 400
	// Fallback card size when the pasted bytes fail to decode.
	fallbackImageW = 200
	fallbackImageH = 150
)

// fetchImage resolves a stored object path to pixels: signed URL,
// download, decode. It backs the image cache and runs off the UI
// goroutine.
func (a *App) fetchImage(ctx context.Context, src string) (image.Image, error) {
	u := src
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		if !a.client.Ready() {
			return nil, remote.ErrNotReady
		}
		signed, err := a.client.SignedURL(ctx, src, remote.SignedURLTTL)
		if err != nil {
			return nil, err
		}
		u = signed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// displaySize fits the image's bounds under pasteMaxSide.
func displaySize(b image.Rectangle) (float64, float64) {
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w <= 0 || h <= 0 {
		return fallbackImageW, fallbackImageH
	}
	longer := w
	if h > longer {
		longer = h
	}
	if longer > pasteMaxSide {
		f := pasteMaxSide / longer
		w *= f
		h *= f
	}
	return w, h
}

// shrinkForUpload rescales oversized bitmaps before they go to
// storage, so a screenshot paste does not upload megapixels.
func shrinkForUpload(img image.Image) image.Image {
	b := img.Bounds()
	w, h := displaySize(b)
	if int(w) >= b.Dx() && int(h) >= b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// uploadedImage is the result of a background storage upload, drained
// by Update on the UI goroutine.
type uploadedImage struct {
	world geom.Vec
	src   string
	img   image.Image
	w, h  float64
	err   error
}

// addImageCard creates an image card at the world point from raw
// clipboard or file bytes. On a local board the card appears at once;
// with a backend the bytes are uploaded first and the card is created
// only when the object exists, so a failed upload never persists a row
// pointing at nothing.
func (a *App) addImageCard(world geom.Vec, data []byte) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		a.log.Warn("pasted image does not decode", "err", err)
		c := card.NewImage(card.NewID(), "local/"+uuid.NewString()+".png",
			world, fallbackImageW, fallbackImageH)
		a.store.Add(c)
		return
	}

	w, h := displaySize(img.Bounds())
	name := uuid.NewString() + ".png"

	if !a.client.Ready() {
		src := "local/" + name
		a.cache.Put(src, img)
		c := card.NewImage(card.NewID(), src, world, w, h)
		a.store.Add(c)
		return
	}

	src := a.client.UserID() + "/" + name
	upload := data
	contentType := "image/" + format
	if small := shrinkForUpload(img); small != img || format == "gif" {
		var buf bytes.Buffer
		if encErr := png.Encode(&buf, small); encErr == nil {
			upload = buf.Bytes()
			contentType = "image/png"
		}
	}
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, requestTimeout)
		defer cancel()
		res := uploadedImage{world: world, src: src, img: img, w: w, h: h}
		res.err = a.client.UploadObject(ctx, src, upload, contentType)
		select {
		case a.uploaded <- res:
		case <-a.ctx.Done():
		}
	}()
}

// drainUploads finishes image pastes whose upload completed: success
// creates and saves the card, failure only toasts.
func (a *App) drainUploads() {
	for {
		select {
		case up := <-a.uploaded:
			if up.err != nil {
				a.log.Error("upload image", "src", up.src, "err", up.err)
				a.showToast("Image upload failed")
				continue
			}
			a.cache.Put(up.src, up.img)
			c := card.NewImage(card.NewID(), up.src, up.world, up.w, up.h)
			a.store.Add(c)
			a.scheduleSave(c)
		default:
			return
		}
	}
}
