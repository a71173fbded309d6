package helper

import (
	"bytes"
	"fmt"
	"image"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const MaxReceiptSize = 5 * 1024 * 1024 // 5MB

var receiptExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".pdf":  {},
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

type ReceiptUpload struct {
	Path          string
	URL           string
	Filename      string
	ThumbnailPath string
}

// SaveReceipt validates and stores a bank-transfer receipt under
// <uploadsDir>/bank-transfer-receipts/<requester>/. Images additionally get a
// webp thumbnail next to the original; PDFs are stored as-is.
func SaveReceipt(uploadsDir string, requesterID string, fileHeader *multipart.FileHeader) (*ReceiptUpload, error) {
	if fileHeader.Size > MaxReceiptSize {
		return nil, fmt.Errorf("receipt exceeds 5MB (%d bytes)", fileHeader.Size)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := receiptExts[ext]; !ok {
		return nil, fmt.Errorf("unsupported receipt type %q (jpg, png, pdf only)", ext)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open receipt: %w", err)
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	sanitized := filenameSanitizer.ReplaceAllString(fileHeader.Filename, "_")
	name := fmt.Sprintf("%d_%s_%s", time.Now().Unix(), uuid.NewString()[:8], sanitized)

	dir := filepath.Join(uploadsDir, "bank-transfer-receipts", requesterID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}

	fullPath := filepath.Join(dir, name)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write receipt: %w", err)
	}

	up := &ReceiptUpload{
		Path:     fullPath,
		URL:      "/uploads/bank-transfer-receipts/" + requesterID + "/" + name,
		Filename: fileHeader.Filename,
	}

	if ext != ".pdf" {
		// An undecodable "image" is rejected outright; the stored file is
		// removed so no unverifiable receipt survives.
		img, err := imaging.Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			_ = os.Remove(fullPath)
			return nil, fmt.Errorf("decode receipt image: %w", err)
		}
		if thumbPath, err := writeThumbnail(dir, name, img); err == nil {
			up.ThumbnailPath = thumbPath
		}
	}

	return up, nil
}

func writeThumbnail(dir, name string, img image.Image) (string, error) {
	thumb := imaging.Fit(img, 320, 320, imaging.Lanczos)
	out := new(bytes.Buffer)
	if err := webp.Encode(out, thumb, &webp.Options{Quality: 75}); err != nil {
		return "", err
	}
	thumbPath := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+"_thumb.webp")
	if err := os.WriteFile(thumbPath, out.Bytes(), 0o644); err != nil {
		return "", err
	}
	return thumbPath, nil
}
