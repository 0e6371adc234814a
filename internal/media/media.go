package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"listwise/internal/services"
)

// EncodedSizeRatio approximates decoded bytes per data-URI character. It
// ignores the "data:<type>;base64," prefix and padding, so estimates are
// slightly high for small fragments. Budget decisions depend on this exact
// ratio; do not replace it with a byte-exact count.
const EncodedSizeRatio = 0.75

// File is a local media file selected for upload.
type File struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
}

// Stat describes the file at path without reading its contents beyond the
// first 512 bytes needed for content sniffing when the extension is unknown.
func Stat(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, services.Wrap(services.ErrMediaProcessing, "media", "stat", path, err)
	}
	if info.IsDir() {
		return File{}, services.Wrap(services.ErrMediaProcessing, "media", "stat", path+" is a directory", nil)
	}
	file := File{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
	}
	file.MIMEType = mimeFromExtension(path)
	if file.MIMEType == "" {
		file.MIMEType, err = sniffMIME(path)
		if err != nil {
			return File{}, services.Wrap(services.ErrMediaProcessing, "media", "sniff type", path, err)
		}
	}
	return file, nil
}

// StatAll describes every path, failing on the first unreadable one.
func StatAll(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		file, err := Stat(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// IsVideo reports whether the file carries a video MIME type.
func (f File) IsVideo() bool {
	return strings.HasPrefix(f.MIMEType, "video/")
}

var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".3gp":  "video/3gpp",
}

func mimeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t, ok := videoExtensions[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return t
	}
	return ""
}

func sniffMIME(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	detected := http.DetectContentType(head[:n])
	if mediaType, _, err := mime.ParseMediaType(detected); err == nil {
		return mediaType, nil
	}
	return detected, nil
}

// DataURI encodes payload as a base64 data URI of the given media type.
func DataURI(mediaType string, payload []byte) string {
	var b strings.Builder
	prefix := "data:" + mediaType + ";base64,"
	b.Grow(len(prefix) + base64.StdEncoding.EncodedLen(len(payload)))
	b.WriteString(prefix)
	b.WriteString(base64.StdEncoding.EncodeToString(payload))
	return b.String()
}

// DataURIMediaType returns the media type declared by a data URI, or "" when
// value is not a data URI.
func DataURIMediaType(value string) string {
	rest, ok := strings.CutPrefix(value, "data:")
	if !ok {
		return ""
	}
	header, _, found := strings.Cut(rest, ",")
	if !found {
		return ""
	}
	mediaType, _, _ := strings.Cut(header, ";")
	return mediaType
}

// EstimateEncodedBytes approximates the decoded size of an encoded fragment as
// len(fragment) * 0.75.
func EstimateEncodedBytes(fragment string) float64 {
	return float64(len(fragment)) * EncodedSizeRatio
}

// EstimateTotal sums EstimateEncodedBytes over fragments.
func EstimateTotal(fragments []string) float64 {
	total := 0.0
	for _, fragment := range fragments {
		total += EstimateEncodedBytes(fragment)
	}
	return total
}

func readAll(file File, operation string) ([]byte, error) {
	payload, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, services.Wrap(services.ErrMediaProcessing, "media", operation, fmt.Sprintf("read %s", file.Name), err)
	}
	return payload, nil
}
