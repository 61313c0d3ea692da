package submission

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is a handle to a file the user selected for upload.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type localFile struct {
	path string
}

// LocalFile returns a File backed by a path on disk.
func LocalFile(path string) File { return localFile{path: path} }

func (f localFile) Name() string                 { return filepath.Base(f.path) }
func (f localFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

type bytesFile struct {
	name string
	data []byte
}

// BytesFile returns a File holding data in memory.
func BytesFile(name string, data []byte) File { return bytesFile{name: name, data: data} }

func (f bytesFile) Name() string { return f.name }
func (f bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type formFile struct {
	header *multipart.FileHeader
}

// FormFile adapts a file received in a multipart request.
func FormFile(h *multipart.FileHeader) File { return formFile{header: h} }

func (f formFile) Name() string                 { return f.header.Filename }
func (f formFile) Open() (io.ReadCloser, error) { return f.header.Open() }

// EncodeFile reads the whole file and returns it as a base64 data URI.
func EncodeFile(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ReadError{Name: f.Name(), Err: err}
	}
	rc, err := f.Open()
	if err != nil {
		return "", &ReadError{Name: f.Name(), Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", &ReadError{Name: f.Name(), Err: err}
	}
	return EncodeBytes(f.Name(), data), nil
}

// EncodeBytes returns data as a base64 data URI. The media type comes from the
// name's extension, falling back to content sniffing.
func EncodeBytes(name string, data []byte) string {
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(contentType(name, data))
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DecodeDataURI splits a base64 data URI into its media type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrMalformedDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrMalformedDataURI
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrMalformedDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrMalformedDataURI
	}
	return mediaType, data, nil
}

func contentType(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return stripParams(t)
		}
	}
	return stripParams(mimetype.Detect(data).String())
}

func stripParams(t string) string {
	base, _, _ := strings.Cut(t, ";")
	return strings.TrimSpace(base)
}
