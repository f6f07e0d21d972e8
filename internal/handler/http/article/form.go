package article

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	artUC "postboard/internal/usecase/article"
)

const (
	// MaxMultipartBytes caps a create or update body. It sits well above
	// the per-image limit so an oversized image reaches the uploader and is
	// reported as an upload failure.
	MaxMultipartBytes = 16 << 20

	// multipartMemory is how much of the form is kept in memory before
	// file parts spill to disk.
	multipartMemory = 8 << 20
)

// articleForm is the parsed multipart body of a create or update.
type articleForm struct {
	Title    string
	Subtitle string
	Content  string
	Image    *artUC.ImageInput
}

// parseForm reads title, subtitle, content and the optional image part.
// A missing or empty image part means "no new image".
func parseForm(w http.ResponseWriter, r *http.Request) (articleForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxMultipartBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return articleForm{}, formError(err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	form := articleForm{
		Title:    r.FormValue("title"),
		Subtitle: r.FormValue("subtitle"),
		Content:  r.FormValue("content"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return articleForm{}, formError(err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return articleForm{}, formError(err)
	}
	if len(data) == 0 {
		return form, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	form.Image = &artUC.ImageInput{Data: data, ContentType: contentType}
	return form, nil
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return errBodyTooLarge
	}
	return fmt.Errorf("%w: %v", errInvalidForm, err)
}
