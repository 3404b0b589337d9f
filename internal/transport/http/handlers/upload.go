package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// formImage opens the optional multipart file field. A missing field yields a
// nil reader, not an error. The caller must invoke the returned closer.
func formImage(c *gin.Context, field string) (io.Reader, string, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, "", func() {}, nil
		}
		return nil, "", nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", nil, err
	}

	return file, header.Filename, closeQuietly(file), nil
}

func closeQuietly(file multipart.File) func() {
	return func() {
		_ = file.Close()
	}
}
