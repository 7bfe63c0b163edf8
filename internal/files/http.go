package files

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the file extraction endpoint.
func RegisterRoutes(r gin.IRouter) {
	r.POST("/files/extract", ExtractHandler)
}

// ExtractHandler accepts a multipart upload under "file" and returns the
// extracted text or image metadata.
func ExtractHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	if fileHeader.Size > MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": ErrTooLarge.Error()})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	result, err := Process(data)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, ErrUnsupportedType):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		case IsExtractionError(err):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to process file: " + err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
