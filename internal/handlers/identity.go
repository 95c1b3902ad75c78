package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contacthub/backend/internal/requestdata"
	"github.com/contacthub/backend/internal/services"
)

// requireIdentity rejects requests whose verified token carries no id
// claim. The middleware already checked the signature; this guard is
// the per-handler redundancy for operations that act on behalf of the
// identity.
func requireIdentity(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token invalid"})
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// formUpload extracts the optional photo attachment from a multipart
// request. It returns a nil Upload when no file was attached; the
// returned close func is always safe to defer.
func formUpload(c *gin.Context) (*services.Upload, func(), error) {
	header, err := c.FormFile(photoFormField)
	if err != nil {
		return nil, func() {}, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &services.Upload{Filename: header.Filename, Reader: file}, func() { _ = file.Close() }, nil
}
