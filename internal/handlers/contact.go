package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contacthub/backend/internal/requestdata"
	"github.com/contacthub/backend/internal/services"
	"github.com/contacthub/backend/internal/types"
)

// photoFormField is the multipart field carrying the photo blob.
const photoFormField = "photo"

type ContactHandler struct {
	contactService services.ContactService
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// contactFieldsRequest is the submitted field set, accepted as JSON or
// form data. PhotoURL/PhotoFilename echo the descriptor the client
// believes is current; on photo replacement the old object is deleted
// by that submitted filename.
type contactFieldsRequest struct {
	FirstName     string `json:"firstName" form:"firstName"`
	LastName      string `json:"lastName" form:"lastName"`
	Address       string `json:"address" form:"address"`
	EmailAdd      string `json:"emailAdd" form:"emailAdd"`
	Number        string `json:"number" form:"number"`
	Favorite      bool   `json:"favorite" form:"favorite"`
	PhotoURL      string `json:"photoUrl" form:"photoUrl"`
	PhotoFilename string `json:"photoFilename" form:"photoFilename"`
}

func (r contactFieldsRequest) toInput() services.ContactInput {
	return services.ContactInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Address:   r.Address,
		EmailAdd:  r.EmailAdd,
		Number:    r.Number,
		Favorite:  r.Favorite,
		Photo:     types.PhotoInfo{URL: r.PhotoURL, Filename: r.PhotoFilename},
	}
}

func (ch *ContactHandler) Info(c *gin.Context) {
	count, err := ch.contactService.Info(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.String(http.StatusOK, "<p> Contacts app have %d contacts</p>", count)
}

func (ch *ContactHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	contacts, err := ch.contactService.ListByOwner(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (ch *ContactHandler) Favorites(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	contacts, err := ch.contactService.FavoritesByOwner(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (ch *ContactHandler) Get(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	contact, err := ch.contactService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (ch *ContactHandler) Create(c *gin.Context) {
	ownerID, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req contactFieldsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	photo, closePhoto, err := formUpload(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	defer closePhoto()

	contact, err := ch.contactService.Create(c.Request.Context(), ownerID, req.toInput(), photo)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (ch *ContactHandler) Update(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contactFieldsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	photo, closePhoto, err := formUpload(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	defer closePhoto()

	contact, err := ch.contactService.Update(c.Request.Context(), id, req.toInput(), photo)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// SetFavorite replaces the stored field set without touching the
// photo; clients use it to flip the favorite flag.
func (ch *ContactHandler) SetFavorite(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contactFieldsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	contact, err := ch.contactService.SetFields(c.Request.Context(), id, req.toInput())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Delete verifies the token but, unlike the other mutating handlers,
// does not re-check that the identity claim is present.
func (ch *ContactHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := ch.contactService.Delete(c.Request.Context(), rd.UserID, id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
