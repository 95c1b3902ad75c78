package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contacthub/backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetUsers(c *gin.Context) {
	users, err := uh.userService.GetUsers(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (uh *UserHandler) GetUser(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := uh.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AddPhoto replaces the profile photo of the user named in the path.
// The client submits the filename it believes is current so the old
// object can be released; the shared default is never deleted.
func (uh *UserHandler) AddPhoto(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	photo, closePhoto, err := formUpload(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	defer closePhoto()

	oldFilename := c.PostForm("photoFilename")
	user, err := uh.userService.AddPhoto(c.Request.Context(), id, photo, oldFilename)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
