package server

import (
	"net/http"

	"github.com/crimepatrol/backend/server/response"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleUploadMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			response.JSON(c, "invalid multipart form", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		files := form.File["files"]
		var userID uint
		if user := userFromContext(c); user != nil {
			userID = user.ID
		}

		uploaded, serr := s.MediaService.ProcessUploads(userID, files)
		if serr != nil {
			respondServiceError(c, serr, "could not upload media")
			return
		}

		response.JSON(c, "media uploaded successfully", http.StatusCreated, uploaded, nil)
	}
}
