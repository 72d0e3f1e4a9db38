package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/offerready/interviewai/internal/services"
	"github.com/offerready/interviewai/internal/utils"
)

type ResumeHandler struct {
	resumes services.ResumeService
}

func NewResumeHandler(resumes services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	const op = "ResumeHandler.Upload"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is required", err))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}
	defer f.Close()

	stored, err := h.resumes.Upload(c.Request.Context(), services.UploadResumeParams{
		UserID:   userID,
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     int(fileHeader.Size),
		Body:     f,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *ResumeHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	files, err := h.resumes.List(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files, "count": len(files)})
}

func (h *ResumeHandler) DownloadURL(c *gin.Context) {
	const op = "ResumeHandler.DownloadURL"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	path := c.Query("path")
	if path == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "path is required", nil))
		return
	}

	// Object keys embed the owner id; reject foreign paths.
	files, err := h.resumes.List(c.Request.Context(), userID, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	owned := false
	for _, f := range files {
		if f.FilePath == path {
			owned = true
			break
		}
	}
	if !owned {
		writeError(c, utils.E(utils.CodeForbidden, op, "forbidden", nil))
		return
	}

	url, err := h.resumes.DownloadURL(c.Request.Context(), path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
