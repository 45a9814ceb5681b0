package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tnqbao/gau-drop-service/service"
	"github.com/tnqbao/gau-drop-service/utils"
)

func (ctrl *Controller) CreateDrop(c *gin.Context) {
	ctx := c.Request.Context()

	title := c.PostForm("title")
	description := c.PostForm("description")
	password := c.PostForm("password")
	fingerprint := c.PostForm("fingerprint")

	var fileHeaders []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		fileHeaders = form.File["files"]
	}

	maxFileSize := ctrl.Config.EnvConfig.Upload.MaxFileSize
	for _, fh := range fileHeaders {
		if fh.Size > maxFileSize {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Drop] Upload '%s' exceeds size limit (%d bytes)", fh.Filename, fh.Size)
			utils.JSON400(c, fmt.Sprintf("File '%s' exceeds the maximum allowed size", fh.Filename))
			return
		}
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Drop] Creating drop '%s' with %d files from %s", title, len(fileHeaders), c.ClientIP())

	drop, err := ctrl.Service.Drops.Create(ctx, service.CreateDropInput{
		Title:       title,
		Description: description,
		Password:    password,
		Fingerprint: fingerprint,
		OwnerIP:     c.ClientIP(),
		Files:       payloadsFromHeaders(fileHeaders),
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Drop] Create rejected: %v", err)
			utils.JSON400Fields(c, "Validation failed", vErr.Fields)
		case errors.Is(err, service.ErrBlocked):
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Drop] Blocked fingerprint %s attempted to create a drop", fingerprint)
			utils.JSON403(c, "You are blocked and cannot proceed.")
		case errors.Is(err, service.ErrNoValidFiles):
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Drop] Create with no valid files")
			utils.JSON404(c, "No valid files to archive")
		case errors.Is(err, service.ErrArchiveCreate):
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drop] Archive creation failed")
			utils.JSON500(c, "Failed to create ZIP file")
		default:
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drop] Failed to create drop")
			utils.JSON500(c, "Failed to create drop")
		}
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Drop] Created drop %s", drop.ID)
	utils.JSON201(c, drop)
}

func (ctrl *Controller) ListDrops(c *gin.Context) {
	ctx := c.Request.Context()

	includeDeleted := c.Query("include_deleted") == "true"

	pageStr := c.Query("page")
	perPageStr := c.Query("per_page")
	page, _ := strconv.Atoi(pageStr)
	perPage, _ := strconv.Atoi(perPageStr)

	// Without pagination params the response is a plain array
	paginated := pageStr != "" || perPageStr != ""
	if paginated && perPage <= 0 {
		perPage = 20
	}
	if !paginated {
		perPage = 0
	}

	result, err := ctrl.Service.Drops.List(ctx, includeDeleted, page, perPage)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drop] Failed to list drops")
		utils.JSON500(c, "Failed to list drops")
		return
	}

	if paginated {
		utils.JSON200(c, result)
		return
	}
	utils.JSON200(c, result.Data)
}

func (ctrl *Controller) GetDrop(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := ctrl.parseDropID(c)
	if !ok {
		return
	}

	drop, err := ctrl.Service.Drops.Read(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.JSON404(c, "Drop not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drop] Failed to load drop %s", id)
		utils.JSON500(c, "Failed to load drop")
		return
	}

	utils.JSON200(c, drop)
}

func (ctrl *Controller) UpdateDrop(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := ctrl.parseDropID(c)
	if !ok {
		return
	}

	var in service.UpdateDropInput
	if v, exists := c.GetPostForm("title"); exists {
		in.Title = &v
	}
	if v, exists := c.GetPostForm("description"); exists {
		in.Description = &v
	}
	if v, exists := c.GetPostForm("password"); exists {
		in.Password = &v
	}

	var fileHeaders []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		fileHeaders = form.File["files"]
	}
	in.Files = payloadsFromHeaders(fileHeaders)

	drop, err := ctrl.Service.Drops.Update(ctx, id, in)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrNotFound):
			utils.JSON404(c, "Drop not found")
		case errors.As(err, &vErr):
			utils.JSON400Fields(c, "Validation failed", vErr.Fields)
		default:
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drop] Failed to update drop %s", id)
			utils.JSON500(c, "Failed to update drop")
		}
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Drop] Updated drop %s", id)
	utils.JSON200(c, drop)
}

func (ctrl *Controller) ToggleDeleteDrop(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := ctrl.parseDropID(c)
	if !ok {
		return
	}

	drop, err := ctrl.Service.Drops.ToggleSoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.JSON404(c, "Drop not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drop] Failed to toggle delete on drop %s", id)
		utils.JSON500(c, "Failed to toggle delete")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Drop] Toggled soft delete on drop %s (is_deleted=%t)", id, drop.IsDeleted)
	utils.JSON200(c, drop)
}

func (ctrl *Controller) DeleteDrop(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := ctrl.parseDropID(c)
	if !ok {
		return
	}

	password := c.Param("password")

	drop, err := ctrl.Service.Drops.HardDelete(ctx, id, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			utils.JSON404(c, "Drop not found")
		case errors.Is(err, service.ErrForbidden):
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Drop] Unauthorized hard delete attempt on drop %s from %s", id, c.ClientIP())
			utils.JSON403(c, "You are not authorized to delete this item.")
		default:
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drop] Failed to hard delete drop %s", id)
			utils.JSON500(c, "Failed to delete drop")
		}
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Drop] Hard deleted drop %s", id)
	utils.JSON200(c, gin.H{
		"message": "Drop deleted successfully",
		"data":    drop,
	})
}

func (ctrl *Controller) DownloadDrop(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := ctrl.parseDropID(c)
	if !ok {
		return
	}

	rc, size, filename, err := ctrl.Service.Drops.Download(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			utils.JSON404(c, "Drop not found")
		case errors.Is(err, service.ErrNoContent):
			utils.JSON404(c, "No file path found")
		case errors.Is(err, service.ErrMissingBlob):
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Drop] Referenced blob missing for drop %s", id)
			utils.JSON404(c, "File does not exist")
		default:
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drop] Failed to open download for drop %s", id)
			utils.JSON500(c, "Failed to download file")
		}
		return
	}
	defer rc.Close()

	c.DataFromReader(200, size, "application/octet-stream", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, filename),
	})
}

func (ctrl *Controller) parseDropID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(c.Request.Context(), "[Drop] Invalid drop id format: %s", idStr)
		utils.JSON400(c, "Invalid drop id format")
		return uuid.Nil, false
	}
	return id, true
}

func payloadsFromHeaders(headers []*multipart.FileHeader) []service.FilePayload {
	payloads := make([]service.FilePayload, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		payloads = append(payloads, service.FilePayload{
			Filename:    fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return payloads
}
