package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/media"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/response"
)

// MediaHandler ingests uploads. Post media becomes self-contained data URLs;
// avatar and banner images go to GCS when a bucket is configured, with a
// data-URL fallback otherwise.
type MediaHandler struct {
	Store     *application.Store
	Search    *application.SearchService
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewMediaHandler(store *application.Store, search *application.SearchService, gcs *storage.Client, bucket string, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{Store: store, Search: search, GCS: gcs, GCSBucket: bucket, Logger: logger}
}

// UploadMedia POST /api/media — multipart field "files". Returns up to the
// per-post cap of encoded media, reporting how many were dropped.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error[any](c, http.StatusBadRequest, "no files", nil)
		return
	}

	dropped := 0
	if len(files) > entity.MaxMediaPerPost {
		dropped = len(files) - entity.MaxMediaPerPost
		files = files[:entity.MaxMediaPerPost]
	}

	out := make([]entity.MediaFile, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "unreadable file: "+fh.Filename, nil)
			return
		}
		ct := fh.Header.Get("Content-Type")
		url, err := media.EncodeDataURL(f, ct)
		_ = f.Close()
		if err != nil {
			response.Error[any](c, http.StatusUnprocessableEntity, "cannot encode "+fh.Filename, err.Error())
			return
		}
		out = append(out, entity.MediaFile{
			URL:  url,
			Type: entity.MediaType(media.KindOf(ct)),
		})
	}

	var meta map[string]any
	if dropped > 0 {
		meta = map[string]any{"dropped_media": dropped}
	}
	response.Success(c, http.StatusOK, out, "media encoded", meta)
}

// UploadAvatar POST /api/profile/avatar — multipart field "avatar". Updates
// the profile and re-indexes it.
func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	h.uploadProfileImage(c, "avatar")
}

// UploadBanner POST /api/profile/banner — multipart field "banner".
func (h *MediaHandler) UploadBanner(c *gin.Context) {
	h.uploadProfileImage(c, "banner")
}

func (h *MediaHandler) uploadProfileImage(c *gin.Context, field string) {
	uid := c.GetString("userID")
	fh, err := c.FormFile(field)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing "+field+" file", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	ct := fh.Header.Get("Content-Type")
	var url string
	if h.GCS != nil && h.GCSBucket != "" {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		objectPath := filepath.ToSlash(filepath.Join(field+"s", uid, uuid.NewString()+ext))
		url, err = helpers.UploadImageToGCS(c.Request.Context(), h.GCS, h.GCSBucket, objectPath, ct, f)
	} else {
		url, err = media.EncodeDataURL(f, ct)
	}
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}

	d, err := h.Store.Mutate(c.Request.Context(), uid, func(d *entity.UserData) (application.Patch, error) {
		profile := d.Profile
		if field == "avatar" {
			profile.AvatarURL = url
		} else {
			profile.BannerURL = url
		}
		return application.Patch{Profile: &profile}, nil
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	h.Search.IndexProfile(c.Request.Context(), uid, d)
	response.Success(c, http.StatusOK, gin.H{"url": url}, field+" updated", nil)
}
