package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/crimepatrol/backend/db"
	errs "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/models"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

var supportedMediaTypes = map[string]string{
	".png":  "photo",
	".jpg":  "photo",
	".jpeg": "photo",
	".mp4":  "video",
	".mp3":  "audio",
	".wav":  "audio",
	".ogg":  "audio",
}

type MediaService interface {
	ProcessUploads(userID uint, files []*multipart.FileHeader) ([]models.UploadedFile, error)
}

type mediaService struct {
	mediaRepo db.MediaRepository
	bucket    string
}

func NewMediaService(mediaRepo db.MediaRepository, bucket string) MediaService {
	return &mediaService{
		mediaRepo: mediaRepo,
		bucket:    bucket,
	}
}

// ProcessUploads stores each file in the media bucket and records it.
// Photos additionally get a square feed rendition and a thumbnail. The
// returned file IDs are what report submissions reference.
func (m *mediaService) ProcessUploads(userID uint, files []*multipart.FileHeader) ([]models.UploadedFile, error) {
	if len(files) == 0 {
		return nil, errs.NewKind("no files supplied", http.StatusBadRequest, errs.KindValidation)
	}

	uploaded := make([]models.UploadedFile, 0, len(files))
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		mediaType, ok := supportedMediaTypes[ext]
		if !ok {
			return nil, errs.NewKind(fmt.Sprintf("unsupported file type %s", ext), http.StatusBadRequest, errs.KindValidation)
		}

		file, err := fh.Open()
		if err != nil {
			return nil, errs.NewKind("failed to read uploaded file", http.StatusInternalServerError, errs.KindInternal)
		}

		fileID := uuid.New().String()
		key := fmt.Sprintf("media/%s%s", fileID, ext)

		url, err := m.mediaRepo.UploadMediaToS3(file, fh, m.bucket, key)
		file.Close()
		if err != nil {
			return nil, errs.NewKind("failed to store media", http.StatusServiceUnavailable, errs.KindUpstream)
		}

		record := &models.MediaUpload{
			FileID:      fileID,
			FileType:    mediaType,
			FileSize:    fh.Size,
			Filename:    fh.Filename,
			UserID:      userID,
			FullSizeURL: url,
		}

		out := models.UploadedFile{
			FileID:    fileID,
			MediaType: mediaType,
			Filename:  fh.Filename,
			URL:       url,
		}

		if mediaType == "photo" {
			feedURL, thumbURL, err := m.renderPhotoVariants(fh, fileID)
			if err != nil {
				// variants are cosmetic, the original upload stands
				log.Printf("failed to render variants for %s: %v", fileID, err)
			} else {
				record.FeedURL = feedURL
				record.ThumbnailURL = thumbURL
				out.ThumbnailURL = thumbURL
			}
		}

		if err := m.mediaRepo.SaveMediaUpload(record); err != nil {
			return nil, errs.NewKind("failed to record media upload", http.StatusInternalServerError, errs.KindInternal)
		}
		uploaded = append(uploaded, out)
	}

	return uploaded, nil
}

func (m *mediaService) renderPhotoVariants(fh *multipart.FileHeader, fileID string) (string, string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return "", "", fmt.Errorf("decode image: %v", err)
	}

	feed := imaging.Fill(img, 1080, 1080, imaging.Center, imaging.Lanczos)
	feedURL, err := m.uploadJPEG(feed, fmt.Sprintf("media/%s_feed.jpg", fileID))
	if err != nil {
		return "", "", err
	}

	thumb := resize.Resize(200, 0, img, resize.Lanczos3)
	thumbURL, err := m.uploadJPEG(thumb, fmt.Sprintf("media/%s_thumb.jpg", fileID))
	if err != nil {
		return "", "", err
	}

	return feedURL, thumbURL, nil
}

func (m *mediaService) uploadJPEG(img image.Image, key string) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode jpeg: %v", err)
	}
	return m.mediaRepo.UploadBytesToS3(buf.Bytes(), "image/jpeg", m.bucket, key)
}
