package db

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/crimepatrol/backend/models"
	"gorm.io/gorm"
)

type MediaRepository interface {
	SaveMediaUpload(media *models.MediaUpload) error
	GetMediaUploadByFileID(fileID string) (*models.MediaUpload, error)
	UploadMediaToS3(file multipart.File, fileHeader *multipart.FileHeader, bucketName string, key string) (string, error)
	UploadBytesToS3(data []byte, contentType string, bucketName string, key string) (string, error)
}

type mediaRepo struct {
	DB *gorm.DB
}

func NewMediaRepo(db *GormDB) MediaRepository {
	return &mediaRepo{db.DB}
}

func (m *mediaRepo) SaveMediaUpload(media *models.MediaUpload) error {
	if err := m.DB.Create(media).Error; err != nil {
		return fmt.Errorf("failed to save media record: %v", err)
	}
	return nil
}

func (m *mediaRepo) GetMediaUploadByFileID(fileID string) (*models.MediaUpload, error) {
	var media models.MediaUpload
	err := m.DB.Where("file_id = ?", fileID).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func createS3Client() (*s3.Client, error) {
	accessKeyID := os.Getenv("AWS_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")
	if accessKeyID == "" || secretAccessKey == "" || region == "" {
		return nil, fmt.Errorf("AWS credentials or region not set in environment variables")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %v", err)
	}

	return s3.NewFromConfig(cfg), nil
}

func (m *mediaRepo) UploadMediaToS3(file multipart.File, fileHeader *multipart.FileHeader, bucketName string, key string) (string, error) {
	client, err := createS3Client()
	if err != nil {
		return "", err
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	fileURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucketName, key)
	log.Printf("File uploaded successfully: %s", fileURL)
	return fileURL, nil
}

func (m *mediaRepo) UploadBytesToS3(data []byte, contentType string, bucketName string, key string) (string, error) {
	client, err := createS3Client()
	if err != nil {
		return "", err
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucketName, key), nil
}
