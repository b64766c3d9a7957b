package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dkireev/realty/internal/common"
	sc "github.com/dkireev/realty/internal/server/config"
	"github.com/dkireev/realty/internal/server/models"
	"github.com/dkireev/realty/internal/server/repositories/repomanager"
)

const presignValidity = 15 * time.Minute

// Seams for testing the AWS SDK calls.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// PhotoService manages listing photos. Bytes go straight between the client
// and the S3-compatible backend via presigned URLs; the service only stores
// the object keys.
type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewPhotoService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *PhotoService {
	return &PhotoService{db: db, repomanager: m, config: config}
}

func photoStorageKey(listingID string) string {
	return fmt.Sprintf("listings/%s/%v", listingID, uuid.New())
}

func (s *PhotoService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
	})

	return newS3PresignClient(client), nil
}

// AddPhoto registers a photo record for the listing and returns it together
// with a presigned PUT URL the client uploads the bytes to. Only the
// listing's owner (or a superuser) may attach photos.
func (s *PhotoService) AddPhoto(ctx context.Context, callerID, listingID string) (*models.ListingPhoto, string, error) {
	listingSvc := &ListingService{db: s.db, repomanager: s.repomanager}
	if err := listingSvc.authorizeOwner(ctx, callerID, listingID); err != nil {
		return nil, "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, "", err
	}

	key := photoStorageKey(listingID)
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return nil, "", err
	}

	photo := &models.ListingPhoto{ID: newID(), ListingID: listingID, StorageKey: key}
	if err := s.repomanager.Photos(s.db).Create(ctx, photo); err != nil {
		return nil, "", err
	}
	return photo, req.URL, nil
}

// GetPhotoURL returns a presigned GET URL for the photo. Photos are public,
// like the listings they belong to.
func (s *PhotoService) GetPhotoURL(ctx context.Context, photoID string) (string, error) {
	photo, err := s.repomanager.Photos(s.db).GetByID(ctx, photoID)
	if err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(photo.StorageKey),
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// ListPhotos returns the photo records of a listing.
func (s *PhotoService) ListPhotos(ctx context.Context, listingID string) ([]*models.ListingPhoto, error) {
	return s.repomanager.Photos(s.db).ListByListing(ctx, listingID)
}

// DeletePhoto removes the photo record if the caller owns the listing or is
// a superuser. The object itself is left to bucket lifecycle rules.
func (s *PhotoService) DeletePhoto(ctx context.Context, callerID, photoID string) error {
	photo, err := s.repomanager.Photos(s.db).GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	listingSvc := &ListingService{db: s.db, repomanager: s.repomanager}
	if err := listingSvc.authorizeOwner(ctx, callerID, photo.ListingID); err != nil {
		return err
	}

	deleted, err := s.repomanager.Photos(s.db).Delete(ctx, photoID)
	if err != nil {
		return err
	}
	if !deleted {
		return common.ErrNotFound
	}
	return nil
}
