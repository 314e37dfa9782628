package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	cloudStorage "cloud.google.com/go/storage"
	"github.com/kinkando/score-admin/pkg/logger"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
)

const (
	GoogleCloudStorageBaseURL = "https://storage.googleapis.com"
	defaultSignedURLExpiry    = 15 * time.Minute
)

// Storage hands out links to report files kept in a private bucket.
type Storage interface {
	SignedURL(objectName string) (string, error)
	PublicURL(objectName string) string
	Shutdown()
}

type storage struct {
	client     *cloudStorage.Client
	config     *jwt.Config
	bucketName string
	expireTime time.Duration
}

func NewStorage(credential []byte, bucketName string, expireTime time.Duration) Storage {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("cloud storage: connecting")

	client, err := cloudStorage.NewClient(ctx, option.WithCredentialsJSON(credential))
	if err != nil {
		logger.Fatal(err)
	}

	conf, err := google.JWTConfigFromJSON(credential)
	if err != nil {
		logger.Fatalf("unable to load jwt config from json credential: %+v", err)
	}

	if expireTime <= 0 {
		expireTime = defaultSignedURLExpiry
	}

	logger.Info("cloud storage: connected")

	return &storage{
		client:     client,
		config:     conf,
		bucketName: bucketName,
		expireTime: expireTime,
	}
}

func (s *storage) SignedURL(objectName string) (string, error) {
	opts := &cloudStorage.SignedURLOptions{
		Scheme:         cloudStorage.SigningSchemeV4,
		Method:         "GET",
		GoogleAccessID: s.config.Email,
		PrivateKey:     s.config.PrivateKey,
		Expires:        time.Now().Add(s.expireTime),
	}
	fileURL, err := cloudStorage.SignedURL(s.bucketName, strings.TrimPrefix(objectName, "/"), opts)
	if err != nil {
		return "", fmt.Errorf("storage.SignedURL: %v", err)
	}
	return fileURL, nil
}

func (s *storage) PublicURL(objectName string) string {
	return GoogleCloudStorageBaseURL + "/" + s.bucketName + "/" + strings.TrimPrefix(objectName, "/")
}

func (s *storage) Shutdown() {
	logger.Info("cloud storage: shutting down")
	if err := s.client.Close(); err != nil {
		logger.Errorf("cloud storage: close: %s", err.Error())
		return
	}
	logger.Info("cloud storage: shut down")
}
