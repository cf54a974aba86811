package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gestionabsence_backend/internals/configs"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStore keeps blobs in an Alibaba Cloud OSS bucket; refs are object keys.
type OSSStore struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	BucketName string
	Prefix     string
	SignTTL    time.Duration
}

func NewOSSStoreFromEnv(prefix string) (*OSSStore, error) {
	endpoint := configs.GetEnv("ALI_OSS_ENDPOINT")
	ak := configs.GetEnv("ALI_OSS_ACCESS_KEY")
	sk := configs.GetEnv("ALI_OSS_SECRET_KEY")
	sts := configs.GetEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := configs.GetEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s)", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSStore{
		Client:     client,
		Bucket:     bkt,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
		SignTTL:    configs.GetDuration("ALI_OSS_SIGN_TTL", 10*time.Minute),
	}, nil
}

func (s *OSSStore) Driver() string { return DriverOSS }

func (s *OSSStore) key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return s.Prefix + "/" + name
}

func (s *OSSStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	n, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := s.key(n)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.ObjectACL(oss.ACLPrivate),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return key, nil
}

func (s *OSSStore) Delete(ctx context.Context, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return nil
	}
	err := s.Bucket.DeleteObject(ref, oss.WithContext(ctx))
	if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 404 {
		return nil
	}
	return err
}

// Locate signs a short-lived GET URL; justification files are never public.
func (s *OSSStore) Locate(ctx context.Context, ref string) (Location, error) {
	u, err := s.Bucket.SignURL(ref, oss.HTTPGet, int64(s.SignTTL.Seconds()))
	if err != nil {
		return Location{}, fmt.Errorf("oss sign %s: %w", ref, err)
	}
	return Location{URL: u}, nil
}

func (s *OSSStore) List(ctx context.Context) ([]Object, error) {
	var (
		out    []Object
		marker string
		prefix = s.Prefix
	)
	if prefix != "" {
		prefix += "/"
	}
	for {
		res, err := s.Bucket.ListObjects(oss.Prefix(prefix), oss.Marker(marker), oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		for _, o := range res.Objects {
			out = append(out, Object{Ref: o.Key, Size: o.Size, ModTime: o.LastModified})
		}
		if !res.IsTruncated {
			return out, nil
		}
		marker = res.NextMarker
	}
}
