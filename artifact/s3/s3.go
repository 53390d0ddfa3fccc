// Package s3 implements artifact.Store on Amazon S3 or any S3 compatible
// object store (MinIO, R2, etc.).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/hupe1980/agentgraph/artifact"
)

// Client abstracts the S3 API operations used by Store.
// The *s3.Client type satisfies this interface.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Options configures a client built by NewClient.
type Options struct {
	Region string
	// Endpoint targets S3 compatible services; enables path style addressing.
	Endpoint string
	// Static credentials. When empty, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
	// and AWS_SESSION_TOKEN are read from the environment.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewClient builds an *s3.Client from explicit options.
func NewClient(optFns ...func(o *Options)) *s3.Client {
	opts := Options{
		Region:          os.Getenv("AWS_REGION"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	s3opts := s3.Options{Region: opts.Region}
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
		s3opts.UsePathStyle = true
	}
	if opts.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     opts.AccessKeyID,
			SecretAccessKey: opts.SecretAccessKey,
			SessionToken:    opts.SessionToken,
			Source:          "agentgraph",
		}
		s3opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		})
	}
	return s3.New(s3opts)
}

// Store keeps artifacts as objects under an optional key prefix.
type Store struct {
	client Client
	bucket string
	prefix string
}

// New creates an S3 backed artifact store. Prefix is prepended to all
// object keys; pass "" for no prefix.
func New(client Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// key builds the full object key for an artifact name.
func (s *Store) key(name string) (string, error) {
	clean, err := artifact.CleanName(name)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return clean, nil
	}
	return s.prefix + "/" + clean, nil
}

// Location implements artifact.Locator with an s3:// URL.
func (s *Store) Location(name string) (string, error) {
	key, err := s.key(name)
	if err != nil {
		return "", err
	}
	return "s3://" + s.bucket + "/" + key, nil
}

// Save uploads data via PutObject, replacing any existing object.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("artifact/s3: save %s: %w", name, err)
	}
	return nil
}

// Get downloads an object or returns artifact.ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	key, err := s.key(name)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, artifact.ErrNotFound
		}
		return nil, fmt.Errorf("artifact/s3: get %s: %w", name, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// List pages through the prefix and returns names relative to it.
func (s *Store) List(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	var names []string
	p := s3.NewListObjectsV2Paginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("artifact/s3: list: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if s.prefix != "" {
				key = strings.TrimPrefix(key, s.prefix+"/")
			}
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an object. S3 deletes are idempotent, so existence is
// checked first to honour the artifact.ErrNotFound contract.
func (s *Store) Delete(ctx context.Context, name string) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return artifact.ErrNotFound
		}
		return fmt.Errorf("artifact/s3: delete %s: %w", name, err)
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("artifact/s3: delete %s: %w", name, err)
	}
	return nil
}

// isNotFound reports whether err indicates the object does not exist.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
