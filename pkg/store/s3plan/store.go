package s3plan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/plan"
	"github.com/de-tools/sales-atlas/pkg/store/planfile"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

// API is the part of the S3 client used by the store.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket       string
	Prefix       string
	Profile      string
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// NewClient builds an S3 client from the shared AWS configuration of the profile.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(DefaultRegion),
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Store reads plan workbooks stored as <prefix><location>.xlsx in a bucket.
type Store struct {
	client API
	bucket string
	prefix string
	loader *plan.Loader
}

func NewStore(client API, bucket, prefix string, loader *plan.Loader) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix, loader: loader}
}

func (s *Store) LoadPlan(ctx context.Context, location string) (*domain.PlanTable, error) {
	if !planfile.ValidLocation(location) {
		return nil, fmt.Errorf("invalid location name %q", location)
	}
	key := s.key(location)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return nil, fmt.Errorf("%s: %w", location, domain.ErrPlanSourceMissing)
		}
		return nil, fmt.Errorf("failed to get plan object s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	table, warnings, err := s.loader.LoadWorkbook(ctx, out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan object s3://%s/%s: %w", s.bucket, key, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("location", location).
		Str("key", key).
		Int("dates", table.Dates()).
		Int("warnings", len(warnings)).
		Msg("plan loaded")
	return table, nil
}

// ListLocations returns the locations of all workbooks directly under the prefix, sorted.
func (s *Store) ListLocations(ctx context.Context) ([]string, error) {
	var locations []string

	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list plan objects in s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if strings.Contains(name, "/") || !strings.EqualFold(path.Ext(name), planfile.Extension) {
				continue
			}
			locations = append(locations, strings.TrimSuffix(name, path.Ext(name)))
		}
	}

	slices.Sort(locations)
	if locations == nil {
		locations = []string{}
	}
	return locations, nil
}

// SavePlan uploads a workbook for location after checking that it parses.
func (s *Store) SavePlan(ctx context.Context, location string, data []byte) error {
	if !planfile.ValidLocation(location) {
		return fmt.Errorf("invalid location name %q", location)
	}
	if _, _, err := s.loader.LoadWorkbook(ctx, bytes.NewReader(data)); err != nil {
		return err
	}

	key := s.key(location)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
	})
	if err != nil {
		return fmt.Errorf("failed to put plan object s3://%s/%s: %w", s.bucket, key, err)
	}

	zerolog.Ctx(ctx).Info().Str("location", location).Str("key", key).Msg("plan saved")
	return nil
}

func (s *Store) key(location string) string {
	return s.prefix + location + planfile.Extension
}
