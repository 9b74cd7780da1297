package s3plan

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, aws.ToString(in.Key))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, aws.ToString(in.ContinuationToken))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"#", "Дата", "План"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1, "01.01.2024", "4200"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newStore(api API) *Store {
	return NewStore(api, "plans", "excels/", plan.NewLoader(domain.DefaultPlanLayout()))
}

func TestStore_LoadPlan(t *testing.T) {
	api := new(mockAPI)
	api.On("GetObject", mock.Anything, "excels/Центр.xlsx").
		Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(workbook(t)))}, nil)

	table, err := newStore(api).LoadPlan(context.Background(), "Центр")

	require.NoError(t, err)
	total, ok := table.TotalSales(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, 4200.0, total)
}

func TestStore_LoadPlan_Missing(t *testing.T) {
	api := new(mockAPI)
	api.On("GetObject", mock.Anything, "excels/Нигде.xlsx").Return(nil, &types.NoSuchKey{})

	_, err := newStore(api).LoadPlan(context.Background(), "Нигде")

	assert.ErrorIs(t, err, domain.ErrPlanSourceMissing)
}

func TestStore_LoadPlan_Error(t *testing.T) {
	api := new(mockAPI)
	api.On("GetObject", mock.Anything, "excels/Центр.xlsx").Return(nil, errors.New("access denied"))

	_, err := newStore(api).LoadPlan(context.Background(), "Центр")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPlanSourceMissing)
}

func TestStore_ListLocations(t *testing.T) {
	api := new(mockAPI)
	api.On("ListObjectsV2", mock.Anything, "").Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("excels/Центр.xlsx")},
			{Key: aws.String("excels/readme.md")},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil)
	api.On("ListObjectsV2", mock.Anything, "page-2").Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("excels/Аркадия.xlsx")},
			{Key: aws.String("excels/old/Центр.xlsx")},
		},
		IsTruncated: aws.Bool(false),
	}, nil)

	locations, err := newStore(api).ListLocations(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Аркадия", "Центр"}, locations)
}

func TestStore_SavePlan(t *testing.T) {
	api := new(mockAPI)
	api.On("PutObject", mock.Anything, "excels/Центр.xlsx").Return(nil)
	s := newStore(api)

	require.NoError(t, s.SavePlan(context.Background(), "Центр", workbook(t)))
	assert.Error(t, s.SavePlan(context.Background(), "Центр", []byte("garbage")))

	api.AssertNumberOfCalls(t, "PutObject", 1)
}
