package modelstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best_model.json")
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	m, err := (&FileLoader{Path: path}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-11-gbr", m.Version())
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := (&FileLoader{Path: filepath.Join(t.TempDir(), "nope.json")}).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type fakeS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Loader(t *testing.T) {
	client := &fakeS3{body: artifact}
	m, err := NewS3LoaderWithClient(client, "eta-models", "prod/best_model.json").Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-11-gbr", m.Version())
	assert.Equal(t, "eta-models", aws.ToString(client.input.Bucket))
	assert.Equal(t, "prod/best_model.json", aws.ToString(client.input.Key))
}

func TestS3LoaderErrors(t *testing.T) {
	denied := errors.New("access denied")
	_, err := NewS3LoaderWithClient(&fakeS3{err: denied}, "b", "k").Load(context.Background())
	assert.ErrorIs(t, err, denied)

	_, err = NewS3LoaderWithClient(&fakeS3{body: "{"}, "b", "k").Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestNewLoader(t *testing.T) {
	l, err := NewLoader(context.Background(), &models.Config{})
	require.NoError(t, err)
	assert.Equal(t, &FileLoader{Path: models.DefaultModelPath}, l)

	_, err = NewLoader(context.Background(), &models.Config{ModelSource: "s3"})
	assert.Error(t, err)

	_, err = NewLoader(context.Background(), &models.Config{ModelSource: "ftp"})
	assert.Error(t, err)
}

func TestRefresherForcesReload(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader, DefaultRefreshInterval, nil, nil)
	_, err := cache.Get(context.Background(), false)
	require.NoError(t, err)

	r := NewRefresher(cache, "@every 1h", nil)
	r.refresh(context.Background())
	assert.Equal(t, uint64(2), cache.Generations())

	require.NoError(t, r.Start(context.Background()))
	r.Stop()
}

func TestRefresherRejectsBadSpec(t *testing.T) {
	r := NewRefresher(NewCache(&countingLoader{}, 0, nil, nil), "every tuesday", nil)
	assert.Error(t, r.Start(context.Background()))
}
